package sinks

import "time"

// CmdOpts specifies where and how often the aggregated counters are published
type CmdOpts struct {
	MetricsPath     string        `short:"m" long:"metrics" description:"Destination path of the Prometheus textfile" env:"SW_METRICS"`
	PrometheusAddr  string        `long:"prometheus-addr" description:"Optional TCP address in the form 'host:port' serving a live /metrics endpoint" env:"SW_PROMETHEUS_ADDR"`
	PublishInterval time.Duration `long:"publish-interval" description:"How often to publish the aggregated counters" default:"5s" env:"SW_PUBLISH_INTERVAL"`
	Labels          string        `long:"labels" description:"Extra static labels as 'k=v,k2=v2'" env:"SW_LABELS"`
	LabelsFile      string        `long:"labels-file" description:"YAML file with extra static labels" env:"SW_LABELS_FILE"`
}
