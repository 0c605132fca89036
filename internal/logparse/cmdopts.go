package logparse

import "time"

// CmdOpts specifies the log source command-line options
type CmdOpts struct {
	LogFile      string        `short:"l" long:"log" description:"Path of the PostgreSQL log file to follow" env:"SW_LOG"`
	Discover     string        `long:"discover" description:"Postgres URI used to discover the active server log when --log is not given" env:"SW_DISCOVER"`
	ThresholdMs  float64       `short:"t" long:"threshold-ms" description:"Slow query threshold in milliseconds" default:"500" env:"SW_THRESHOLD_MS"`
	PollInterval time.Duration `long:"poll-interval" description:"How often to poll the log file for new lines" default:"1s" env:"SW_POLL_INTERVAL"`
}
