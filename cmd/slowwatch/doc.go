// slowwatch is a command line tool that follows a PostgreSQL server log,
// detects slow queries and publishes per-user/database counters for Prometheus.
//
// Usage:
//
//	slowwatch [OPTIONS]
//
// Source:
//
//	-l, --log=                           Path of the PostgreSQL log file to
//	                                     follow [$SW_LOG]
//	    --discover=                      Postgres URI used to discover the
//	                                     active server log when --log is not
//	                                     given [$SW_DISCOVER]
//	-t, --threshold-ms=                  Slow query threshold in milliseconds
//	                                     (default: 500) [$SW_THRESHOLD_MS]
//	    --poll-interval=                 How often to poll the log file for
//	                                     new lines (default: 1s)
//	                                     [$SW_POLL_INTERVAL]
//
// Sinks:
//
//	-m, --metrics=                       Destination path of the Prometheus
//	                                     textfile [$SW_METRICS]
//	    --prometheus-addr=               Optional TCP address in the form
//	                                     'host:port' serving a live /metrics
//	                                     endpoint [$SW_PROMETHEUS_ADDR]
//	    --publish-interval=              How often to publish the aggregated
//	                                     counters (default: 5s)
//	                                     [$SW_PUBLISH_INTERVAL]
//	    --labels=                        Extra static labels as 'k=v,k2=v2'
//	                                     [$SW_LABELS]
//	    --labels-file=                   YAML file with extra static labels
//	                                     [$SW_LABELS_FILE]
//
// Logging:
//
//	-v, --log-level=[debug|info|error]   Verbosity level for stdout and log
//	                                     file (default: info)
//	    --log-file=                      File name to store logs
//	    --log-file-format=[json|text]    Format of file logs (default: json)
//	    --log-file-rotate                Rotate log files
//	    --log-file-size=                 Maximum size in MB of the log file
//	                                     before it gets rotated (default: 100)
//	    --log-file-age=                  Number of days to retain old log
//	                                     files, 0 means forever (default: 0)
//	    --log-file-number=               Maximum number of old log files to
//	                                     retain, 0 to retain all (default: 0)
//
// Help Options:
//
//	-h, --help                           Show this help message
package main
