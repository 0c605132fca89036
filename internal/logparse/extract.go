package logparse

import (
	"regexp"
	"strconv"
)

// durationRegex matches the statement duration emitted by PostgreSQL with
// log_min_duration_statement enabled, e.g. "duration: 750.5 ms".
var durationRegex = regexp.MustCompile(`(?i)duration:\s+([0-9]+(?:\.[0-9]+)?)\s*ms`)

// userDBRegex captures the '%u@%d' part of log_line_prefix, best-effort.
var userDBRegex = regexp.MustCompile(`\s(?P<user>[^@\s]+)@(?P<db>[^\s]+)\s`)

// Observation is the result of extracting a single log line: the statement
// duration plus the optional user/database pair from the line prefix.
type Observation struct {
	DurationMs float64
	User       string
	DB         string
}

// Extract scans one log line for a duration marker and, independently, for
// a user@db token. It returns false when the line carries no duration, in
// which case no observation is produced regardless of the user@db part.
// Only the first match of each marker is used.
func Extract(line string) (Observation, bool) {
	m := durationRegex.FindStringSubmatch(line)
	if m == nil {
		return Observation{}, false
	}
	ms, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Observation{}, false
	}
	obs := Observation{DurationMs: ms}
	if ud := userDBRegex.FindStringSubmatch(line); ud != nil {
		obs.User = ud[userDBRegex.SubexpIndex("user")]
		obs.DB = ud[userDBRegex.SubexpIndex("db")]
	}
	return obs, true
}
