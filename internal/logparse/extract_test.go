package logparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Observation
		matched bool
	}{
		{
			name:    "duration with user and db",
			line:    "2024-01-01 10:00:00 UTC [123] alice@orders LOG: duration: 750.5 ms statement: select 1",
			want:    Observation{DurationMs: 750.5, User: "alice", DB: "orders"},
			matched: true,
		},
		{
			name:    "duration without user and db",
			line:    "2024-01-01 10:00:00 UTC [123] LOG: duration: 600 ms statement: select 1",
			want:    Observation{DurationMs: 600},
			matched: true,
		},
		{
			name:    "integer duration",
			line:    "LOG: duration: 1200 ms",
			want:    Observation{DurationMs: 1200},
			matched: true,
		},
		{
			name:    "case-insensitive marker",
			line:    "LOG: DURATION: 42.1 MS",
			want:    Observation{DurationMs: 42.1},
			matched: true,
		},
		{
			name: "user and db without duration",
			line: "2024-01-01 10:00:00 UTC [123] alice@orders LOG: connection authorized",
		},
		{
			name: "no markers at all",
			line: "checkpoint starting: time",
		},
		{
			name: "empty line",
			line: "",
		},
		{
			name:    "first duration match wins",
			line:    " bob@billing LOG: duration: 100 ms duration: 200 ms",
			want:    Observation{DurationMs: 100, User: "bob", DB: "billing"},
			matched: true,
		},
		{
			name:    "at-token must be whitespace delimited",
			line:    "host=a@b,port=5432 LOG: duration: 300 ms",
			want:    Observation{DurationMs: 300},
			matched: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, matched := Extract(tt.line)
			assert.Equal(t, tt.matched, matched)
			if tt.matched {
				assert.Equal(t, tt.want, obs)
			}
		})
	}
}
