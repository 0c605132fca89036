package metrics

import (
	"cmp"
	"slices"
	"sync"
)

// UnknownField is substituted for the user or database name when the
// log_line_prefix of the server does not include the %u@%d marker.
const UnknownField = "unknown"

// QueryKey identifies a per-user-per-database counter bucket.
type QueryKey struct {
	User string
	DB   string
}

// Bucket accumulates the number of slow queries and their total duration.
// Both values only grow for the lifetime of the process, matching
// Prometheus counter semantics where resets happen on restart only.
type Bucket struct {
	Count uint64
	SumMs float64
}

func (b *Bucket) add(ms float64) {
	b.Count++
	b.SumMs += ms
}

// Snapshot is a read-consistent copy of the aggregator state, safe to
// render without holding any lock.
type Snapshot struct {
	Global Bucket
	ByKey  map[QueryKey]Bucket
}

// SortedKeys returns the bucket keys ordered by (user, db) so that
// repeated renderings of the same state are byte-identical.
func (s Snapshot) SortedKeys() []QueryKey {
	keys := make([]QueryKey, 0, len(s.ByKey))
	for k := range s.ByKey {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b QueryKey) int {
		if c := cmp.Compare(a.User, b.User); c != 0 {
			return c
		}
		return cmp.Compare(a.DB, b.DB)
	})
	return keys
}

// Aggregator accumulates slow query observations. The bucket set only
// grows, cardinality is bounded by the user/database pairs present in
// the server log.
type Aggregator struct {
	sync.Mutex
	global Bucket
	byKey  map[QueryKey]Bucket
}

func NewAggregator() *Aggregator {
	return &Aggregator{byKey: make(map[QueryKey]Bucket)}
}

// Record adds a single observed duration to the global bucket and to the
// per-key bucket. Empty user or db fall back to the "unknown" key.
func (a *Aggregator) Record(ms float64, user, db string) {
	key := QueryKey{User: cmp.Or(user, UnknownField), DB: cmp.Or(db, UnknownField)}
	a.Lock()
	defer a.Unlock()
	a.global.add(ms)
	b := a.byKey[key]
	b.add(ms)
	a.byKey[key] = b
}

// Snapshot returns a deep copy of the current state.
func (a *Aggregator) Snapshot() Snapshot {
	a.Lock()
	defer a.Unlock()
	snap := Snapshot{Global: a.global, ByKey: make(map[QueryKey]Bucket, len(a.byKey))}
	for k, v := range a.byKey {
		snap.ByKey[k] = v
	}
	return snap
}
