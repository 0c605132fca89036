package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_Record(t *testing.T) {
	a := NewAggregator()

	a.Record(600, "bob", "billing")
	a.Record(1200, "bob", "billing")
	a.Record(750.5, "alice", "orders")

	snap := a.Snapshot()
	assert.EqualValues(t, 3, snap.Global.Count)
	assert.InDelta(t, 2550.5, snap.Global.SumMs, 0.001)

	bob := snap.ByKey[QueryKey{User: "bob", DB: "billing"}]
	assert.EqualValues(t, 2, bob.Count)
	assert.InDelta(t, 1800, bob.SumMs, 0.001)

	alice := snap.ByKey[QueryKey{User: "alice", DB: "orders"}]
	assert.EqualValues(t, 1, alice.Count)
	assert.InDelta(t, 750.5, alice.SumMs, 0.001)
}

func TestAggregator_UnknownKey(t *testing.T) {
	a := NewAggregator()
	a.Record(900, "", "")

	snap := a.Snapshot()
	b := snap.ByKey[QueryKey{User: UnknownField, DB: UnknownField}]
	assert.EqualValues(t, 1, b.Count)
	assert.InDelta(t, 900, b.SumMs, 0.001)
}

func TestAggregator_SnapshotIsolation(t *testing.T) {
	a := NewAggregator()
	a.Record(500, "bob", "billing")

	snap := a.Snapshot()
	a.Record(500, "bob", "billing")
	a.Record(500, "carol", "sales")

	assert.EqualValues(t, 1, snap.Global.Count, "snapshot unaffected by later records")
	assert.Len(t, snap.ByKey, 1)
}

func TestSnapshot_SortedKeys(t *testing.T) {
	a := NewAggregator()
	// inserted out of order on purpose
	a.Record(1, "bob", "billing")
	a.Record(1, "alice", "orders")
	a.Record(1, "alice", "billing")

	keys := a.Snapshot().SortedKeys()
	assert.Equal(t, []QueryKey{
		{User: "alice", DB: "billing"},
		{User: "alice", DB: "orders"},
		{User: "bob", DB: "billing"},
	}, keys)
}
