package core

import (
	"testing"

	"github.com/huangsam/madu/schema"
	"github.com/stretchr/testify/assert"
)

func kv(key string, value float64) schema.KeyedValue {
	return schema.KeyedValue{Key: key, Value: value}
}

func TestDiffSnapshots(t *testing.T) {
	base := []schema.KeyedValue{kv("a.go", 10), kv("b.go", 5), kv("gone.go", 2)}
	prev := []schema.KeyedValue{kv("a.go", 12), kv("b.go", 5), kv("z.go", 1), kv("gone.go", 2)}
	curr := []schema.KeyedValue{kv("new.go", 7), kv("a.go", 15), kv("b.go", 4)}

	deltas := DiffSnapshots(prev, curr, base)

	assert.Equal(t, []schema.RowDelta{
		{Key: "new.go", Value: 7, Previous: 0, Delta: 7, SinceStart: 7, Status: schema.NewStatus},
		{Key: "a.go", Value: 15, Previous: 12, Delta: 3, SinceStart: 5, Status: schema.UpStatus},
		{Key: "b.go", Value: 4, Previous: 5, Delta: -1, SinceStart: -1, Status: schema.DownStatus},
		{Key: "gone.go", Value: 0, Previous: 2, Delta: -2, SinceStart: -2, Status: schema.RemovedStatus},
		{Key: "z.go", Value: 0, Previous: 1, Delta: -1, SinceStart: 0, Status: schema.RemovedStatus},
	}, deltas)
}

func TestDiffSnapshots_FirstFrame(t *testing.T) {
	curr := []schema.KeyedValue{kv("a.go", 3), kv("b.go", 0)}
	deltas := DiffSnapshots(nil, curr, curr)

	for _, d := range deltas {
		assert.Equal(t, schema.NewStatus, d.Status, d.Key)
		assert.Equal(t, 0.0, d.SinceStart, d.Key)
	}
	assert.Len(t, deltas, 2)
}

func TestDiffSnapshots_Unchanged(t *testing.T) {
	snap := []schema.KeyedValue{kv("a.go", 3)}
	deltas := DiffSnapshots(snap, snap, snap)
	assert.Equal(t, schema.SameStatus, deltas[0].Status)
	assert.Equal(t, 0.0, deltas[0].Delta)
}

func TestDetermineStatus(t *testing.T) {
	assert.Equal(t, schema.NewStatus, determineStatus(false, true, 5))
	assert.Equal(t, schema.RemovedStatus, determineStatus(true, false, -5))
	assert.Equal(t, schema.UpStatus, determineStatus(true, true, 0.5))
	assert.Equal(t, schema.DownStatus, determineStatus(true, true, -0.5))
	assert.Equal(t, schema.SameStatus, determineStatus(true, true, 0))
}
