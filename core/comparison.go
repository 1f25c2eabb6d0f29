package core

import (
	"slices"

	"github.com/huangsam/madu/schema"
)

// DiffSnapshots annotates curr against the previous snapshot and the first one.
// Current keys keep their result order. Keys only in prev follow in ascending
// order as removed rows with value 0.
func DiffSnapshots(prev, curr, base []schema.KeyedValue) []schema.RowDelta {
	prevMap := toValueMap(prev)
	baseMap := toValueMap(base)

	deltas := make([]schema.RowDelta, 0, len(curr))
	seen := make(map[string]struct{}, len(curr))
	for _, kv := range curr {
		seen[kv.Key] = struct{}{}
		before, existed := prevMap[kv.Key]
		d := schema.RowDelta{
			Key:        kv.Key,
			Value:      kv.Value,
			Previous:   before,
			Delta:      kv.Value - before,
			SinceStart: kv.Value - baseMap[kv.Key],
			Status:     determineStatus(existed, true, kv.Value-before),
		}
		deltas = append(deltas, d)
	}

	var removed []string
	for key := range prevMap {
		if _, ok := seen[key]; !ok {
			removed = append(removed, key)
		}
	}
	slices.Sort(removed)
	for _, key := range removed {
		before := prevMap[key]
		deltas = append(deltas, schema.RowDelta{
			Key:        key,
			Previous:   before,
			Delta:      -before,
			SinceStart: -baseMap[key],
			Status:     schema.RemovedStatus,
		})
	}
	return deltas
}

// determineStatus classifies a key based on where it exists and how it moved.
func determineStatus(inPrev, inCurr bool, delta float64) schema.DeltaStatus {
	switch {
	case !inPrev && inCurr:
		return schema.NewStatus
	case inPrev && !inCurr:
		return schema.RemovedStatus
	case delta > 0:
		return schema.UpStatus
	case delta < 0:
		return schema.DownStatus
	default:
		return schema.SameStatus
	}
}

func toValueMap(items []schema.KeyedValue) map[string]float64 {
	m := make(map[string]float64, len(items))
	for _, kv := range items {
		m[kv.Key] = kv.Value
	}
	return m
}
