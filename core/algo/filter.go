package algo

import "github.com/huangsam/madu/schema"

// FilterMinValue keeps items whose value is at least minValue.
func FilterMinValue[T schema.Ranked](items []T, minValue float64) []T {
	out := items[:0:0]
	for _, it := range items {
		if it.GetValue() >= minValue {
			out = append(out, it)
		}
	}
	return out
}

// FilterThreshold keeps items whose value is at least pct percent of the
// largest value present. A pct of 0 keeps everything.
func FilterThreshold[T schema.Ranked](items []T, pct float64) []T {
	if pct <= 0 || len(items) == 0 {
		return items
	}
	return FilterMinValue(items, MaxValue(items)*pct/100)
}

// MaxValue returns the largest value, or 0 for an empty slice.
func MaxValue[T schema.Ranked](items []T) float64 {
	if len(items) == 0 {
		return 0
	}
	best := items[0].GetValue()
	for _, it := range items[1:] {
		best = max(best, it.GetValue())
	}
	return best
}
