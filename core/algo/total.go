package algo

import "github.com/huangsam/madu/schema"

// Reduce combines values with the given aggregation rule.
// Mean and max of an empty set are undefined.
func Reduce(values []float64, agg schema.Aggregation) (float64, bool) {
	if len(values) == 0 {
		return 0, agg == schema.SumAgg
	}
	switch agg {
	case schema.MeanAgg:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), true
	case schema.MaxAgg:
		best := values[0]
		for _, v := range values[1:] {
			best = max(best, v)
		}
		return best, true
	default:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum, true
	}
}

// Total reduces the values of items with the rule of the metric kind.
func Total[T schema.Ranked](items []T, kind schema.MetricKind) schema.Total {
	values := make([]float64, len(items))
	for i, it := range items {
		values[i] = it.GetValue()
	}
	agg := kind.Aggregation()
	v, ok := Reduce(values, agg)
	return schema.Total{Value: v, Count: len(items), Aggregation: agg, Defined: ok}
}
