// Package algo has the ranking, filtering and reduction steps shared by
// file rows and aggregated groups.
package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/madu/schema"
)

// Rank sorts items by value in descending order with ties broken by key
// in ascending order. The sort is in place and the slice is returned.
func Rank[T schema.Ranked](items []T) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := cmp.Compare(b.GetValue(), a.GetValue()); c != 0 {
			return c
		}
		return cmp.Compare(a.GetKey(), b.GetKey())
	})
	return items
}

// Window drops the first skip items and then keeps at most top of the rest.
// A top of 0 means unlimited.
func Window[T any](items []T, skip, top int) []T {
	if skip >= len(items) {
		return items[:0]
	}
	items = items[max(skip, 0):]
	if top > 0 && len(items) > top {
		return items[:top]
	}
	return items
}
