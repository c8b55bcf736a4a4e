package detector

import (
	"cmp"
	"slices"
)

// Ranked is anything carrying a hierarchy rank.
type Ranked interface {
	Rank() int
}

// ResolveHierarchy returns a copy of items ordered by ascending rank. Items
// of equal rank keep their input order, so the result depends only on the
// rank values and their positions. The input slice is not modified.
func ResolveHierarchy[T Ranked](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(a.Rank(), b.Rank())
	})
	return out
}

// GroupByRank splits items into runs of equal rank, in ascending rank order.
// Within a group input order is preserved.
func GroupByRank[T Ranked](items []T) [][]T {
	sorted := ResolveHierarchy(items)
	var groups [][]T
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Rank() == sorted[i].Rank() {
			j++
		}
		groups = append(groups, sorted[i:j:j])
		i = j
	}
	return groups
}
