package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ranked struct {
	rank int
	idx  int
}

func (r ranked) Rank() int { return r.rank }

func indices(rs []ranked) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.idx
	}
	return out
}

func TestResolveHierarchyStable(t *testing.T) {
	in := []ranked{{2, 0}, {1, 1}, {2, 2}, {1, 3}}
	got := ResolveHierarchy(in)

	assert.Equal(t, []int{1, 3, 0, 2}, indices(got))
	assert.Equal(t, []int{0, 1, 2, 3}, indices(in), "input must not be reordered")
}

func TestResolveHierarchyCases(t *testing.T) {
	tests := []struct {
		name  string
		ranks []int
		want  []int
	}{
		{"empty", nil, []int{}},
		{"single", []int{7}, []int{0}},
		{"already sorted", []int{0, 1, 2}, []int{0, 1, 2}},
		{"reversed", []int{2, 1, 0}, []int{2, 1, 0}},
		{"all equal", []int{3, 3, 3, 3}, []int{0, 1, 2, 3}},
		{"interleaved", []int{1, 0, 1, 0, 2, 0}, []int{1, 3, 5, 0, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]ranked, len(tt.ranks))
			for i, r := range tt.ranks {
				in[i] = ranked{rank: r, idx: i}
			}
			got := indices(ResolveHierarchy(in))
			assert.Equal(t, tt.want, got)

			// Deterministic across repeated runs.
			for i := 0; i < 10; i++ {
				assert.Equal(t, got, indices(ResolveHierarchy(in)))
			}
		})
	}
}

func TestGroupByRank(t *testing.T) {
	in := []ranked{{2, 0}, {1, 1}, {2, 2}, {1, 3}, {5, 4}}
	groups := GroupByRank(in)

	assert.Len(t, groups, 3)
	assert.Equal(t, []int{1, 3}, indices(groups[0]))
	assert.Equal(t, []int{0, 2}, indices(groups[1]))
	assert.Equal(t, []int{4}, indices(groups[2]))
	assert.Nil(t, GroupByRank[ranked](nil))
}

func TestObjectsStoredInHierarchyOrder(t *testing.T) {
	tree := coaxTree()
	objs := objectsOf(tree)
	objs[1].(map[string]any)["hierarchy"] = 3
	d := mustNew(t, tree)

	contacts := d.Contacts()
	assert.Equal(t, "mantle", contacts[0].Name)
	assert.Equal(t, "point contact", contacts[1].Name)
}
