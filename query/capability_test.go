package query

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSearch_EmptyTerm(t *testing.T) {
	s := NewTextSearch(itemName)
	for _, term := range []string{"", " ", "\t\n  "} {
		_, ok := s.SearchPredicate(term)
		assert.False(t, ok, "term %q", term)
	}
}

func TestTextSearch_TrimsAndLowers(t *testing.T) {
	s := NewTextSearch(itemName)
	p, ok := s.SearchPredicate("  APP ")
	require.True(t, ok)
	assert.Equal(t, OpContains, p.Op)
	assert.Equal(t, []any{"app"}, p.Values)
	assert.True(t, p.Match(item{Name: "Apple"}))
}

func TestSortTable_CaseInsensitive(t *testing.T) {
	table := NewSortTable(map[string]SortExpression[item]{
		"nameAsc":  Asc(itemName),
		"nameDesc": Desc(itemName),
	})

	for _, key := range []string{"nameAsc", "NAMEASC", "nameasc", "NaMeAsC"} {
		expr, ok := table.ResolveSort(key)
		require.True(t, ok, key)
		assert.False(t, expr.Descending)
	}

	expr, ok := table.ResolveSort("NAMEDESC")
	require.True(t, ok)
	assert.True(t, expr.Descending)

	_, ok = table.ResolveSort("priceAsc")
	assert.False(t, ok)
	_, ok = table.ResolveSort("")
	assert.False(t, ok)

	keys := table.Keys()
	slices.Sort(keys)
	assert.Equal(t, []string{"nameasc", "namedesc"}, keys)
}

func TestInFilter(t *testing.T) {
	preds := slices.Collect(InFilter(itemID, []int64{2, 5}))
	require.Len(t, preds, 1)
	assert.Equal(t, OpIn, preds[0].Op)
	assert.Equal(t, []any{int64(2), int64(5)}, preds[0].Values)

	assert.Empty(t, slices.Collect(InFilter[item, int64](itemID, nil)))
}

func TestConcat(t *testing.T) {
	seq := Concat(
		InFilter(itemID, []int64{1}),
		InFilter[item, int64](itemID, nil),
		InFilter(itemName, []string{"a", "b"}),
	)
	preds := slices.Collect(seq)
	require.Len(t, preds, 2)
	assert.Equal(t, "id", preds[0].Field.Name)
	assert.Equal(t, "name", preds[1].Field.Name)

	// 提前终止
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
