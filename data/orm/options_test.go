package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectQueryOptions(t *testing.T) {
	opts := CollectQueryOptions(
		WithWhere("brand_id IN (?, ?)", 1, 2),
		WithWhere(""),
		WithOrderBy("name", true),
		WithOrderBy("", false),
		WithLimit(6),
		WithLimit(0),
		WithOffset(12),
		WithOffset(-1),
		WithSelect("id", "name"),
		nil,
	)

	assert.Equal(t, []Condition{{Expr: "brand_id IN (?, ?)", Args: []any{1, 2}}}, opts.Where)
	assert.Equal(t, []OrderBy{{Column: "name", Desc: true}}, opts.OrderBy)
	assert.Equal(t, 6, opts.Limit)
	assert.Equal(t, 12, opts.Offset)
	assert.Equal(t, []string{"id", "name"}, opts.Select)
}

func TestModelMeta_HasColumn(t *testing.T) {
	meta := &ModelMeta{
		Table: "products",
		Fields: []FieldMeta{
			{Name: "ID", Column: "id", PrimaryKey: true},
			{Name: "Name", Column: "name"},
		},
	}
	assert.True(t, meta.HasColumn("name"))
	assert.True(t, meta.HasColumn("Name"))
	assert.False(t, meta.HasColumn("password"))
	assert.Equal(t, "id", meta.PrimaryKey())

	var open *ModelMeta
	assert.True(t, open.HasColumn("anything"))
	assert.Equal(t, "id", open.PrimaryKey())
}
