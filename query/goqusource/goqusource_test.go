package goqusource

import (
	"context"
	"database/sql"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "storefront/data/db/sqlite"
	"storefront/data/orm"
	"storefront/query"
	"storefront/query/memory"
)

type row struct {
	ID      int64   `db:"id"`
	Name    string  `db:"name"`
	Price   float64 `db:"price"`
	BrandID int64   `db:"brand_id"`
}

var (
	rowName  = query.NewField("name", func(r row) string { return r.Name })
	rowPrice = query.NewField("price", func(r row) float64 { return r.Price })
	rowBrand = query.NewField("brand_id", func(r row) int64 { return r.BrandID })
)

var fixtures = []row{
	{ID: 1, Name: "Apple", Price: 3, BrandID: 1},
	{ID: 2, Name: "Beta", Price: 1, BrandID: 2},
	{ID: 3, Name: "Gamma", Price: 2, BrandID: 5},
	{ID: 4, Name: "Delta_X", Price: 5, BrandID: 5},
}

func setup(t *testing.T) *goqu.Database {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = sqlDB.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL, price REAL NOT NULL, brand_id INTEGER NOT NULL)`)
	require.NoError(t, err)

	db := goqu.New("sqlite3", sqlDB)
	for _, r := range fixtures {
		_, err := db.Insert("items").Rows(r).Executor().Exec()
		require.NoError(t, err)
	}
	return db
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestQueryable_SearchSortPage(t *testing.T) {
	src := New[row](setup(t), "items", "id", "name", "price", "brand_id")
	ctx := context.Background()

	q := src.Where(query.Contains(rowName, "A")).OrderBy(query.Desc(rowName))
	items, err := q.ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Delta_X", "Beta", "Apple"}, names(items))

	page, err := q.Skip(2).Take(1).ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, names(page))

	n, err := q.Skip(2).Take(1).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestQueryable_FilterAndLiteralWildcard(t *testing.T) {
	src := New[row](setup(t), "items")
	ctx := context.Background()

	items, err := src.Where(query.In(rowBrand, int64(2), int64(5))).OrderBy(query.Asc(rowPrice)).ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "Gamma", "Delta_X"}, names(items))

	items, err = src.Where(query.Contains(rowName, "_")).ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Delta_X"}, names(items))

	n, err := src.Where(query.In[row, int64](rowBrand)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueryable_RejectsUnknownColumn(t *testing.T) {
	src := New[row](setup(t), "items", "id", "name")

	_, err := src.OrderBy(query.Asc(rowPrice)).ToSlice(context.Background())
	assert.ErrorIs(t, err, orm.ErrUnsafeIdentifier)

	bad := query.NewField("name) OR (1=1", func(r row) string { return r.Name })
	_, err = New[row](setup(t), "items").Where(query.Eq(bad, "x")).Count(context.Background())
	assert.ErrorIs(t, err, orm.ErrUnsafeIdentifier)
}

func TestQueryable_DatasetSQL(t *testing.T) {
	src := New[row](goqu.New("sqlite3", nil), "items")
	q := src.Where(query.In(rowBrand, 2, 5)).
		OrderBy(query.Asc(rowName)).
		Skip(6).
		Take(6).(*Queryable[row])

	sqlStr, args, err := q.Dataset().ToSQL()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "FROM `items`")
	assert.Contains(t, sqlStr, "`brand_id` IN (?, ?)")
	assert.Contains(t, sqlStr, "ORDER BY `name` ASC")
	assert.Contains(t, sqlStr, "LIMIT ?")
	assert.Contains(t, sqlStr, "OFFSET ?")
	assert.Len(t, args, 4)

	sqlStr, _, err = src.Where(query.Contains(rowName, "é")).(*Queryable[row]).Dataset().ToSQL()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "unicode_lower(`name`) LIKE ? ESCAPE")
}

// TestQueryable_MatchesMemoryBackend 同一管道在两种后端上结果一致
func TestQueryable_MatchesMemoryBackend(t *testing.T) {
	ctx := context.Background()
	spec := query.NewSpecification(1, 2, "priceDesc", "a")

	pipeline := query.NewPipeline(query.Stages[row]{
		Search: query.NewSearchStrategy[row](query.NewTextSearch(rowName), spec.SearchTerm()),
		Sort: query.NewSortStrategy[row](query.NewSortTable(map[string]query.SortExpression[row]{
			"priceDesc": query.Desc(rowPrice),
		}), spec.SortKey()),
		Page: query.NewSelectStrategy[row](spec),
	})

	fromSQL, err := query.Fetch[row](ctx, New[row](setup(t), "items"), pipeline)
	require.NoError(t, err)
	fromMemory, err := query.Fetch[row](ctx, memory.From(fixtures), pipeline)
	require.NoError(t, err)

	assert.Equal(t, fromMemory, fromSQL)
	assert.Equal(t, []string{"Delta_X", "Apple"}, names(fromSQL.Items))
	assert.Equal(t, int64(4), fromSQL.Total)
}
