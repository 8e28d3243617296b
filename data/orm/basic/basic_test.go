package basic

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbcore "storefront/data/db"
	dbbasic "storefront/data/db/basic"
	"storefront/data/orm"
)

type gadget struct {
	ID      int64   `db:"id" gorm:"primaryKey"`
	Name    string  `db:"name"`
	Price   float64 `db:"price"`
	BrandID int64
	Tags    []string
	Secret  string `db:"-"`
}

func (gadget) TableName() string { return "gadgets" }

func setupGadgets(t *testing.T) (*Orm, orm.IModel) {
	t.Helper()
	ctx := context.Background()

	db, err := dbbasic.New(dbcore.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ExecDDL(ctx,
		`CREATE TABLE gadgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL, price REAL NOT NULL, brand_id INTEGER NOT NULL)`))

	o := New(db)
	m := o.Model(&orm.ModelMeta{Model: gadget{}})
	require.NoError(t, m.Create(ctx,
		gadget{ID: 1, Name: "Drone", Price: 300, BrandID: 1},
		&gadget{ID: 2, Name: "Camera", Price: 120, BrandID: 2},
		gadget{ID: 3, Name: "Speaker", Price: 80, BrandID: 2},
	))
	return o, m
}

func TestModel_FindWithOptions(t *testing.T) {
	_, m := setupGadgets(t)

	var got []gadget
	err := m.Find(context.Background(), &got,
		orm.WithWhere("brand_id IN (?, ?)", 2, 3),
		orm.WithOrderBy("price", false),
		orm.WithLimit(1),
		orm.WithOffset(1),
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Camera", got[0].Name)
	assert.Equal(t, int64(2), got[0].BrandID)
	assert.Empty(t, got[0].Secret)
}

func TestModel_FirstAndNotFound(t *testing.T) {
	_, m := setupGadgets(t)
	ctx := context.Background()

	var g gadget
	require.NoError(t, m.First(ctx, &g, orm.WithWhere("id = ?", 3)))
	assert.Equal(t, "Speaker", g.Name)

	err := m.First(ctx, &g, orm.WithWhere("id = ?", 99))
	assert.ErrorIs(t, err, orm.ErrNotFound)
}

func TestModel_CountIgnoresPaging(t *testing.T) {
	_, m := setupGadgets(t)

	n, err := m.Count(context.Background(),
		orm.WithWhere("price < ?", 200),
		orm.WithOrderBy("name", true),
		orm.WithLimit(1),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestModel_RejectsUnsafeOrderColumn(t *testing.T) {
	_, m := setupGadgets(t)

	var got []gadget
	err := m.Find(context.Background(), &got, orm.WithOrderBy("name; DROP TABLE gadgets", false))
	assert.ErrorIs(t, err, orm.ErrUnsafeIdentifier)

	err = m.Find(context.Background(), &got, orm.WithSelect("id", "1=1"))
	assert.ErrorIs(t, err, orm.ErrUnsafeIdentifier)
}

func TestOrm_BeginCommit(t *testing.T) {
	o, _ := setupGadgets(t)
	ctx := context.Background()

	sess, err := o.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Model(&orm.ModelMeta{Table: "gadgets"}).Create(ctx, gadget{ID: 4, Name: "Watch", Price: 50, BrandID: 1}))
	require.NoError(t, sess.Commit())

	n, err := o.Model(&orm.ModelMeta{Table: "gadgets"}).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestModel_SQLShape(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "gadgets" WHERE \(LOWER\(name\) LIKE \?\) ORDER BY "name" DESC LIMIT \? OFFSET \?`).
		WithArgs("%ca%", 6, 6).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "brand_id", "extra"}).
			AddRow(2, "Camera", 120.0, 2, "ignored"))

	m := New(dbbasic.Wrap(sqlDB, "sqlite")).Model(&orm.ModelMeta{Table: "gadgets"})

	var got []gadget
	err = m.Find(context.Background(), &got,
		orm.WithWhere("LOWER(name) LIKE ?", "%ca%"),
		orm.WithOrderBy("name", true),
		orm.WithLimit(6),
		orm.WithOffset(6),
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, gadget{ID: 2, Name: "Camera", Price: 120, BrandID: 2}, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_InvalidTablePanics(t *testing.T) {
	o := New(dbbasic.Wrap(nil, "sqlite"))
	assert.Panics(t, func() { o.Model(nil) })
	assert.Panics(t, func() { o.Model(&orm.ModelMeta{Table: "bad name"}) })
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"ID":             "id",
		"Name":           "name",
		"BrandID":        "brand_id",
		"ProductBrandID": "product_brand_id",
		"PictureURL":     "picture_url",
		"HTTPServer":     "http_server",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}
