package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind_Postgres(t *testing.T) {
	d := New("postgres")
	got := d.Rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)")
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", got)
}

func TestRebind_NoChangeForMySQLSQLite(t *testing.T) {
	orig := "SELECT * FROM t WHERE id = ? AND name = ?"
	for _, name := range []string{"mysql", "sqlite", "sqlite3", "unknown"} {
		assert.Equal(t, orig, New(name).Rebind(orig), name)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"products"."name"`, New("sqlite").QuoteIdentifier("products.name"))
	assert.Equal(t, "`name`", New("mysql").QuoteIdentifier("name"))
	assert.Equal(t, "name", New("").QuoteIdentifier("name"))
	assert.Equal(t, "", New("sqlite").QuoteIdentifier(""))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(0))
	assert.Equal(t, "?", Placeholders(1))
	assert.Equal(t, "?, ?, ?", Placeholders(3))
}

func TestIsSafeIdentifier(t *testing.T) {
	for _, ok := range []string{"name", "_id", "product_brand_id", "p.name", "col1"} {
		assert.True(t, IsSafeIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "1col", "name;drop", "a b", "p.", ".p", `"name"`, "name--"} {
		assert.False(t, IsSafeIdentifier(bad), bad)
	}
}

func TestLower(t *testing.T) {
	assert.Equal(t, "unicode_lower(name)", New("sqlite3").Lower("name"))
	assert.Equal(t, "LOWER(name)", New("postgres").Lower("name"))
	assert.Equal(t, "LOWER(?)", New("").Lower("?"))
}
