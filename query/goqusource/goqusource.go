// Package goqusource 基于 goqu SelectDataset 的 Queryable 实现
//
// SelectDataset 本身就是不可变、延迟执行的，Where/Order/Offset/Limit 直接映射到它，
// ToSlice 使用 ScanStructsContext（依赖 db 标签），Count 使用 CountContext。
// 导入本包即注册 goqu 的 sqlite3 方言。
package goqusource

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"

	"storefront/data/db/dialect"
	"storefront/data/orm"
	"storefront/query"
)

// Queryable goqu 数据集上的惰性查询
type Queryable[T any] struct {
	// filtered 只带 WHERE，用于 Count
	filtered *goqu.SelectDataset
	// ordering 排序表达式，物化时才附加
	ordering []exp.OrderedExpression
	columns  []string

	offset  uint
	limit   uint
	limited bool

	err error
}

// New 在 db 的 table 上创建查询；columns 为允许过滤/排序的列白名单，为空时只做语法校验
func New[T any](db *goqu.Database, table string, columns ...string) *Queryable[T] {
	return &Queryable[T]{
		filtered: db.From(table).Prepared(true),
		columns:  columns,
	}
}

// FromDataset 在已有数据集上创建查询（可预先带 Select/Where）
func FromDataset[T any](ds *goqu.SelectDataset, columns ...string) *Queryable[T] {
	return &Queryable[T]{filtered: ds, columns: columns}
}

func (q *Queryable[T]) clone() *Queryable[T] {
	c := *q
	c.ordering = slices.Clone(q.ordering)
	return &c
}

func (q *Queryable[T]) fail(err error) *Queryable[T] {
	c := q.clone()
	if c.err == nil {
		c.err = err
	}
	return c
}

func (q *Queryable[T]) column(name string) error {
	if !dialect.IsSafeIdentifier(name) {
		return fmt.Errorf("%w: %q", orm.ErrUnsafeIdentifier, name)
	}
	if len(q.columns) > 0 && !slices.Contains(q.columns, name) {
		return fmt.Errorf("%w: %q", orm.ErrUnsafeIdentifier, name)
	}
	return nil
}

// Where 实现 query.Queryable
func (q *Queryable[T]) Where(p query.Predicate[T]) query.Queryable[T] {
	if err := q.column(p.Field.Name); err != nil {
		return q.fail(err)
	}
	expr, err := expression(p, dialect.New(q.filtered.Dialect().Dialect()))
	if err != nil {
		return q.fail(err)
	}
	c := q.clone()
	c.filtered = q.filtered.Where(expr)
	return c
}

// OrderBy 实现 query.Queryable
func (q *Queryable[T]) OrderBy(e query.SortExpression[T]) query.Queryable[T] {
	if err := q.column(e.Field.Name); err != nil {
		return q.fail(err)
	}
	c := q.clone()
	col := goqu.I(e.Field.Name)
	if e.Descending {
		c.ordering = append(c.ordering, col.Desc())
	} else {
		c.ordering = append(c.ordering, col.Asc())
	}
	return c
}

// Skip 实现 query.Queryable
func (q *Queryable[T]) Skip(n int) query.Queryable[T] {
	c := q.clone()
	if n <= 0 {
		return c
	}
	c.offset += uint(n)
	if c.limited {
		c.limit = uint(max(int(c.limit)-n, 0))
	}
	return c
}

// Take 实现 query.Queryable
func (q *Queryable[T]) Take(n int) query.Queryable[T] {
	c := q.clone()
	size := uint(max(n, 0))
	if !c.limited || size < c.limit {
		c.limit = size
		c.limited = true
	}
	return c
}

// Dataset 物化时执行的数据集（便于调试与日志）
func (q *Queryable[T]) Dataset() *goqu.SelectDataset {
	ds := q.filtered
	if len(q.ordering) > 0 {
		ds = ds.Order(q.ordering...)
	}
	if q.offset > 0 {
		ds = ds.Offset(q.offset)
	}
	if q.limited {
		ds = ds.Limit(q.limit)
	}
	return ds
}

// ToSlice 实现 query.Queryable
func (q *Queryable[T]) ToSlice(ctx context.Context) ([]T, error) {
	if q.err != nil {
		return nil, q.err
	}
	items := make([]T, 0)
	if q.limited && q.limit == 0 {
		return items, nil
	}
	if err := q.Dataset().ScanStructsContext(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count 实现 query.Queryable
func (q *Queryable[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	return q.filtered.CountContext(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func expression[T any](p query.Predicate[T], d dialect.Dialect) (exp.Expression, error) {
	col := goqu.C(p.Field.Name)
	switch p.Op {
	case query.OpEq:
		if len(p.Values) != 1 {
			return nil, fmt.Errorf("goqusource: eq on %s needs exactly one value", p.Field.Name)
		}
		return col.Eq(p.Values[0]), nil
	case query.OpIn:
		if len(p.Values) == 0 {
			return goqu.L("1 = 0"), nil
		}
		return col.In(p.Values...), nil
	case query.OpContains:
		if len(p.Values) != 1 {
			return nil, fmt.Errorf("goqusource: contains on %s needs exactly one value", p.Field.Name)
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(fmt.Sprint(p.Values[0]))) + "%"
		return goqu.L(d.Lower("?")+` LIKE ? ESCAPE '\'`, col, pattern), nil
	default:
		return nil, fmt.Errorf("goqusource: unsupported operator %q", p.Op)
	}
}

var _ query.Queryable[struct{}] = (*Queryable[struct{}])(nil)
