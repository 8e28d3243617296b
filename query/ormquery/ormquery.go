// Package ormquery 基于 orm.IModel 的 Queryable 实现
//
// 谓词翻译为 WHERE 条件，排序翻译为 ORDER BY，Skip/Take 翻译为 OFFSET/LIMIT，
// 直到 ToSlice/Count 才执行 SQL。SQL 子句是组合而非顺序执行的，
// 因此 Skip/Take 之后再追加 Where/OrderBy 不会作用于“分页后的结果”；
// 通过 query.Pipeline 执行时阶段顺序固定，不会出现这种组合。
package ormquery

import (
	"context"
	"fmt"
	"strings"

	"storefront/data/db/dialect"
	"storefront/data/orm"
	"storefront/query"
)

// Queryable orm 模型上的惰性查询
type Queryable[T any] struct {
	model orm.IModel

	where   []orm.QueryOption
	order   []orm.QueryOption
	offset  int
	limit   int
	limited bool

	// err 记录构造期的非法输入（如未登记的列），在终结调用时返回
	err error
}

// New 创建模型上的查询句柄
func New[T any](model orm.IModel) *Queryable[T] {
	return &Queryable[T]{model: model}
}

func (q *Queryable[T]) clone() *Queryable[T] {
	c := *q
	c.where = append([]orm.QueryOption(nil), q.where...)
	c.order = append([]orm.QueryOption(nil), q.order...)
	return &c
}

// Where 实现 query.Queryable
func (q *Queryable[T]) Where(p query.Predicate[T]) query.Queryable[T] {
	c := q.clone()
	expr, args, err := q.condition(p)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return c
	}
	c.where = append(c.where, orm.WithWhere(expr, args...))
	return c
}

// OrderBy 实现 query.Queryable
func (q *Queryable[T]) OrderBy(e query.SortExpression[T]) query.Queryable[T] {
	c := q.clone()
	column, err := q.column(e.Field.Name)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return c
	}
	c.order = append(c.order, orm.WithOrderBy(column, e.Descending))
	return c
}

// Skip 实现 query.Queryable；已有 Take 时从剩余条数中扣除
func (q *Queryable[T]) Skip(n int) query.Queryable[T] {
	c := q.clone()
	if n <= 0 {
		return c
	}
	c.offset += n
	if c.limited {
		c.limit = max(c.limit-n, 0)
	}
	return c
}

// Take 实现 query.Queryable；多次 Take 取最小值
func (q *Queryable[T]) Take(n int) query.Queryable[T] {
	c := q.clone()
	n = max(n, 0)
	if !c.limited || n < c.limit {
		c.limit = n
		c.limited = true
	}
	return c
}

// ToSlice 执行 SELECT
func (q *Queryable[T]) ToSlice(ctx context.Context) ([]T, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.limited && q.limit == 0 {
		return []T{}, nil
	}

	opts := make([]orm.QueryOption, 0, len(q.where)+len(q.order)+2)
	opts = append(opts, q.where...)
	opts = append(opts, q.order...)
	if q.limited {
		opts = append(opts, orm.WithLimit(q.limit))
	}
	opts = append(opts, orm.WithOffset(q.offset))

	items := make([]T, 0)
	if err := q.model.Find(ctx, &items, opts...); err != nil {
		return nil, err
	}
	return items, nil
}

// Count 执行 COUNT(*)，只带 WHERE 条件
func (q *Queryable[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	return q.model.Count(ctx, q.where...)
}

// column 校验列名：语法安全且在模型字段白名单内
func (q *Queryable[T]) column(name string) (string, error) {
	if !dialect.IsSafeIdentifier(name) || !q.model.Meta().HasColumn(name) {
		return "", fmt.Errorf("%w: %q", orm.ErrUnsafeIdentifier, name)
	}
	return name, nil
}

func (q *Queryable[T]) condition(p query.Predicate[T]) (string, []any, error) {
	column, err := q.column(p.Field.Name)
	if err != nil {
		return "", nil, err
	}

	switch p.Op {
	case query.OpEq:
		if len(p.Values) != 1 {
			return "", nil, fmt.Errorf("ormquery: eq on %s needs exactly one value", column)
		}
		return column + " = ?", p.Values, nil
	case query.OpIn:
		if len(p.Values) == 0 {
			return "1 = 0", nil, nil
		}
		return column + " IN (" + dialect.Placeholders(len(p.Values)) + ")", p.Values, nil
	case query.OpContains:
		if len(p.Values) != 1 {
			return "", nil, fmt.Errorf("ormquery: contains on %s needs exactly one value", column)
		}
		term := strings.ToLower(fmt.Sprint(p.Values[0]))
		return q.model.Dialect().Lower(column) + " LIKE ? ESCAPE '\\'", []any{"%" + escapeLike(term) + "%"}, nil
	default:
		return "", nil, fmt.Errorf("ormquery: unsupported operator %q", p.Op)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，搜索词按字面匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ query.Queryable[struct{}] = (*Queryable[struct{}])(nil)
