// Package memory 基于切片的 Queryable 实现
//
// 操作按组合顺序依次作用于数据（与 LINQ to Objects 相同），适合测试与小型参考数据。
package memory

import (
	"context"
	"slices"

	"storefront/query"
)

type opKind int

const (
	opWhere opKind = iota
	opOrder
	opSkip
	opTake
)

type op[T any] struct {
	kind  opKind
	pred  query.Predicate[T]
	order query.SortExpression[T]
	n     int
}

// Queryable 内存数据集句柄
type Queryable[T any] struct {
	items []T
	ops   []op[T]
}

// From 以 items 为数据源创建句柄，items 不会被修改
func From[T any](items []T) *Queryable[T] {
	return &Queryable[T]{items: items}
}

func (q *Queryable[T]) with(o op[T]) *Queryable[T] {
	ops := make([]op[T], len(q.ops), len(q.ops)+1)
	copy(ops, q.ops)
	return &Queryable[T]{items: q.items, ops: append(ops, o)}
}

// Where 实现 query.Queryable
func (q *Queryable[T]) Where(p query.Predicate[T]) query.Queryable[T] {
	return q.with(op[T]{kind: opWhere, pred: p})
}

// OrderBy 实现 query.Queryable
func (q *Queryable[T]) OrderBy(e query.SortExpression[T]) query.Queryable[T] {
	return q.with(op[T]{kind: opOrder, order: e})
}

// Skip 实现 query.Queryable
func (q *Queryable[T]) Skip(n int) query.Queryable[T] {
	return q.with(op[T]{kind: opSkip, n: n})
}

// Take 实现 query.Queryable
func (q *Queryable[T]) Take(n int) query.Queryable[T] {
	return q.with(op[T]{kind: opTake, n: n})
}

// ToSlice 按组合顺序求值
func (q *Queryable[T]) ToSlice(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := slices.Clone(q.items)
	for _, o := range q.ops {
		switch o.kind {
		case opWhere:
			out = slices.DeleteFunc(out, func(item T) bool { return !o.pred.Match(item) })
		case opOrder:
			slices.SortStableFunc(out, o.order.Compare)
		case opSkip:
			out = out[min(max(o.n, 0), len(out)):]
		case opTake:
			out = out[:min(max(o.n, 0), len(out))]
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Count 只应用谓词，忽略排序与 Skip/Take
func (q *Queryable[T]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	for _, item := range q.items {
		if q.matches(item) {
			n++
		}
	}
	return n, nil
}

func (q *Queryable[T]) matches(item T) bool {
	for _, o := range q.ops {
		if o.kind == opWhere && !o.pred.Match(item) {
			return false
		}
	}
	return true
}

var _ query.Queryable[int] = (*Queryable[int])(nil)
