package query

import "context"

// Queryable 惰性、可组合的数据集句柄
//
// Where/OrderBy/Skip/Take 都返回新的句柄且不触发求值，接收者保持不变；
// 只有 ToSlice 与 Count 会访问数据源，错误也只在这两处出现。
// Count 统计满足全部谓词的元素数，忽略排序与 Skip/Take。
type Queryable[T any] interface {
	Where(p Predicate[T]) Queryable[T]
	OrderBy(e SortExpression[T]) Queryable[T]
	Skip(n int) Queryable[T]
	Take(n int) Queryable[T]

	ToSlice(ctx context.Context) ([]T, error)
	Count(ctx context.Context) (int64, error)
}
