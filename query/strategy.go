package query

// Strategy 管道中的一个变换步骤
type Strategy[T any] interface {
	Apply(q Queryable[T]) Queryable[T]
}

// StrategyFunc 函数适配器
type StrategyFunc[T any] func(q Queryable[T]) Queryable[T]

// Apply 实现 Strategy
func (f StrategyFunc[T]) Apply(q Queryable[T]) Queryable[T] { return f(q) }

// FilterStrategy 将过滤提供者产出的谓词逐个 Where 到数据集上
type FilterStrategy[T any, S any] struct {
	provider FilterCapable[T, S]
	spec     S
}

// NewFilterStrategy 创建过滤步骤
func NewFilterStrategy[T any, S any](provider FilterCapable[T, S], spec S) *FilterStrategy[T, S] {
	return &FilterStrategy[T, S]{provider: provider, spec: spec}
}

// Apply 无谓词时原样返回
func (s *FilterStrategy[T, S]) Apply(q Queryable[T]) Queryable[T] {
	if s.provider == nil {
		return q
	}
	for p := range s.provider.FilterPredicates(s.spec) {
		q = q.Where(p)
	}
	return q
}

// SearchStrategy 应用搜索谓词
type SearchStrategy[T any] struct {
	provider SearchCapable[T]
	term     string
}

// NewSearchStrategy 创建搜索步骤
func NewSearchStrategy[T any](provider SearchCapable[T], term string) *SearchStrategy[T] {
	return &SearchStrategy[T]{provider: provider, term: term}
}

// Apply 搜索词为空时原样返回
func (s *SearchStrategy[T]) Apply(q Queryable[T]) Queryable[T] {
	if s.provider == nil {
		return q
	}
	p, ok := s.provider.SearchPredicate(s.term)
	if !ok {
		return q
	}
	return q.Where(p)
}

// SortStrategy 按单个排序键排序，不支持次级排序
type SortStrategy[T any] struct {
	provider SortCapable[T]
	key      string
}

// NewSortStrategy 创建排序步骤
func NewSortStrategy[T any](provider SortCapable[T], key string) *SortStrategy[T] {
	return &SortStrategy[T]{provider: provider, key: key}
}

// Apply 键未注册时原样返回，不引入任何默认排序
func (s *SortStrategy[T]) Apply(q Queryable[T]) Queryable[T] {
	if s.provider == nil {
		return q
	}
	expr, ok := s.provider.ResolveSort(s.key)
	if !ok {
		return q
	}
	return q.OrderBy(expr)
}

// SelectStrategy 分页：Skip((page-1)*size).Take(size)
//
// 必须是管道的最后一步，否则页会在错误的候选集上计算。
type SelectStrategy[T any] struct {
	offset int
	limit  int
}

// NewSelectStrategy 由规格创建分页步骤
func NewSelectStrategy[T any](spec Spec) *SelectStrategy[T] {
	return &SelectStrategy[T]{offset: spec.Offset(), limit: spec.PageSize()}
}

// Apply 实现 Strategy
func (s *SelectStrategy[T]) Apply(q Queryable[T]) Queryable[T] {
	return q.Skip(s.offset).Take(s.limit)
}

// Offset 偏移量
func (s *SelectStrategy[T]) Offset() int { return s.offset }

// Limit 条数上限
func (s *SelectStrategy[T]) Limit() int { return s.limit }
