package query

import "context"

// Stages 管道的四个具名阶段，nil 表示跳过该阶段
//
// 阶段顺序由 Pipeline 固定为 Filter → Search → Sort → Page，调用方无法改变。
type Stages[T any] struct {
	Filter Strategy[T]
	Search Strategy[T]
	Sort   Strategy[T]
	Page   Strategy[T]
}

// Pipeline 按固定顺序折叠各阶段的策略管道
//
// 对 SQL 后端而言各子句是组合而非顺序执行的，对内存后端则是顺序执行的；
// 固定阶段顺序保证两者得到相同的结果。
type Pipeline[T any] struct {
	stages Stages[T]
}

// NewPipeline 创建管道
func NewPipeline[T any](stages Stages[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Execute 依次应用 Filter、Search、Sort、Page，不触发求值
func (p *Pipeline[T]) Execute(q Queryable[T]) Queryable[T] {
	return fold(q, p.stages.Filter, p.stages.Search, p.stages.Sort, p.stages.Page)
}

// Candidates 只应用 Filter 与 Search，得到分页前的候选集，用于统计总数
func (p *Pipeline[T]) Candidates(q Queryable[T]) Queryable[T] {
	return fold(q, p.stages.Filter, p.stages.Search)
}

// Stages 返回管道的阶段（只读副本）
func (p *Pipeline[T]) Stages() Stages[T] {
	return p.stages
}

// Chain 按给定顺序折叠任意策略列表
//
// 不保证阶段顺序，只用于需要自定义组合的场景；常规查询请使用 Pipeline。
func Chain[T any](q Queryable[T], strategies ...Strategy[T]) Queryable[T] {
	return fold(q, strategies...)
}

func fold[T any](q Queryable[T], strategies ...Strategy[T]) Queryable[T] {
	for _, s := range strategies {
		if s == nil {
			continue
		}
		q = s.Apply(q)
	}
	return q
}

// Build 按实体声明的能力构造管道，未声明的能力对应阶段被跳过；分页阶段总是存在
func Build[T any, S Spec](spec S, providers Providers[T, S]) *Pipeline[T] {
	var stages Stages[T]
	if providers.Filter != nil {
		stages.Filter = NewFilterStrategy(providers.Filter, spec)
	}
	if providers.Search != nil {
		stages.Search = NewSearchStrategy(providers.Search, spec.SearchTerm())
	}
	if providers.Sort != nil {
		stages.Sort = NewSortStrategy(providers.Sort, spec.SortKey())
	}
	stages.Page = NewSelectStrategy[T](spec)
	return NewPipeline(stages)
}

// Page 一次查询的物化结果
type Page[T any] struct {
	// Items 当前页数据
	Items []T
	// Total 分页前满足条件的总数
	Total int64
}

// Fetch 物化当前页并统计候选集总数
//
// 数据源错误原样返回，由调用方转换为失败结果。
func Fetch[T any](ctx context.Context, source Queryable[T], pipeline *Pipeline[T]) (Page[T], error) {
	items, err := pipeline.Execute(source).ToSlice(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	total, err := pipeline.Candidates(source).Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total}, nil
}
