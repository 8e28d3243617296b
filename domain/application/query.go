// Package application 应用层查询服务
//
// QueryService 把一次列表请求串起来：规格 → 管道 → 数据源物化 → 结果信封 + 分页元数据，
// 并在外围叠加结果缓存、指标与每次查询一行的日志。
package application

import (
	"context"
	"fmt"
	"time"

	"storefront/cache"
	"storefront/errors"
	"storefront/logging"
	"storefront/metrics"
	"storefront/query"
	"storefront/result"
)

// Pagination 附加在响应外的分页元数据
type Pagination struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

// NewPagination 由规格与总数计算分页元数据
func NewPagination(spec query.Spec, total int64) Pagination {
	size := spec.PageSize()
	return Pagination{
		PageNumber: spec.PageNumber(),
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
		TotalCount: total,
	}
}

// CacheKeyer 带实体专属过滤条件的规格，返回参与缓存键的规范化过滤项
type CacheKeyer interface {
	CacheFilters() []string
}

// Config 查询服务配置
type Config[T any, S query.Spec] struct {
	// Entity 实体名，同时用作缓存命名空间、日志字段与指标标签
	Entity string
	// Source 返回实体的查询句柄；句柄不可变，可以每次返回同一个值
	Source func() query.Queryable[T]
	// Providers 实体声明的搜索/排序/过滤能力
	Providers query.Providers[T, S]
	// IDField 主键字段，Get 使用
	IDField query.Field[T]

	// Cache 结果缓存，nil 表示不缓存
	Cache cache.Store
	// CacheTTL 缓存条目过期时间，<=0 时使用 Store 的默认值
	CacheTTL time.Duration

	Metrics *metrics.Collector
	Logger  logging.Logger
}

// QueryService 单个实体的只读查询服务，可被并发请求共享
type QueryService[T any, S query.Spec] struct {
	cfg    Config[T, S]
	logger logging.Logger
}

// NewQueryService 创建查询服务
func NewQueryService[T any, S query.Spec](cfg Config[T, S]) (*QueryService[T, S], error) {
	if cfg.Entity == "" {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "query service: entity name is required")
	}
	if cfg.Source == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("query service %s: source is required", cfg.Entity))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &QueryService[T, S]{
		cfg:    cfg,
		logger: logger.WithFields(logging.String("entity", cfg.Entity)),
	}, nil
}

// Entity 实体名（即缓存命名空间）
func (s *QueryService[T, S]) Entity() string { return s.cfg.Entity }

// List 执行一次分页查询
//
// 数据源错误被转换为失败结果，此时分页元数据为零值。
func (s *QueryService[T, S]) List(ctx context.Context, spec S) (result.Result[T], Pagination) {
	start := time.Now()

	page, hit, err := s.fetch(ctx, spec)
	var res result.Result[T]
	if err != nil {
		res = result.FromError[T](errors.WrapQueryError(ctx, err, s.cfg.Entity))
	} else {
		res = result.Success(result.Page(page.Items), result.KindSuccess, page.Total)
	}

	elapsed := time.Since(start)
	s.cfg.Metrics.RecordQuery(s.cfg.Entity, res.Kind().String(), elapsed, res.ValueCount())
	s.logger.Info(ctx, "list query",
		logging.String("request_id", logging.RequestID(ctx)),
		logging.Int("page", spec.PageNumber()),
		logging.Int("size", spec.PageSize()),
		logging.String("sort", spec.SortKey()),
		logging.String("search", spec.SearchTerm()),
		logging.Int64("total", res.TotalCount()),
		logging.String("kind", res.Kind().String()),
		logging.Bool("cache_hit", hit),
		logging.Duration("elapsed", elapsed),
	)

	if !res.IsSuccess() {
		return res, Pagination{}
	}
	return res, NewPagination(spec, res.TotalCount())
}

func (s *QueryService[T, S]) fetch(ctx context.Context, spec S) (query.Page[T], bool, error) {
	if s.cfg.Cache == nil {
		page, err := query.Fetch(ctx, s.cfg.Source(), query.Build(spec, s.cfg.Providers))
		return page, false, err
	}

	key := s.listKey(spec)
	if page, ok := s.cached(ctx, key); ok {
		return page, true, nil
	}

	page, err := query.Fetch(ctx, s.cfg.Source(), query.Build(spec, s.cfg.Providers))
	if err != nil {
		return page, false, err
	}
	s.store(ctx, key, page)
	return page, false, nil
}

// Get 按主键查询单个实体，不存在时返回 NotFound 结果
func (s *QueryService[T, S]) Get(ctx context.Context, id int64) result.Result[T] {
	start := time.Now()
	res, hit := s.get(ctx, id)

	elapsed := time.Since(start)
	s.cfg.Metrics.RecordQuery(s.cfg.Entity, res.Kind().String(), elapsed, res.ValueCount())
	s.logger.Info(ctx, "get query",
		logging.String("request_id", logging.RequestID(ctx)),
		logging.Int64("id", id),
		logging.String("kind", res.Kind().String()),
		logging.Bool("cache_hit", hit),
		logging.Duration("elapsed", elapsed),
	)
	return res
}

func (s *QueryService[T, S]) get(ctx context.Context, id int64) (result.Result[T], bool) {
	if s.cfg.IDField.Value == nil {
		return result.Failure[T](fmt.Sprintf("%s 不支持按 ID 查询", s.cfg.Entity), result.KindInvalidState), false
	}

	key := fmt.Sprintf("%s:id=%d", s.cfg.Entity, id)
	if page, ok := s.cached(ctx, key); ok && len(page.Items) == 1 {
		return result.Success(result.Single(page.Items[0]), result.KindSuccess, 1), true
	}

	items, err := s.cfg.Source().Where(query.Eq(s.cfg.IDField, id)).Take(1).ToSlice(ctx)
	if err != nil {
		return result.FromError[T](errors.WrapQueryError(ctx, err, s.cfg.Entity)), false
	}
	if len(items) == 0 {
		return result.Failure[T](fmt.Sprintf("%s %d 不存在", s.cfg.Entity, id), result.KindNotFound), false
	}
	s.store(ctx, key, query.Page[T]{Items: items[:1], Total: 1})
	return result.Success(result.Single(items[0]), result.KindSuccess, 1), false
}

func (s *QueryService[T, S]) listKey(spec S) string {
	var filters []string
	if k, ok := any(spec).(CacheKeyer); ok {
		filters = k.CacheFilters()
	}
	return cache.Key(s.cfg.Entity, spec, filters...)
}

// cached 缓存读取失败只记录日志，按未命中处理
func (s *QueryService[T, S]) cached(ctx context.Context, key string) (query.Page[T], bool) {
	if s.cfg.Cache == nil {
		return query.Page[T]{}, false
	}
	page, ok, err := cache.GetJSON[query.Page[T]](ctx, s.cfg.Cache, key)
	if err != nil {
		s.logger.Warn(ctx, "cache get failed", logging.String("key", key), logging.Error(err))
	}
	if !ok {
		s.cfg.Metrics.RecordCacheMiss(s.cfg.Entity)
		return query.Page[T]{}, false
	}
	s.cfg.Metrics.RecordCacheHit(s.cfg.Entity)
	return page, true
}

func (s *QueryService[T, S]) store(ctx context.Context, key string, page query.Page[T]) {
	if s.cfg.Cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.cfg.Cache, key, page, s.cfg.CacheTTL); err != nil {
		s.logger.Warn(ctx, "cache set failed", logging.String("key", key), logging.Error(err))
	}
}
