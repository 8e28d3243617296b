package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront/domain/application"
	"storefront/errors"
	httpx "storefront/http"
	bhttp "storefront/http/basic"
	"storefront/query"
	"storefront/result"
)

// IQueryService 路由依赖的查询服务
type IQueryService[T any, S query.Spec] interface {
	List(ctx context.Context, spec S) (result.Result[T], application.Pagination)
	Get(ctx context.Context, id int64) result.Result[T]
}

// SpecParser 在通用分页/排序/搜索参数之上解析实体专属的过滤参数
type SpecParser[S query.Spec] func(ctx httpx.IHttpContext, base query.Specification) (S, error)

// RouteBuilder 单个资源的只读路由
type RouteBuilder[T any, S query.Spec] struct {
	config      *RouteConfig
	middlewares []httpx.Middleware
	service     IQueryService[T, S]
	parse       SpecParser[S]
	utils       *bhttp.HttpUtils
}

// NewRouteBuilder 创建路由构建器
func NewRouteBuilder[T any, S query.Spec](svc IQueryService[T, S], parse SpecParser[S]) *RouteBuilder[T, S] {
	return &RouteBuilder[T, S]{
		config:  DefaultRouteConfig(),
		service: svc,
		parse:   parse,
		utils:   &bhttp.HttpUtils{},
	}
}

// WithConfig 配置路由行为
func (rb *RouteBuilder[T, S]) WithConfig(config *RouteConfig) *RouteBuilder[T, S] {
	if config != nil {
		rb.config = config
	}
	return rb
}

// Use 注册中间件
func (rb *RouteBuilder[T, S]) Use(middlewares ...httpx.Middleware) *RouteBuilder[T, S] {
	rb.middlewares = append(rb.middlewares, middlewares...)
	return rb
}

// Register 注册到路由组
func (rb *RouteBuilder[T, S]) Register(group httpx.IRouteGroup) error {
	if rb.service == nil {
		return fmt.Errorf("service cannot be nil")
	}
	if rb.parse == nil {
		return fmt.Errorf("spec parser cannot be nil")
	}

	// GET /resource - 分页列表
	group.GET(rb.config.BasePath, rb.wrapHandler(rb.handleList))

	// GET /resource/:id - 单个实体
	if rb.config.EnableGet {
		group.GET(rb.config.BasePath+"/:id", rb.wrapHandler(rb.handleGet))
	}
	return nil
}

// wrapHandler 应用资源级中间件
func (rb *RouteBuilder[T, S]) wrapHandler(handler httpx.HttpHandler) httpx.HttpHandler {
	middlewares := make([]httpx.Middleware, 0, len(rb.middlewares)+len(rb.config.Middlewares))
	middlewares = append(middlewares, rb.middlewares...)
	middlewares = append(middlewares, rb.config.Middlewares...)

	executor := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw := middlewares[i]
		next := executor
		executor = func(ctx httpx.IHttpContext) error {
			return mw(ctx, func() error {
				return next(ctx)
			})
		}
	}
	return executor
}

// specification 解析通用参数；非法数字回落到默认值，越界值由规格修正
func (rb *RouteBuilder[T, S]) specification(c httpx.IHttpContext) query.Specification {
	return query.NewSpecification(
		rb.utils.QueryInt(c, 1, rb.config.PageParams...),
		rb.utils.QueryInt(c, rb.config.DefaultPageSize, ParamPageSize),
		c.GetQuery(ParamSort),
		c.GetQuery(ParamSearch),
	)
}

func (rb *RouteBuilder[T, S]) handleList(c httpx.IHttpContext) error {
	spec, err := rb.parse(c, rb.specification(c))
	if err != nil {
		return err
	}

	res, pagination := rb.service.List(c.GetContext(), spec)
	if !res.IsSuccess() {
		return ErrorFromResult(res)
	}

	if err := rb.utils.SetJSONHeader(c, httpx.HeaderPagination, pagination); err != nil {
		return errors.WrapError(err, errors.ErrCodeInternal, "encode pagination header")
	}
	c.SetHeader("Access-Control-Expose-Headers", httpx.HeaderPagination)
	return c.JSON(StatusFromKind(res.Kind()), res.Value().Items())
}

func (rb *RouteBuilder[T, S]) handleGet(c httpx.IHttpContext) error {
	id, err := rb.utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	res := rb.service.Get(c.GetContext(), id)
	if !res.IsSuccess() {
		return ErrorFromResult(res)
	}
	item, _ := res.Value().Single()
	return c.JSON(StatusFromKind(res.Kind()), item)
}

// StatusFromKind 成功结果种类到 HTTP 状态码
func StatusFromKind(kind result.Kind) int {
	switch kind {
	case result.KindCreated:
		return http.StatusCreated
	case result.KindAccepted:
		return http.StatusAccepted
	case result.KindSuccess:
		return http.StatusOK
	default:
		return bhttp.StatusFromCode(CodeFromKind(kind))
	}
}

// CodeFromKind 失败结果种类到错误码
func CodeFromKind(kind result.Kind) errors.ErrorCode {
	switch kind {
	case result.KindNotFound:
		return errors.ErrCodeNotFound
	case result.KindInvalid:
		return errors.ErrCodeInvalidInput
	case result.KindUnauthorized:
		return errors.ErrCodeUnauthorized
	case result.KindForbidden:
		return errors.ErrCodeForbidden
	case result.KindConflict:
		return errors.ErrCodeConflict
	case result.KindUnprocessable:
		return errors.ErrCodeUnprocessable
	case result.KindInvalidState:
		return errors.ErrCodeInvalidState
	default:
		return errors.ErrCodeInternal
	}
}

// ErrorFromResult 把失败结果转换为应用错误，交给统一的错误响应处理
func ErrorFromResult[T any](res result.Result[T]) error {
	return errors.NewError(CodeFromKind(res.Kind()), res.ErrorMessage())
}
