// Package api 目录只读 REST 接口
package api

import (
	httpx "storefront/http"
	"storefront/query"
)

// RouteConfig 路由配置
type RouteConfig struct {
	// BasePath 资源路径，如 "/products"
	BasePath string

	// EnableGet 是否注册 GET {BasePath}/:id
	EnableGet bool

	// DefaultPageSize 未传 pageSize 时使用的页大小
	DefaultPageSize int

	// PageParams 页码参数名，按顺序取第一个出现的
	PageParams []string

	// Middlewares 只作用于本资源的中间件
	Middlewares []httpx.Middleware
}

// DefaultRouteConfig 默认路由配置
func DefaultRouteConfig() *RouteConfig {
	return &RouteConfig{
		EnableGet:       true,
		DefaultPageSize: query.DefaultPageSize,
		PageParams:      []string{"pageIndex", "pageNumber"},
	}
}

// 查询参数名
const (
	ParamPageSize = "pageSize"
	ParamSort     = "sort"
	ParamSearch   = "search"
	ParamBrandID  = "brandId"
	ParamTypeID   = "typeId"
)
