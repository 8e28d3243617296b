package http

import (
	"context"
	"net/http"
)

// IHttpServer HTTP 服务器接口
type IHttpServer interface {
	GET(path string, handler HttpHandler) IHttpServer
	POST(path string, handler HttpHandler) IHttpServer

	Group(prefix string) IRouteGroup
	Use(middleware ...Middleware) IHttpServer

	// Mount 挂载原生 handler（如 /metrics），不经过中间件链
	Mount(path string, handler http.Handler) IHttpServer

	// Handler 组装全部路由后的 http.Handler
	Handler() http.Handler

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Middleware 定义 HTTP 中间件签名
type Middleware func(ctx IHttpContext, next func() error) error

// IRouteGroup 定义路由组接口
type IRouteGroup interface {
	GET(path string, handler HttpHandler) IRouteGroup
	POST(path string, handler HttpHandler) IRouteGroup

	Group(prefix string) IRouteGroup
	Use(middleware ...Middleware) IRouteGroup
}
