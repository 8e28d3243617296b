// Package http 路由与请求上下文的最小抽象，实现见 http/basic
package http

import (
	"context"
	"net/http"
	"net/url"
)

// IRequestReader 请求读取接口
type IRequestReader interface {
	GetMethod() string
	GetPath() string
	GetHeader(key string) string
	GetQuery(key string) string
	GetParam(key string) string
	GetQueryParams() url.Values
	GetRequest() *http.Request
	ClientIP() string
}

// IResponseWriter 响应写入接口
type IResponseWriter interface {
	SetHeader(key, value string)
	Status() int

	JSON(code int, obj any) error
	String(code int, text string) error
	Written() bool
}

// IContextStorage 请求级键值存储
type IContextStorage interface {
	Set(key string, value any)
	Get(key string) (any, bool)
}

// IFlowControl 流程控制
type IFlowControl interface {
	Abort()
	IsAborted() bool
}

// IHttpContext 组合接口
type IHttpContext interface {
	IRequestReader
	IResponseWriter
	IContextStorage
	IFlowControl

	// GetContext 请求的 context，携带取消信号与 request id
	GetContext() context.Context
	SetContext(ctx context.Context)
}

// HttpHandler 处理器函数类型
type HttpHandler func(ctx IHttpContext) error

// 请求级存储使用的键
const (
	// RouteKey 命中的路由模板，如 "/api/products/:id"
	RouteKey = "route"
)
