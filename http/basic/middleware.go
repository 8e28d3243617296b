package basic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/errors"
	httpx "storefront/http"
	"storefront/logging"
	"storefront/metrics"
)

// RequestID 读取或生成 X-Request-ID，写回响应头并注入 context
func RequestID() httpx.Middleware {
	return func(ctx httpx.IHttpContext, next func() error) error {
		id := ctx.GetHeader(httpx.HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		ctx.SetHeader(httpx.HeaderRequestID, id)
		ctx.SetContext(logging.WithRequestID(ctx.GetContext(), id))
		return next()
	}
}

// Timeout 为请求 context 设置超时，d<=0 时不生效
func Timeout(d time.Duration) httpx.Middleware {
	return func(ctx httpx.IHttpContext, next func() error) error {
		if d <= 0 {
			return next()
		}
		c, cancel := context.WithTimeout(ctx.GetContext(), d)
		defer cancel()
		ctx.SetContext(c)
		return next()
	}
}

// Recover 把 handler 中的 panic 转为 500 响应
func Recover() httpx.Middleware {
	return func(ctx httpx.IHttpContext, next func() error) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(ctx.GetContext()).Error(ctx.GetContext(), "handler panic",
					logging.String("path", ctx.GetPath()), logging.Any("panic", r))
				err = errors.NewError(errors.ErrCodeInternal, fmt.Sprintf("panic: %v", r))
			}
		}()
		return next()
	}
}

// AccessLog 记录每个请求的访问日志与指标，collector 可为 nil
//
// 应放在 RequestID 之后，以便日志带上 request id。
func AccessLog(collector *metrics.Collector) httpx.Middleware {
	return func(ctx httpx.IHttpContext, next func() error) error {
		start := time.Now()
		err := next()
		if err != nil {
			// 先写出错误响应，才能记录最终状态码
			_ = (&HttpUtils{}).WriteErrorResponse(ctx, err)
		}
		elapsed := time.Since(start)

		route, _ := ctx.Get(httpx.RouteKey)
		routeName, _ := route.(string)
		collector.RecordHTTP(routeName, ctx.Status(), elapsed)

		c := ctx.GetContext()
		logging.FromContext(c).Info(c, "http request",
			logging.String("method", ctx.GetMethod()),
			logging.String("path", ctx.GetPath()),
			logging.String("query", ctx.GetRequest().URL.RawQuery),
			logging.Int("status", ctx.Status()),
			logging.Duration("elapsed", elapsed),
			logging.String("client_ip", ctx.ClientIP()),
		)
		return nil
	}
}
