package logging

import "context"

type requestIDKey struct{}

// WithRequestID 在 ctx 中记录请求 ID
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID 读取 ctx 中的请求 ID，没有时返回空串
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext 返回带 request_id 字段的全局 Logger
func FromContext(ctx context.Context) Logger {
	logger := GetLogger()
	if id := RequestID(ctx); id != "" {
		return logger.WithFields(String("request_id", id))
	}
	return logger
}
