package errors

import (
	"context"
	"fmt"
	"runtime"

	"storefront/logging"
)

// Wrap 包装错误，添加错误码和调用位置
// 建议：在 Service/Handler 层边界使用
func Wrap(ctx context.Context, err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)
	logging.FromContext(ctx).Debug(ctx, fmt.Sprintf("错误包装: %s (位置: %s:%d)", msg, file, line))
	return wrapped
}

// WrapWithLog 包装错误并记录警告日志
func WrapWithLog(ctx context.Context, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)
	logging.FromContext(ctx).Warn(ctx, msg, allFields...)

	return wrapped
}

// WrapQueryError 归一查询错误并在非 NotFound 时记录告警
//
// entity 为查询的实体名，写入日志字段便于定位。
func WrapQueryError(ctx context.Context, err error, entity string) error {
	if err == nil {
		return nil
	}

	normalized := Normalize(err)
	if IsNotFound(normalized) {
		return normalized
	}

	code := GetErrorCode(normalized)
	logging.FromContext(ctx).Warn(ctx, "查询失败",
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("entity", entity),
	)
	return normalized
}

// New 创建新错误（消息附带调用位置）
func New(code ErrorCode, msg string) error {
	_, file, line, _ := runtime.Caller(1)
	return NewError(code, fmt.Sprintf("%s (位置: %s:%d)", msg, file, line))
}

// NewValidationError 创建新的验证错误
func NewValidationError(msg string) error {
	return NewError(ErrCodeValidation, msg)
}
