package errors

import (
	"context"
	"database/sql"
	stdErrors "errors"

	"storefront/data/orm"
)

// Normalize 将数据源/基础设施错误规范化为 AppError
//
// 已经是 AppError 的原样返回；无法识别的错误归为数据库错误，原始错误保留为 cause。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, orm.ErrNotFound), stdErrors.Is(err, sql.ErrNoRows):
		return WrapError(err, ErrCodeNotFound, "资源未找到")
	case stdErrors.Is(err, context.DeadlineExceeded):
		return WrapError(err, ErrCodeTimeout, "查询超时")
	case stdErrors.Is(err, context.Canceled):
		return WrapError(err, ErrCodeServiceUnavailable, "请求已取消")
	case stdErrors.Is(err, orm.ErrUnsafeIdentifier):
		return WrapError(err, ErrCodeInvalidInput, "非法的字段名")
	default:
		return WrapError(err, ErrCodeDatabase, "数据源访问失败")
	}
}
