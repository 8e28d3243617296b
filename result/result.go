package result

import (
	"fmt"

	apperrors "storefront/errors"
)

const defaultFailureMessage = "unexpected error"

// Result 操作结果
type Result[T any] struct {
	success bool
	kind    Kind
	value   Value[T]
	total   int64
	message string
}

// Success 构造成功结果；total 为分页前满足条件的总数，与载荷条数相互独立
//
// kind 必须是成功种类，负的 total 同样属于调用方错误，两者都直接 panic。
func Success[T any](value Value[T], kind Kind, total int64) Result[T] {
	if !kind.Successful() {
		panic(fmt.Sprintf("result.Success: %s is not a success kind", kind))
	}
	if total < 0 {
		panic(fmt.Sprintf("result.Success: negative total %d", total))
	}
	return Result[T]{success: true, kind: kind, value: value, total: total}
}

// Failure 构造失败结果，载荷恒为空；空消息以默认消息代替
//
// kind 必须是失败种类，传入成功种类直接 panic。
func Failure[T any](message string, kind Kind) Result[T] {
	if kind.Successful() {
		panic(fmt.Sprintf("result.Failure: %s is a success kind", kind))
	}
	if message == "" {
		message = defaultFailureMessage
	}
	return Result[T]{kind: kind, value: Empty[T](), message: message}
}

// FromError 将应用错误转换为失败结果，nil 错误视为未知失败
func FromError[T any](err error) Result[T] {
	if err == nil {
		return Failure[T]("", KindUnexpected)
	}
	return Failure[T](apperrors.GetMessage(err), KindFromCode(apperrors.GetErrorCode(err)))
}

// KindFromCode 错误码到结果种类的映射
func KindFromCode(code apperrors.ErrorCode) Kind {
	switch code {
	case apperrors.ErrCodeNotFound:
		return KindNotFound
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeValidation:
		return KindInvalid
	case apperrors.ErrCodeUnauthorized:
		return KindUnauthorized
	case apperrors.ErrCodeForbidden:
		return KindForbidden
	case apperrors.ErrCodeConflict:
		return KindConflict
	case apperrors.ErrCodeUnprocessable:
		return KindUnprocessable
	case apperrors.ErrCodeInvalidState:
		return KindInvalidState
	default:
		return KindUnexpected
	}
}

// IsSuccess 是否成功
func (r Result[T]) IsSuccess() bool { return r.success }

// Kind 结果种类
func (r Result[T]) Kind() Kind { return r.kind }

// Value 载荷；失败结果恒为 Empty
func (r Result[T]) Value() Value[T] { return r.value }

// ValueCount 载荷条数（由载荷形态推导）
func (r Result[T]) ValueCount() int { return r.value.Len() }

// TotalCount 分页前满足条件的总数；失败结果为 0
func (r Result[T]) TotalCount() int64 { return r.total }

// ErrorMessage 失败消息；成功结果为空串
func (r Result[T]) ErrorMessage() string { return r.message }
