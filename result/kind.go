// Package result 统一的操作结果信封
//
// Result 在构造后不可变：成功结果携带载荷与总数，失败结果携带消息与种类。
// 种类与构造路径不符（例如用 KindNotFound 构造成功结果）属于编程错误，构造函数直接 panic。
// 载荷的形态（空 / 单个 / 一页）是显式的，ValueCount 由形态推导而不单独存储。
package result

import "fmt"

// Kind 结果种类，集合封闭
type Kind int

const (
	KindSuccess Kind = iota
	KindAccepted
	KindCreated
	KindNotFound
	KindInvalid
	KindUnauthorized
	KindForbidden
	KindConflict
	KindUnprocessable
	KindInvalidState
	KindUnexpected
)

var kindNames = [...]string{
	KindSuccess:       "Success",
	KindAccepted:      "Accepted",
	KindCreated:       "Created",
	KindNotFound:      "NotFound",
	KindInvalid:       "Invalid",
	KindUnauthorized:  "Unauthorized",
	KindForbidden:     "Forbidden",
	KindConflict:      "Conflict",
	KindUnprocessable: "Unprocessable",
	KindInvalidState:  "InvalidState",
	KindUnexpected:    "Unexpected",
}

// String 种类名
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Successful 是否属于成功种类（Success/Accepted/Created）
func (k Kind) Successful() bool {
	return k == KindSuccess || k == KindAccepted || k == KindCreated
}
