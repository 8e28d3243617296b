// Package query 提供可组合的查询规格管道
//
// 请求参数（搜索词、排序键、页码/页大小、实体过滤字段）先被吸收为 Specification，
// 再由各实体声明的能力提供者（搜索/排序/过滤）生成谓词与排序表达式，
// 最后按 Filter → Search → Sort → Page 的固定顺序折叠到一个惰性的 Queryable 上。
//
// 管道本身不做任何 I/O、也从不返回错误：非法输入一律就近修正或作为空操作忽略，
// 数据源的错误只会在 ToSlice/Count 这类终结调用上出现。
package query

import "math"

const (
	// MaxPageSize 单页最大条数
	MaxPageSize = 50

	// DefaultPageSize 未设置页大小时使用的默认值
	DefaultPageSize = 6

	// MaxPageNumber 页码上限，保证 Offset 不会溢出
	MaxPageNumber = math.MaxInt / MaxPageSize

	// firstPage 页码下限
	firstPage = 1
)

// Spec 规格的只读视图，实体专属规格通过嵌入 Specification 自动满足
type Spec interface {
	PageNumber() int
	PageSize() int
	Offset() int
	SortKey() string
	SearchTerm() string
}

// Specification 一次请求的查询规格
//
// 页码与页大小只能通过 setter 写入，写入时即被修正到合法区间；
// 零值可以直接使用（第 1 页、DefaultPageSize 条）。
// Search 原样保存，去空白与大小写由搜索提供者处理，便于审计日志记录原始输入。
type Specification struct {
	pageNumber int
	pageSize   int

	// Sort 排序键，大小写不敏感；未注册的键被忽略
	Sort string `json:"sort,omitempty"`

	// Search 搜索词（原样保存）
	Search string `json:"search,omitempty"`
}

// NewSpecification 按原始输入构造规格，越界值会被修正
func NewSpecification(pageNumber, pageSize int, sort, search string) Specification {
	var s Specification
	s.SetPageNumber(pageNumber)
	s.SetPageSize(pageSize)
	s.Sort = sort
	s.Search = search
	return s
}

// SetPageNumber 设置页码，小于 1 的值修正为 1，超过 MaxPageNumber 的值修正为 MaxPageNumber
func (s *Specification) SetPageNumber(n int) {
	switch {
	case n < firstPage:
		n = firstPage
	case n > MaxPageNumber:
		n = MaxPageNumber
	}
	s.pageNumber = n
}

// SetPageSize 设置页大小，超过 MaxPageSize 的值修正为 MaxPageSize，小于 1 的值修正为 1
func (s *Specification) SetPageSize(n int) {
	switch {
	case n > MaxPageSize:
		n = MaxPageSize
	case n < 1:
		n = 1
	}
	s.pageSize = n
}

// PageNumber 当前页码（1..MaxPageNumber）
func (s Specification) PageNumber() int {
	if s.pageNumber < firstPage {
		return firstPage
	}
	return s.pageNumber
}

// PageSize 当前页大小（1..MaxPageSize）
func (s Specification) PageSize() int {
	if s.pageSize == 0 {
		return DefaultPageSize
	}
	return s.pageSize
}

// Offset 分页偏移量：(PageNumber-1) * PageSize
func (s Specification) Offset() int {
	return (s.PageNumber() - 1) * s.PageSize()
}

// SortKey 请求的排序键
func (s Specification) SortKey() string { return s.Sort }

// SearchTerm 原始搜索词
func (s Specification) SearchTerm() string { return s.Search }
