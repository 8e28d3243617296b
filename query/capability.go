package query

import (
	"iter"
	"strings"
)

// SearchCapable 搜索能力：由搜索词构造谓词
//
// 空串或纯空白的搜索词必须返回 ok=false，搜索阶段随之成为空操作。
type SearchCapable[T any] interface {
	SearchPredicate(term string) (Predicate[T], bool)
}

// SortCapable 排序能力：按键解析排序表达式，键比较大小写不敏感
type SortCapable[T any] interface {
	ResolveSort(key string) (SortExpression[T], bool)
}

// FilterCapable 过滤能力：由实体专属规格产出零个或多个谓词（以 AND 组合）
//
// 返回的序列只保证可遍历一次。
type FilterCapable[T any, S any] interface {
	FilterPredicates(spec S) iter.Seq[Predicate[T]]
}

// Providers 某个实体声明的能力集合，每种能力至多一个，nil 表示不具备
type Providers[T any, S any] struct {
	Search SearchCapable[T]
	Sort   SortCapable[T]
	Filter FilterCapable[T, S]
}

// TextSearch 基于单个文本字段的搜索提供者
type TextSearch[T any] struct {
	field Field[T]
}

// NewTextSearch 创建对 field 做大小写不敏感包含匹配的搜索提供者
func NewTextSearch[T any](field Field[T]) TextSearch[T] {
	return TextSearch[T]{field: field}
}

// SearchPredicate 实现 SearchCapable
func (s TextSearch[T]) SearchPredicate(term string) (Predicate[T], bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return Predicate[T]{}, false
	}
	return Contains(s.field, term), true
}

// SortTable 排序键到排序表达式的静态映射
//
// 构造后只读，可被并发的管道执行共享。
type SortTable[T any] struct {
	entries map[string]SortExpression[T]
}

// NewSortTable 创建排序表，键统一按小写保存
func NewSortTable[T any](entries map[string]SortExpression[T]) SortTable[T] {
	normalized := make(map[string]SortExpression[T], len(entries))
	for key, expr := range entries {
		normalized[strings.ToLower(key)] = expr
	}
	return SortTable[T]{entries: normalized}
}

// ResolveSort 实现 SortCapable
func (t SortTable[T]) ResolveSort(key string) (SortExpression[T], bool) {
	if key == "" {
		return SortExpression[T]{}, false
	}
	expr, ok := t.entries[strings.ToLower(key)]
	return expr, ok
}

// Keys 已注册的排序键（小写）
func (t SortTable[T]) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

// InFilter 把一个 ID 集合翻译为 IN 谓词；集合为空时不产出谓词
func InFilter[T any, V any](field Field[T], values []V) iter.Seq[Predicate[T]] {
	return func(yield func(Predicate[T]) bool) {
		if len(values) == 0 {
			return
		}
		yield(In(field, values...))
	}
}

// Concat 顺序拼接多个谓词序列
func Concat[T any](seqs ...iter.Seq[Predicate[T]]) iter.Seq[Predicate[T]] {
	return func(yield func(Predicate[T]) bool) {
		for _, seq := range seqs {
			for p := range seq {
				if !yield(p) {
					return
				}
			}
		}
	}
}
