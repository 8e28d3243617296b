package query

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Operator 谓词运算符
type Operator string

const (
	// OpEq 等值：field = value
	OpEq Operator = "eq"
	// OpIn 包含于集合：field IN (values...)
	OpIn Operator = "in"
	// OpContains 大小写不敏感的子串包含，按 Unicode 规则转小写后比较
	OpContains Operator = "contains"
)

// Field 实体字段访问器
//
// Name 同时作为 SQL 后端的列名，Value 供内存后端读取字段值。
type Field[T any] struct {
	Name  string
	Value func(T) any
}

// NewField 创建字段访问器
func NewField[T any, V any](name string, get func(T) V) Field[T] {
	return Field[T]{
		Name:  name,
		Value: func(item T) any { return get(item) },
	}
}

// Predicate 作用于单个实体的布尔条件
//
// 以数据而非闭包表达，使内存后端与 SQL 后端都能解释同一个谓词。
type Predicate[T any] struct {
	Field  Field[T]
	Op     Operator
	Values []any
}

// Eq 构造等值谓词
func Eq[T any](field Field[T], value any) Predicate[T] {
	return Predicate[T]{Field: field, Op: OpEq, Values: []any{value}}
}

// In 构造集合包含谓词
func In[T any, V any](field Field[T], values ...V) Predicate[T] {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return Predicate[T]{Field: field, Op: OpIn, Values: vals}
}

// Contains 构造子串包含谓词，term 应已去空白并转为小写
func Contains[T any](field Field[T], term string) Predicate[T] {
	return Predicate[T]{Field: field, Op: OpContains, Values: []any{term}}
}

// Match 在内存中求值
func (p Predicate[T]) Match(item T) bool {
	if p.Field.Value == nil {
		return false
	}
	v := p.Field.Value(item)
	switch p.Op {
	case OpEq:
		return len(p.Values) == 1 && equalValues(v, p.Values[0])
	case OpIn:
		for _, candidate := range p.Values {
			if equalValues(v, candidate) {
				return true
			}
		}
		return false
	case OpContains:
		if len(p.Values) != 1 {
			return false
		}
		term := strings.ToLower(fmt.Sprint(p.Values[0]))
		return strings.Contains(strings.ToLower(fmt.Sprint(v)), term)
	default:
		return false
	}
}

// String 便于日志输出
func (p Predicate[T]) String() string {
	return fmt.Sprintf("%s %s %v", p.Field.Name, p.Op, p.Values)
}

// SortExpression 排序表达式：字段 + 方向
type SortExpression[T any] struct {
	Field      Field[T]
	Descending bool
}

// Asc 升序
func Asc[T any](field Field[T]) SortExpression[T] {
	return SortExpression[T]{Field: field}
}

// Desc 降序
func Desc[T any](field Field[T]) SortExpression[T] {
	return SortExpression[T]{Field: field, Descending: true}
}

// Compare 按表达式比较两个实体，返回 -1/0/1（已考虑方向）
func (e SortExpression[T]) Compare(a, b T) int {
	if e.Field.Value == nil {
		return 0
	}
	c := compareValues(e.Field.Value(a), e.Field.Value(b))
	if e.Descending {
		return -c
	}
	return c
}

// equalValues 比较两个值，有符号与无符号整数按数值比较
func equalValues(a, b any) bool {
	if ai, ok := toInteger(a); ok {
		if bi, ok := toInteger(b); ok {
			return ai.compare(bi) == 0
		}
	}
	return a == b
}

func compareValues(a, b any) int {
	if ai, ok := toInteger(a); ok {
		if bi, ok := toInteger(b); ok {
			return ai.compare(bi)
		}
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case float32:
		if bv, ok := b.(float32); ok {
			return cmp.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// integer 整数族的统一表示：符号加绝对值，覆盖 int64 与 uint64 的全部取值
type integer struct {
	neg bool
	abs uint64
}

func signed(n int64) integer {
	if n < 0 {
		// -(n+1) 避免 MinInt64 取反溢出
		return integer{neg: true, abs: uint64(-(n + 1)) + 1}
	}
	return integer{abs: uint64(n)}
}

func (a integer) compare(b integer) int {
	switch {
	case a.neg && !b.neg:
		return -1
	case !a.neg && b.neg:
		return 1
	case a.neg:
		return cmp.Compare(b.abs, a.abs)
	default:
		return cmp.Compare(a.abs, b.abs)
	}
}

func toInteger(v any) (integer, bool) {
	switch n := v.(type) {
	case int:
		return signed(int64(n)), true
	case int8:
		return signed(int64(n)), true
	case int16:
		return signed(int64(n)), true
	case int32:
		return signed(int64(n)), true
	case int64:
		return signed(n), true
	case uint:
		return integer{abs: uint64(n)}, true
	case uint8:
		return integer{abs: uint64(n)}, true
	case uint16:
		return integer{abs: uint64(n)}, true
	case uint32:
		return integer{abs: uint64(n)}, true
	case uint64:
		return integer{abs: n}, true
	default:
		return integer{}, false
	}
}
