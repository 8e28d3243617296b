package result

type shape uint8

const (
	shapeEmpty shape = iota
	shapeSingle
	shapePage
)

// Value 结果载荷：Empty | Single | Page
type Value[T any] struct {
	shape  shape
	single T
	items  []T
}

// Empty 空载荷
func Empty[T any]() Value[T] {
	return Value[T]{shape: shapeEmpty}
}

// Single 单个实体
func Single[T any](v T) Value[T] {
	return Value[T]{shape: shapeSingle, single: v}
}

// Page 一页实体；nil 切片视为空页（仍是 Page 形态）
func Page[T any](items []T) Value[T] {
	if items == nil {
		items = []T{}
	}
	return Value[T]{shape: shapePage, items: items}
}

// Len 载荷基数：Empty 为 0，Single 为 1，Page 为条数
func (v Value[T]) Len() int {
	switch v.shape {
	case shapeSingle:
		return 1
	case shapePage:
		return len(v.items)
	default:
		return 0
	}
}

// IsEmpty 是否为 Empty 形态
func (v Value[T]) IsEmpty() bool { return v.shape == shapeEmpty }

// IsPage 是否为 Page 形态
func (v Value[T]) IsPage() bool { return v.shape == shapePage }

// Single 返回单个实体；非 Single 形态时 ok=false
func (v Value[T]) Single() (T, bool) {
	if v.shape != shapeSingle {
		var zero T
		return zero, false
	}
	return v.single, true
}

// Items 以切片形式返回载荷；Empty 返回 nil
func (v Value[T]) Items() []T {
	switch v.shape {
	case shapeSingle:
		return []T{v.single}
	case shapePage:
		return v.items
	default:
		return nil
	}
}
