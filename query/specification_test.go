package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSpecification_PageNumberClamp 页码下限修正
func TestSpecification_PageNumberClamp(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		var s Specification
		s.SetPageNumber(n)
		assert.Equal(t, 1, s.PageNumber(), "page %d", n)
	}

	var s Specification
	s.SetPageNumber(7)
	assert.Equal(t, 7, s.PageNumber())
}

// TestSpecification_PageSizeClamp 页大小上下限修正
func TestSpecification_PageSizeClamp(t *testing.T) {
	cases := map[int]int{
		51:   MaxPageSize,
		1000: MaxPageSize,
		50:   50,
		10:   10,
		1:    1,
		0:    1,
		-5:   1,
	}
	for in, want := range cases {
		var s Specification
		s.SetPageSize(in)
		assert.Equal(t, want, s.PageSize(), "size %d", in)
	}
}

// TestSpecification_ZeroValue 零值可用
func TestSpecification_ZeroValue(t *testing.T) {
	var s Specification
	assert.Equal(t, 1, s.PageNumber())
	assert.Equal(t, DefaultPageSize, s.PageSize())
	assert.Equal(t, 0, s.Offset())
	assert.Empty(t, s.SortKey())
	assert.Empty(t, s.SearchTerm())
}

// TestSpecification_Offset 偏移量计算
func TestSpecification_Offset(t *testing.T) {
	s := NewSpecification(3, 10, "nameAsc", "  Foo ")
	assert.Equal(t, 20, s.Offset())
	assert.Equal(t, "nameAsc", s.SortKey())
	// 搜索词原样保存
	assert.Equal(t, "  Foo ", s.SearchTerm())

	s = NewSpecification(-2, 999, "", "")
	assert.Equal(t, 1, s.PageNumber())
	assert.Equal(t, MaxPageSize, s.PageSize())
	assert.Equal(t, 0, s.Offset())
}

// TestSpecification_Embedded 嵌入后满足 Spec
func TestSpecification_Embedded(t *testing.T) {
	type brandSpec struct {
		Specification
		BrandIDs []int64
	}
	spec := brandSpec{BrandIDs: []int64{1}}
	spec.SetPageSize(2)
	spec.SetPageNumber(2)

	var s Spec = spec
	assert.Equal(t, 2, s.Offset())
}

// TestSpecification_HugePageNumber 极大页码被修正，偏移量不溢出
func TestSpecification_HugePageNumber(t *testing.T) {
	for _, n := range []int{math.MaxInt, math.MaxInt - 1, MaxPageNumber + 1} {
		for _, size := range []int{1, DefaultPageSize, MaxPageSize, 1000} {
			s := NewSpecification(n, size, "", "")
			assert.Equal(t, MaxPageNumber, s.PageNumber(), "page %d size %d", n, size)
			assert.Positive(t, s.Offset(), "page %d size %d", n, size)
			assert.Equal(t, (MaxPageNumber-1)*s.PageSize(), s.Offset())
		}
	}

	s := NewSpecification(MaxPageNumber, MaxPageSize, "", "")
	assert.Equal(t, MaxPageNumber, s.PageNumber())
}
