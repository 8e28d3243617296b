package catalog

import (
	"iter"

	"storefront/cache"
	"storefront/query"
)

// 字段访问器；Name 即列名
var (
	ProductID      = query.NewField("id", func(p Product) int64 { return p.ID })
	ProductName    = query.NewField("name", func(p Product) string { return p.Name })
	ProductPrice   = query.NewField("price", func(p Product) float64 { return p.Price })
	ProductBrandID = query.NewField("product_brand_id", func(p Product) int64 { return p.ProductBrandID })
	ProductTypeID  = query.NewField("product_type_id", func(p Product) int64 { return p.ProductTypeID })

	BrandID   = query.NewField("id", func(b ProductBrand) int64 { return b.ID })
	BrandName = query.NewField("name", func(b ProductBrand) string { return b.Name })

	TypeID   = query.NewField("id", func(t ProductType) int64 { return t.ID })
	TypeName = query.NewField("name", func(t ProductType) string { return t.Name })
)

// ProductSpec 商品列表规格：通用分页/排序/搜索 + 品牌、类型过滤
type ProductSpec struct {
	query.Specification
	BrandIDs []int64 `json:"brandIds,omitempty"`
	TypeIDs  []int64 `json:"typeIds,omitempty"`
}

// CacheFilters 参与缓存键的过滤项
func (s ProductSpec) CacheFilters() []string {
	return []string{cache.IDs("brandId", s.BrandIDs), cache.IDs("typeId", s.TypeIDs)}
}

// NamedSpec 品牌、类型这类只有名称的实体的规格
type NamedSpec struct {
	query.Specification
}

type productFilter struct{}

// FilterPredicates 每个非空 ID 集合产出一个 IN 谓词
func (productFilter) FilterPredicates(spec ProductSpec) iter.Seq[query.Predicate[Product]] {
	return query.Concat(
		query.InFilter(ProductBrandID, spec.BrandIDs),
		query.InFilter(ProductTypeID, spec.TypeIDs),
	)
}

var (
	productSorts = query.NewSortTable(map[string]query.SortExpression[Product]{
		"name":      query.Asc(ProductName),
		"nameAsc":   query.Asc(ProductName),
		"nameDesc":  query.Desc(ProductName),
		"priceAsc":  query.Asc(ProductPrice),
		"priceDesc": query.Desc(ProductPrice),
	})

	productProviders = query.Providers[Product, ProductSpec]{
		Search: query.NewTextSearch(ProductName),
		Sort:   productSorts,
		Filter: productFilter{},
	}

	brandProviders = query.Providers[ProductBrand, NamedSpec]{
		Search: query.NewTextSearch(BrandName),
		Sort: query.NewSortTable(map[string]query.SortExpression[ProductBrand]{
			"nameAsc":  query.Asc(BrandName),
			"nameDesc": query.Desc(BrandName),
		}),
	}

	typeProviders = query.Providers[ProductType, NamedSpec]{
		Search: query.NewTextSearch(TypeName),
		Sort: query.NewSortTable(map[string]query.SortExpression[ProductType]{
			"nameAsc":  query.Asc(TypeName),
			"nameDesc": query.Desc(TypeName),
		}),
	}
)

// ProductProviders 商品：搜索 + 排序 + 过滤
func ProductProviders() query.Providers[Product, ProductSpec] { return productProviders }

// BrandProviders 品牌：搜索 + 排序，无过滤
func BrandProviders() query.Providers[ProductBrand, NamedSpec] { return brandProviders }

// TypeProviders 类型：搜索 + 排序，无过滤
func TypeProviders() query.Providers[ProductType, NamedSpec] { return typeProviders }

// ProductSortKeys 商品支持的排序键（小写）
func ProductSortKeys() []string { return productSorts.Keys() }
