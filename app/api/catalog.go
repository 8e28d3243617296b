package api

import (
	"storefront/catalog"
	httpx "storefront/http"
	bhttp "storefront/http/basic"
	"storefront/query"
)

// ParseProductSpec 解析 brandId、typeId（可重复或逗号分隔）
func ParseProductSpec(c httpx.IHttpContext, base query.Specification) (catalog.ProductSpec, error) {
	utils := &bhttp.HttpUtils{}
	brandIDs, err := utils.QueryIDs(c, ParamBrandID)
	if err != nil {
		return catalog.ProductSpec{}, err
	}
	typeIDs, err := utils.QueryIDs(c, ParamTypeID)
	if err != nil {
		return catalog.ProductSpec{}, err
	}
	return catalog.ProductSpec{Specification: base, BrandIDs: brandIDs, TypeIDs: typeIDs}, nil
}

// ParseNamedSpec 品牌、类型没有额外参数
func ParseNamedSpec(_ httpx.IHttpContext, base query.Specification) (catalog.NamedSpec, error) {
	return catalog.NamedSpec{Specification: base}, nil
}

// RegisterCatalog 在 group 下注册 /products、/products/:id、/brands、/types
func RegisterCatalog(group httpx.IRouteGroup, svc *catalog.Services, middlewares ...httpx.Middleware) error {
	products := DefaultRouteConfig()
	products.BasePath = "/" + catalog.NamespaceProducts
	if err := NewRouteBuilder[catalog.Product, catalog.ProductSpec](svc.Products, ParseProductSpec).
		WithConfig(products).Use(middlewares...).Register(group); err != nil {
		return err
	}

	brands := DefaultRouteConfig()
	brands.BasePath = "/" + catalog.NamespaceBrands
	brands.EnableGet = false
	if err := NewRouteBuilder[catalog.ProductBrand, catalog.NamedSpec](svc.Brands, ParseNamedSpec).
		WithConfig(brands).Use(middlewares...).Register(group); err != nil {
		return err
	}

	types := DefaultRouteConfig()
	types.BasePath = "/" + catalog.NamespaceTypes
	types.EnableGet = false
	return NewRouteBuilder[catalog.ProductType, catalog.NamedSpec](svc.Types, ParseNamedSpec).
		WithConfig(types).Use(middlewares...).Register(group)
}
