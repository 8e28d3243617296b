package catalog

import (
	"time"

	"storefront/cache"
	"storefront/domain/application"
	"storefront/logging"
	"storefront/metrics"
)

// ServiceOptions 三个查询服务共享的外围设施
type ServiceOptions struct {
	Cache    cache.Store
	CacheTTL time.Duration
	Metrics  *metrics.Collector
	Logger   logging.Logger
}

// Services 目录的查询服务
type Services struct {
	Products *application.QueryService[Product, ProductSpec]
	Brands   *application.QueryService[ProductBrand, NamedSpec]
	Types    *application.QueryService[ProductType, NamedSpec]
}

// NewServices 在 store 上创建商品、品牌、类型查询服务
func NewServices(store *Store, opts ServiceOptions) (*Services, error) {
	products, err := application.NewQueryService(application.Config[Product, ProductSpec]{
		Entity:    NamespaceProducts,
		Source:    store.Products,
		Providers: ProductProviders(),
		IDField:   ProductID,
		Cache:     opts.Cache,
		CacheTTL:  opts.CacheTTL,
		Metrics:   opts.Metrics,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	brands, err := application.NewQueryService(application.Config[ProductBrand, NamedSpec]{
		Entity:    NamespaceBrands,
		Source:    store.Brands,
		Providers: BrandProviders(),
		IDField:   BrandID,
		Cache:     opts.Cache,
		CacheTTL:  opts.CacheTTL,
		Metrics:   opts.Metrics,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	types, err := application.NewQueryService(application.Config[ProductType, NamedSpec]{
		Entity:    NamespaceTypes,
		Source:    store.Types,
		Providers: TypeProviders(),
		IDField:   TypeID,
		Cache:     opts.Cache,
		CacheTTL:  opts.CacheTTL,
		Metrics:   opts.Metrics,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Services{Products: products, Brands: brands, Types: types}, nil
}
