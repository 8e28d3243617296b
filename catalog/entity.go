// Package catalog 商品目录：商品、品牌、类型三个只读实体及其查询能力
package catalog

import (
	"storefront/domain/entity"
	"storefront/validation"
)

// 缓存命名空间，同时是实体名与表名前缀
const (
	NamespaceProducts = "products"
	NamespaceBrands   = "brands"
	NamespaceTypes    = "types"
)

// Namespaces 全部命名空间，目录变更时整体失效
var Namespaces = []string{NamespaceProducts, NamespaceBrands, NamespaceTypes}

// ProductBrand 商品品牌
type ProductBrand struct {
	entity.Entity
	Name string `json:"name" db:"name"`
}

// TableName 表名
func (ProductBrand) TableName() string { return "product_brands" }

// GetName 实现 entity.INamed
func (b ProductBrand) GetName() string { return b.Name }

// Validate 实现 entity.IValidatable
func (b ProductBrand) Validate() error {
	var v validation.Collector
	v.Check(validation.ValidateID(b.ID, "品牌ID"))
	v.Check(validation.ValidateRequired(b.Name, "品牌名称"))
	v.Check(validation.ValidateStringLength(b.Name, "品牌名称", 1, 100))
	return v.Err()
}

// ProductType 商品类型
type ProductType struct {
	entity.Entity
	Name string `json:"name" db:"name"`
}

// TableName 表名
func (ProductType) TableName() string { return "product_types" }

// GetName 实现 entity.INamed
func (t ProductType) GetName() string { return t.Name }

// Validate 实现 entity.IValidatable
func (t ProductType) Validate() error {
	var v validation.Collector
	v.Check(validation.ValidateID(t.ID, "类型ID"))
	v.Check(validation.ValidateRequired(t.Name, "类型名称"))
	v.Check(validation.ValidateStringLength(t.Name, "类型名称", 1, 100))
	return v.Err()
}

// Product 商品
type Product struct {
	entity.Entity
	Name           string  `json:"name" db:"name"`
	Description    string  `json:"description" db:"description"`
	Price          float64 `json:"price" db:"price"`
	PictureURL     string  `json:"pictureUrl" db:"picture_url"`
	ProductTypeID  int64   `json:"productTypeId" db:"product_type_id"`
	ProductBrandID int64   `json:"productBrandId" db:"product_brand_id"`
}

// TableName 表名
func (Product) TableName() string { return "products" }

// GetName 实现 entity.INamed
func (p Product) GetName() string { return p.Name }

// Validate 实现 entity.IValidatable
func (p Product) Validate() error {
	var v validation.Collector
	v.Check(validation.ValidateID(p.ID, "商品ID"))
	v.Check(validation.ValidateRequired(p.Name, "商品名称"))
	v.Check(validation.ValidateStringLength(p.Name, "商品名称", 1, 200))
	v.Check(validation.ValidateNonNegative(p.Price, "价格"))
	v.Check(validation.ValidateID(p.ProductTypeID, "类型ID"))
	v.Check(validation.ValidateID(p.ProductBrandID, "品牌ID"))
	if p.PictureURL != "" {
		v.Check(validation.ValidateURL(p.PictureURL, "图片地址", "http", "https"))
	}
	return v.Err()
}

var (
	_ entity.IObject[int64]   = Product{}
	_ entity.INamed           = ProductBrand{}
	_ entity.IValidatable     = ProductType{}
	_ validation.IValidatable = Product{}
)
