package catalog

import "storefront/domain/entity"

func brand(id int64, name string) ProductBrand {
	return ProductBrand{Entity: entity.Entity{ID: id}, Name: name}
}

func productType(id int64, name string) ProductType {
	return ProductType{Entity: entity.Entity{ID: id}, Name: name}
}

func product(id int64, name string, price float64, typeID, brandID int64) Product {
	return Product{
		Entity:         entity.Entity{ID: id},
		Name:           name,
		Description:    name,
		Price:          price,
		PictureURL:     "https://cdn.storefront.local/images/products/" + slug(name) + ".png",
		ProductTypeID:  typeID,
		ProductBrandID: brandID,
	}
}

func slug(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case len(out) > 0 && out[len(out)-1] != '-':
			out = append(out, '-')
		}
	}
	if n := len(out); n > 0 && out[n-1] == '-' {
		out = out[:n-1]
	}
	return string(out)
}

// DefaultSeed 示例目录：6 个品牌、4 个类型、18 个商品
func DefaultSeed() SeedData {
	return SeedData{
		Brands: []ProductBrand{
			brand(1, "Angular"),
			brand(2, "NetCore"),
			brand(3, "VS Code"),
			brand(4, "React"),
			brand(5, "Typescript"),
			brand(6, "Redis"),
		},
		Types: []ProductType{
			productType(1, "Boards"),
			productType(2, "Hats"),
			productType(3, "Boots"),
			productType(4, "Gloves"),
		},
		Products: []Product{
			product(1, "Angular Speedster Board 2000", 200, 1, 1),
			product(2, "Green Angular Board 3000", 150, 1, 1),
			product(3, "Core Board Speed Rush 3", 180, 1, 2),
			product(4, "Net Core Super Board", 300, 1, 2),
			product(5, "React Board Super Whizzy Fast", 250, 1, 4),
			product(6, "Typescript Entry Board", 120, 1, 5),
			product(7, "Core Blue Hat", 10, 2, 2),
			product(8, "Green React Woolen Hat", 8, 2, 4),
			product(9, "Purple React Woolen Hat", 15, 2, 4),
			product(10, "Blue Code Gloves", 18, 4, 3),
			product(11, "Green Code Gloves", 15, 4, 3),
			product(12, "Purple React Gloves", 16, 4, 4),
			product(13, "Green Angular Gloves", 14, 4, 1),
			product(14, "Redis Red Boots", 250, 3, 6),
			product(15, "Core Red Boots", 189.99, 3, 2),
			product(16, "Core Purple Boots", 199.99, 3, 2),
			product(17, "Angular Purple Boots", 150, 3, 1),
			product(18, "Angular Blue Boots", 180, 3, 1),
		},
	}
}
