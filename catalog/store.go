package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/doug-martin/goqu/v9"

	dbbasic "storefront/data/db/basic"
	"storefront/data/orm"
	ormbasic "storefront/data/orm/basic"
	"storefront/errors"
	"storefront/logging"
	"storefront/query"
	"storefront/query/goqusource"
	"storefront/query/memory"
	"storefront/query/ormquery"
)

// 查询后端
const (
	BackendMemory = "memory"
	BackendOrm    = "orm"
	BackendGoqu   = "goqu"
)

// Schema 目录表结构
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS product_brands (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_types (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id               INTEGER PRIMARY KEY,
		name             TEXT    NOT NULL,
		description      TEXT    NOT NULL DEFAULT '',
		price            REAL    NOT NULL,
		picture_url      TEXT    NOT NULL DEFAULT '',
		product_type_id  INTEGER NOT NULL REFERENCES product_types(id),
		product_brand_id INTEGER NOT NULL REFERENCES product_brands(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_brand ON products(product_brand_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_type ON products(product_type_id)`,
}

var (
	brandMeta = &orm.ModelMeta{Model: ProductBrand{}, Fields: []orm.FieldMeta{
		{Name: "ID", Column: "id", PrimaryKey: true},
		{Name: "Name", Column: "name"},
	}}
	typeMeta = &orm.ModelMeta{Model: ProductType{}, Fields: []orm.FieldMeta{
		{Name: "ID", Column: "id", PrimaryKey: true},
		{Name: "Name", Column: "name"},
	}}
	productMeta = &orm.ModelMeta{Model: Product{}, Fields: []orm.FieldMeta{
		{Name: "ID", Column: "id", PrimaryKey: true},
		{Name: "Name", Column: "name"},
		{Name: "Description", Column: "description"},
		{Name: "Price", Column: "price"},
		{Name: "PictureURL", Column: "picture_url"},
		{Name: "ProductTypeID", Column: "product_type_id"},
		{Name: "ProductBrandID", Column: "product_brand_id"},
	}}
)

// columns 元信息中的列名，作为 goqu 后端的列白名单
func columns(meta *orm.ModelMeta) []string {
	cols := make([]string, len(meta.Fields))
	for i, f := range meta.Fields {
		cols[i] = f.Column
	}
	return cols
}

// SeedData 一批目录数据
type SeedData struct {
	Brands   []ProductBrand `json:"brands" yaml:"brands"`
	Types    []ProductType  `json:"types" yaml:"types"`
	Products []Product      `json:"products" yaml:"products"`
}

// Validate 校验全部实体以及商品对品牌、类型的引用
func (d SeedData) Validate() error {
	brands := make(map[int64]bool, len(d.Brands))
	types := make(map[int64]bool, len(d.Types))
	for _, b := range d.Brands {
		if err := b.Validate(); err != nil {
			return err
		}
		brands[b.ID] = true
	}
	for _, t := range d.Types {
		if err := t.Validate(); err != nil {
			return err
		}
		types[t.ID] = true
	}
	for _, p := range d.Products {
		if err := p.Validate(); err != nil {
			return err
		}
		if !brands[p.ProductBrandID] {
			return errors.NewError(errors.ErrCodeValidation,
				fmt.Sprintf("商品 %d 引用了不存在的品牌 %d", p.ID, p.ProductBrandID))
		}
		if !types[p.ProductTypeID] {
			return errors.NewError(errors.ErrCodeValidation,
				fmt.Sprintf("商品 %d 引用了不存在的类型 %d", p.ID, p.ProductTypeID))
		}
	}
	return nil
}

// Store 目录数据源
//
// memory 后端把数据保存在进程内切片中；orm 与 goqu 后端共享同一组表，
// 分别通过 data/orm 与 goqu 构造查询。
type Store struct {
	backend string
	db      *dbbasic.DB
	orm     orm.IOrm
	goqu    *goqu.Database
	logger  logging.Logger

	mu       sync.RWMutex
	brands   []ProductBrand
	types    []ProductType
	products []Product
}

// NewStore 创建指定后端的数据源；orm 与 goqu 后端要求 database 非 nil
func NewStore(backend string, database *dbbasic.DB) (*Store, error) {
	s := &Store{
		backend: backend,
		db:      database,
		logger:  logging.GetLogger().WithFields(logging.String("component", "catalog.store")),
	}
	switch backend {
	case BackendMemory:
	case BackendOrm, BackendGoqu:
		if database == nil {
			return nil, errors.NewError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("catalog: backend %s requires a database", backend))
		}
		s.orm = ormbasic.New(database)
		s.goqu = goqu.New(goquDialect(database.GetDialectName()), database.SQLDB())
	default:
		return nil, errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("catalog: unknown backend %q", backend))
	}
	return s, nil
}

// goquDialect 把 database/sql 驱动名映射为 goqu 方言名
func goquDialect(driver string) string {
	if strings.Contains(driver, "sqlite") {
		return "sqlite3"
	}
	return driver
}

// Backend 当前后端
func (s *Store) Backend() string { return s.backend }

// Migrate 建表；memory 后端为空操作
func (s *Store) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.ExecDDL(ctx, Schema...); err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "catalog: migrate failed")
	}
	return nil
}

// Seed 校验并写入一批数据；SQL 后端在一个事务内完成
func (s *Store) Seed(ctx context.Context, data SeedData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	if s.backend == BackendMemory {
		s.mu.Lock()
		s.brands = append(s.brands, data.Brands...)
		s.types = append(s.types, data.Types...)
		s.products = append(s.products, data.Products...)
		s.mu.Unlock()
	} else if err := s.seedSQL(ctx, data); err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "catalog: seed failed")
	}

	s.logger.Info(ctx, "catalog seeded",
		logging.String("backend", s.backend),
		logging.Int("brands", len(data.Brands)),
		logging.Int("types", len(data.Types)),
		logging.Int("products", len(data.Products)),
	)
	return nil
}

func (s *Store) seedSQL(ctx context.Context, data SeedData) (err error) {
	sess, err := s.orm.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = sess.Rollback()
			return
		}
		err = sess.Commit()
	}()

	if err = createAll(ctx, sess.Model(brandMeta), data.Brands); err != nil {
		return err
	}
	if err = createAll(ctx, sess.Model(typeMeta), data.Types); err != nil {
		return err
	}
	return createAll(ctx, sess.Model(productMeta), data.Products)
}

func createAll[E any](ctx context.Context, model orm.IModel, items []E) error {
	if len(items) == 0 {
		return nil
	}
	entities := make([]any, len(items))
	for i, item := range items {
		entities[i] = item
	}
	return model.Create(ctx, entities...)
}

// Products 商品查询句柄
func (s *Store) Products() query.Queryable[Product] {
	switch s.backend {
	case BackendOrm:
		return ormquery.New[Product](s.orm.Model(productMeta))
	case BackendGoqu:
		return goqusource.New[Product](s.goqu, Product{}.TableName(), columns(productMeta)...)
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return memory.From(s.products)
	}
}

// Brands 品牌查询句柄
func (s *Store) Brands() query.Queryable[ProductBrand] {
	switch s.backend {
	case BackendOrm:
		return ormquery.New[ProductBrand](s.orm.Model(brandMeta))
	case BackendGoqu:
		return goqusource.New[ProductBrand](s.goqu, ProductBrand{}.TableName(), columns(brandMeta)...)
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return memory.From(s.brands)
	}
}

// Types 类型查询句柄
func (s *Store) Types() query.Queryable[ProductType] {
	switch s.backend {
	case BackendOrm:
		return ormquery.New[ProductType](s.orm.Model(typeMeta))
	case BackendGoqu:
		return goqusource.New[ProductType](s.goqu, ProductType{}.TableName(), columns(typeMeta)...)
	default:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return memory.From(s.types)
	}
}

// Ping 检查底层数据库
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Ping(ctx)
}
