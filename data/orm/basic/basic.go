// Package basic 基于 data/db + data/db/sql 的轻量 IOrm 实现
//
// 不依赖第三方 ORM，按结构体标签（gorm column / db / json）映射列，
// 覆盖目录服务需要的读取、计数与批量写入。
package basic

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	dbcore "storefront/data/db"
	"storefront/data/db/dialect"
	dbsql "storefront/data/db/sql"
	"storefront/data/orm"
)

// Orm 实现 orm.IOrm
type Orm struct {
	db  dbcore.IDatabase
	sql dbsql.ISql

	mu        sync.RWMutex
	structMap map[reflect.Type]*structMeta
}

// New 创建一个基于指定 IDatabase 的 Orm 适配器
func New(db dbcore.IDatabase) *Orm {
	return &Orm{
		db:        db,
		sql:       dbsql.New(db),
		structMap: make(map[reflect.Type]*structMeta),
	}
}

// Model 返回模型级操作入口；meta 为 nil 或缺少表名属于装配错误，直接 panic
func (o *Orm) Model(meta *orm.ModelMeta) orm.IModel {
	if meta == nil {
		panic("basic.Orm: ModelMeta cannot be nil")
	}

	table := meta.Table
	if table == "" && meta.Model != nil {
		if tn, ok := tryGetTableName(meta.Model); ok {
			table = tn
		}
	}
	if !dialect.IsSafeIdentifier(table) {
		panic("basic.Orm: invalid table name " + table)
	}

	return &model{orm: o, meta: meta, table: table}
}

// Begin 开启事务会话
func (o *Orm) Begin(ctx context.Context) (orm.IOrmSession, error) {
	tx, err := o.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	inner := New(tx)
	// 共享结构体映射缓存
	inner.structMap = o.structMapSnapshot()
	return &session{Orm: inner, tx: tx}, nil
}

// Database 返回底层数据库抽象
func (o *Orm) Database() dbcore.IDatabase { return o.db }

func (o *Orm) structMapSnapshot() map[reflect.Type]*structMeta {
	o.mu.RLock()
	defer o.mu.RUnlock()
	m := make(map[reflect.Type]*structMeta, len(o.structMap))
	for k, v := range o.structMap {
		m[k] = v
	}
	return m
}

// session 实现 IOrmSession，委托给内部 Orm，并持有事务以便 Commit/Rollback
type session struct {
	*Orm
	tx dbcore.ITransaction
}

func (s *session) Commit() error   { return s.tx.Commit() }
func (s *session) Rollback() error { return s.tx.Rollback() }

// ------------------------------------------------------------------------
// model 实现 orm.IModel
// ------------------------------------------------------------------------

type model struct {
	orm   *Orm
	meta  *orm.ModelMeta
	table string
}

func (m *model) Meta() *orm.ModelMeta { return m.meta }

func (m *model) Dialect() dialect.Dialect { return m.orm.sql.Dialect() }

func (m *model) selectBuilder(qo orm.QueryOptions, columns ...string) (dbsql.ISelectBuilder, error) {
	builder := m.orm.sql.Select(columns...).From(m.orm.sql.Dialect().QuoteIdentifier(m.table))
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}
	if len(qo.OrderBy) > 0 {
		expr, err := buildOrderByExpr(m.orm.sql.Dialect(), qo.OrderBy)
		if err != nil {
			return nil, err
		}
		builder = builder.OrderBy(expr)
	}
	return builder, nil
}

func (m *model) columns(qo orm.QueryOptions) ([]string, error) {
	if len(qo.Select) == 0 {
		return []string{"*"}, nil
	}
	for _, c := range qo.Select {
		if !dialect.IsSafeIdentifier(c) {
			return nil, fmt.Errorf("%w: select %q", orm.ErrUnsafeIdentifier, c)
		}
	}
	return qo.Select, nil
}

// First 查询单条记录，无结果时返回 orm.ErrNotFound
func (m *model) First(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	qo := orm.CollectQueryOptions(opts...)
	cols, err := m.columns(qo)
	if err != nil {
		return err
	}
	builder, err := m.selectBuilder(qo, cols...)
	if err != nil {
		return err
	}
	builder = builder.Limit(1)
	if qo.Offset > 0 {
		builder = builder.Offset(qo.Offset)
	}

	rows, err := builder.Query(ctx)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return orm.ErrNotFound
	}
	return scanRowsIntoDest(rows, dest, m.orm)
}

// Find 查询多条记录，dest 为 *[]T
func (m *model) Find(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	qo := orm.CollectQueryOptions(opts...)
	cols, err := m.columns(qo)
	if err != nil {
		return err
	}
	builder, err := m.selectBuilder(qo, cols...)
	if err != nil {
		return err
	}
	if qo.Limit > 0 {
		builder = builder.Limit(qo.Limit)
	}
	if qo.Offset > 0 {
		builder = builder.Offset(qo.Offset)
	}

	rows, err := builder.Query(ctx)
	if err != nil {
		return err
	}
	defer rows.Close()

	return scanRowsIntoDest(rows, dest, m.orm)
}

// Count 统计满足条件的数量，忽略排序与分页
func (m *model) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	qo := orm.CollectQueryOptions(opts...)
	qo.OrderBy = nil

	builder, err := m.selectBuilder(qo, "COUNT(*)")
	if err != nil {
		return 0, err
	}

	var count int64
	if err := builder.QueryRow(ctx).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create 插入记录（支持批量，所有实体须为同一类型）
func (m *model) Create(ctx context.Context, entities ...any) error {
	if len(entities) == 0 {
		return nil
	}

	first := entities[0]
	sm := m.orm.structMetaForValue(first)
	if sm == nil {
		return fmt.Errorf("basic.Model.Create: unsupported entity type %T", first)
	}

	cols, insertFields := sm.insertableColumns()
	if len(cols) == 0 {
		return fmt.Errorf("basic.Model.Create: no insertable columns for %T", first)
	}

	builder := m.orm.sql.InsertInto(m.table).Columns(cols...)
	for _, e := range entities {
		val := reflect.ValueOf(e)
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}
		if !val.IsValid() || val.Type() != sm.typ {
			return fmt.Errorf("basic.Model.Create: expected %s, got %T", sm.typ, e)
		}

		rowVals := make([]any, len(insertFields))
		for i, fi := range insertFields {
			fv := fieldByIndexSafe(val, fi.Index)
			if fv.IsValid() {
				rowVals[i] = fv.Interface()
			}
		}
		builder = builder.Values(rowVals...)
	}

	_, err := builder.Exec(ctx)
	return err
}

func buildOrderByExpr(d dialect.Dialect, orders []orm.OrderBy) (string, error) {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		if !dialect.IsSafeIdentifier(o.Column) {
			return "", fmt.Errorf("%w: order by %q", orm.ErrUnsafeIdentifier, o.Column)
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, d.QuoteIdentifier(o.Column)+dir)
	}
	return strings.Join(parts, ", "), nil
}

// tryGetTableName 尝试从模型实例上调用 TableName()
func tryGetTableName(model any) (string, bool) {
	if m, ok := model.(interface{ TableName() string }); ok {
		return m.TableName(), true
	}
	t := reflect.TypeOf(model)
	if t == nil {
		return "", false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if m, ok := reflect.New(t).Interface().(interface{ TableName() string }); ok {
		return m.TableName(), true
	}
	return "", false
}
