// Package orm 定义面向模型的最小 ORM 抽象
//
// 查询条件以 QueryOption 闭包累积，直到 First/Find/Count 才真正访问数据库，
// 因此可以作为惰性查询句柄的执行端。
package orm

import (
	"context"
	stdErrors "errors"

	"storefront/data/db"
	"storefront/data/db/dialect"
)

var (
	// ErrNotFound First 未查到记录
	ErrNotFound = stdErrors.New("orm: record not found")

	// ErrUnsafeIdentifier 列名/表名未通过安全校验
	ErrUnsafeIdentifier = stdErrors.New("orm: unsafe identifier")
)

// IOrm 表示 ORM 适配器入口
type IOrm interface {
	// Model 返回指定模型的操作入口
	Model(meta *ModelMeta) IModel
	// Begin 开启事务会话
	Begin(ctx context.Context) (IOrmSession, error)
	// Database 返回适配器绑定的通用数据库
	Database() db.IDatabase
}

// IOrmSession 表示事务会话
type IOrmSession interface {
	IOrm
	Commit() error
	Rollback() error
}

// IModel 封装模型级别的基础操作
type IModel interface {
	Meta() *ModelMeta
	// Dialect 模型所在数据库的方言，查询后端据此生成方言相关的 SQL 片段
	Dialect() dialect.Dialect

	First(ctx context.Context, dest any, opts ...QueryOption) error
	Find(ctx context.Context, dest any, opts ...QueryOption) error
	Count(ctx context.Context, opts ...QueryOption) (int64, error)

	Create(ctx context.Context, entities ...any) error
}
