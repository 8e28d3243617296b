// Package db 提供通用的数据库抽象接口
//
// 上层（ORM 适配器、查询后端、种子数据）只依赖这里的接口，
// 具体实现见 data/db/basic，测试中可用 sqlmock 或内存 sqlite 替换。
package db

import (
	"context"
	"database/sql"
	"time"
)

// IDatabase 通用数据库接口
type IDatabase interface {
	Query(ctx context.Context, query string, args ...any) (IRows, error)
	QueryRow(ctx context.Context, query string, args ...any) IRow
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	Begin(ctx context.Context) (ITransaction, error)

	Ping(ctx context.Context) error
	Close() error

	// Raw 返回底层连接（*sql.DB 或 *sql.Tx）
	Raw() any
}

// IDialectNameProvider 可选接口：提供底层数据库方言名称
//
// 实现方返回 "sqlite"、"postgres"、"mysql" 等 driver 名，
// 供 SQL 构建器推断引号与占位符风格。
type IDialectNameProvider interface {
	GetDialectName() string
}

// ITransaction 事务接口
type ITransaction interface {
	IDatabase

	Commit() error
	Rollback() error
}

// IRows 查询结果集接口
type IRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
	Columns() ([]string, error)
}

// IRow 单行结果接口
type IRow interface {
	Scan(dest ...any) error
}

// DBConfig 数据库配置
type DBConfig struct {
	// Driver database/sql 驱动名，默认 sqlite（modernc.org/sqlite）
	Driver string `yaml:"driver"`
	// DSN 数据源，sqlite 可用 "file::memory:?cache=shared"
	DSN string `yaml:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// PingTimeout 打开连接后的可用性检查超时，0 表示 3s
	PingTimeout time.Duration `yaml:"ping_timeout"`
}

// InTx 在事务中执行 fn，fn 返回错误或 panic 时回滚
func InTx(ctx context.Context, database IDatabase, fn func(tx ITransaction) error) (err error) {
	tx, err := database.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
