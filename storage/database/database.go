// Package database 提供通用的只读查询数据库抽象
//
// 搜索条件编译只负责生成 WHERE 片段，执行交给实现 IDatabase 的适配器；
// 上层（sqladapter）只依赖本包接口，便于在测试中替换为内存 SQLite。
package database

import (
	"context"
	"database/sql"
)

// IDatabase 通用数据库接口
type IDatabase interface {
	Query(ctx context.Context, query string, args ...any) (IRows, error)
	QueryRow(ctx context.Context, query string, args ...any) IRow
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	Ping(ctx context.Context) error
	Close() error
}

// IDialectNameProvider 可选接口：提供底层数据库方言名称
//
// 实现方应返回诸如 "mysql"、"sqlite"、"postgres"、"pgx" 等 driver 名，
// 供 dialect 包推断正则运算符、占位符形式等。
type IDialectNameProvider interface {
	GetDialectName() string
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
	Err() error
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver   string `json:"driver" yaml:"driver" mapstructure:"driver"`
	Database string `json:"database" yaml:"database" mapstructure:"database"` // DSN 或文件路径

	// 连接池配置
	MaxOpenConns    int `json:"max_open_conns" yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int `json:"max_idle_conns" yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime int `json:"conn_max_lifetime" yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"` // 秒
	ConnMaxIdleTime int `json:"conn_max_idle_time" yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"` // 秒
}
