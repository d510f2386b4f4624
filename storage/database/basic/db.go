package basic

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	core "tablesearch/storage/database"
	"tablesearch/storage/database/dialect"
)

// DB 基于 database/sql 的最小实现，满足 core.IDatabase 抽象
type DB struct {
	db      *sql.DB
	driver  string
	dialect dialect.Dialect
}

// New 根据 core.DBConfig 创建基础数据库实例
//
// 调用方必须确保所配置的 Driver 已注册：sqlite 由本包导入 modernc.org/sqlite 完成，
// pgx 等其他驱动需在 main 中空导入。
// sqlite 场景会注册 REGEXP 所需的 regexp() 函数；":memory:" 库强制单连接，
// 否则连接池中的每个连接各自拥有一份独立的内存库。
func New(config core.DBConfig) (*DB, error) {
	var (
		driver = config.Driver
		dsn    = config.Database
	)
	if driver == "" {
		driver = "sqlite"
	}
	dial := dialect.New(driver)

	if dial.Name() == dialect.NameSQLite {
		// modernc.org/sqlite 以 "sqlite" 注册
		driver = "sqlite"
		if err := registerSQLiteRegexp(); err != nil {
			return nil, fmt.Errorf("register sqlite regexp: %w", err)
		}
		if dsn == ":memory:" || dsn == "" {
			dsn = ":memory:"
			config.MaxOpenConns = 1
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
	}
	if config.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(config.ConnMaxIdleTime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, driver: driver, dialect: dial}, nil
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (core.IRows, error) {
	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) core.IRow {
	return &Row{row: d.db.QueryRowContext(ctx, d.dialect.Rebind(query), args...)}
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, d.dialect.Rebind(query), args...)
}

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *DB) Close() error                   { return d.db.Close() }

// GetDialectName 实现 core.IDialectNameProvider 接口，返回底层 driver 名
func (d *DB) GetDialectName() string {
	return d.driver
}
