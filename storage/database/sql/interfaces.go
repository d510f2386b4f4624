package sql

import (
	"context"

	core "tablesearch/storage/database"
	"tablesearch/storage/database/dialect"
)

// ISql 提供 SELECT 构建与执行入口。
type ISql interface {
	Select(columns ...string) ISelectBuilder
	Dialect() dialect.Dialect
}

// ISelectBuilder 构建 SELECT 语句。
//
// Where 追加的条件之间以 AND 连接；需要 OR 的条件由调用方自行加括号后整体传入。
// 条件中的值一律使用 ? 占位并通过 args 绑定，执行时按方言 Rebind。
type ISelectBuilder interface {
	From(table string) ISelectBuilder
	Where(cond string, args ...any) ISelectBuilder
	OrderBy(expr string) ISelectBuilder
	Limit(n int) ISelectBuilder
	Offset(n int) ISelectBuilder
	Build() (query string, args []any)
	Query(ctx context.Context) (core.IRows, error)
	QueryRow(ctx context.Context) core.IRow
}

type sqlImpl struct {
	db      core.IDatabase
	dialect dialect.Dialect
}

// New 创建 ISql 实例。
func New(db core.IDatabase) ISql {
	return &sqlImpl{
		db:      db,
		dialect: dialect.FromDatabase(db),
	}
}

func (s *sqlImpl) Select(columns ...string) ISelectBuilder {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	return &selectBuilder{
		db:      s.db,
		dialect: s.dialect,
		cols:    columns,
	}
}

func (s *sqlImpl) Dialect() dialect.Dialect {
	return s.dialect
}

