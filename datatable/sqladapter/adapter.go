// Package sqladapter 在 IDatabase 上执行表格状态：总数、过滤后总数、排序、分页与取数。
package sqladapter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tablesearch/datatable"
	"tablesearch/errors"
	"tablesearch/logging"
	core "tablesearch/storage/database"
	"tablesearch/storage/database/dialect"
	sqlbuilder "tablesearch/storage/database/sql"
)

// ResultSet DataTables 服务端响应
type ResultSet struct {
	Draw            int              `json:"draw"`
	RecordsTotal    int64            `json:"recordsTotal"`
	RecordsFiltered int64            `json:"recordsFiltered"`
	Data            []map[string]any `json:"data"`

	// RequestID 本次取数的日志关联 ID，不输出到响应
	RequestID string `json:"-"`
}

// Adapter 表格查询适配器，可并发使用
type Adapter struct {
	sql      sqlbuilder.ISql
	compiler *datatable.Compiler
	logger   logging.Logger
}

// Option 适配器选项
type Option func(*Adapter)

// WithLogger 设置日志器
func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCompiler 使用自定义编译器（默认按数据库方言创建）
func WithCompiler(c *datatable.Compiler) Option {
	return func(a *Adapter) { a.compiler = c }
}

// New 创建适配器
func New(db core.IDatabase, opts ...Option) *Adapter {
	a := &Adapter{
		sql:    sqlbuilder.New(db),
		logger: logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.compiler == nil {
		a.compiler = datatable.NewCompiler(
			datatable.WithDialect(a.sql.Dialect()),
			datatable.WithLogger(a.logger),
		)
	}
	return a
}

// Fetch 执行一次表格查询
//
// 被拒绝的列搜索只记录警告，不影响本次查询；数据库错误包装为 DATABASE_ERROR。
func (a *Adapter) Fetch(ctx context.Context, state *datatable.State) (*ResultSet, error) {
	if state == nil || state.Table() == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "表格状态不能为空")
	}
	table := state.Table()
	result := &ResultSet{
		Draw:      state.Draw,
		Data:      []map[string]any{},
		RequestID: uuid.NewString(),
	}
	logger := a.logger.WithFields(
		logging.String("request_id", result.RequestID),
		logging.String("table", table.Name()),
	)
	started := time.Now()

	total, err := count(ctx, a.sql.Select("COUNT(1)").From(table.From()))
	if err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "count "+table.Name())
	}
	result.RecordsTotal = total

	crit := a.compiler.Compile(ctx, state)
	if err := crit.Err(); err != nil {
		logger.Warn(ctx, "search entries rejected",
			logging.Error(err),
			logging.Int("rejected", len(crit.Rejected)))
	}

	if crit.Empty() {
		result.RecordsFiltered = total
	} else {
		filtered, err := count(ctx, merge(a.sql.Select("COUNT(1)").From(table.From()), crit))
		if err != nil {
			return nil, errors.WrapDatabaseError(ctx, err, "count filtered "+table.Name())
		}
		result.RecordsFiltered = filtered
	}

	page := merge(a.sql.Select(selectList(a.sql.Dialect(), table)...).From(table.From()), crit)
	page = page.OrderBy(orderBy(state))
	if state.Length > 0 {
		page = page.Limit(state.Length)
	}
	if state.Start > 0 {
		page = page.Offset(state.Start)
	}

	rows, err := page.Query(ctx)
	if err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "query "+table.Name())
	}
	defer rows.Close()

	data, err := scanMaps(rows)
	if err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "scan "+table.Name())
	}
	result.Data = data

	logger.Debug(ctx, "table fetched",
		logging.Int64("records_total", result.RecordsTotal),
		logging.Int64("records_filtered", result.RecordsFiltered),
		logging.Int("rows", len(result.Data)),
		logging.Duration("elapsed", time.Since(started)))
	return result, nil
}

func merge(b sqlbuilder.ISelectBuilder, crit datatable.Criteria) sqlbuilder.ISelectBuilder {
	for _, p := range crit.Predicates {
		b = b.Where(p.Expr, p.Args...)
	}
	return b
}

func count(ctx context.Context, b sqlbuilder.ISelectBuilder) (int64, error) {
	var n int64
	if err := b.QueryRow(ctx).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// selectList 列名按方言加引号作为别名；未映射字段的列输出 NULL，保持结果集列与表格列一致
func selectList(d dialect.Dialect, table *datatable.Table) []string {
	cols := table.Columns()
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		expr := c.Field()
		if expr == "" {
			expr = "NULL"
		}
		out = append(out, expr+" AS "+d.QuoteIdentifier(c.Name()))
	}
	return out
}

func orderBy(state *datatable.State) string {
	var parts []string
	for _, o := range state.OrderEntries() {
		if o.Column.Field() == "" {
			continue
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, o.Column.Field()+dir)
	}
	return strings.Join(parts, ", ")
}

func scanMaps(rows core.IRows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
