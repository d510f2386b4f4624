package datatable

import (
	"context"
	"fmt"
	"strings"

	"tablesearch/errors"
	"tablesearch/logging"
	"tablesearch/storage/database/dialect"
	sqlbuilder "tablesearch/storage/database/sql"
)

const (
	markerBetweenDate = "search_between_date_"
	markerDate        = "search_date_"
	rangeSeparator    = "|"
)

// Predicate 单个查询条件，值以 ? 占位
type Predicate struct {
	Expr string
	Args []any
}

// Rejection 无法编译的列搜索
type Rejection struct {
	Column string `json:"column"`
	Search string `json:"search"`
	Reason string `json:"reason"`
}

// Criteria 编译结果
//
// Predicates 之间为 AND 关系；全局搜索条件（若有）总在最后。
type Criteria struct {
	Predicates []Predicate
	Rejected   []Rejection
}

// Empty 没有任何条件
func (c Criteria) Empty() bool {
	return len(c.Predicates) == 0
}

// Where 以 AND 连接所有条件，供不使用 builder 的调用方
func (c Criteria) Where() (string, []any) {
	exprs := make([]string, 0, len(c.Predicates))
	args := make([]any, 0, len(c.Predicates))
	for _, p := range c.Predicates {
		exprs = append(exprs, p.Expr)
		args = append(args, p.Args...)
	}
	return strings.Join(exprs, " AND "), args
}

// Err 存在被拒绝的搜索时返回 VALIDATION_ERROR，details 中 rejected 为拒绝列表
func (c Criteria) Err() error {
	if len(c.Rejected) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(c.Rejected))
	for _, r := range c.Rejected {
		reasons = append(reasons, r.Column+": "+r.Reason)
	}
	rejected := make([]Rejection, len(c.Rejected))
	copy(rejected, c.Rejected)
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("搜索条件无效: %s", strings.Join(reasons, "; "))).
		WithContext("rejected", rejected)
}

// Compiler 将表格状态编译为查询条件
//
// Compiler 无可变状态，可并发使用。
type Compiler struct {
	dialect dialect.Dialect
	logger  logging.Logger
}

// Option 编译器选项
type Option func(*Compiler)

// WithDialect 设置方言，决定正则运算符
func WithDialect(d dialect.Dialect) Option {
	return func(c *Compiler) { c.dialect = d }
}

// WithLogger 设置日志器
func WithLogger(l logging.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCompiler 创建编译器
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		dialect: dialect.New(""),
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile 编译列搜索与全局搜索
func (c *Compiler) Compile(ctx context.Context, state *State) Criteria {
	var out Criteria
	if state == nil {
		return out
	}
	for _, entry := range state.SearchEntries() {
		c.compileEntry(ctx, entry, &out)
	}
	if p, ok := c.compileGlobal(state); ok {
		out.Predicates = append(out.Predicates, p)
	}
	return out
}

// Apply 编译并按顺序将条件合并到 builder
//
// 即使部分搜索被拒绝，其余条件仍会被应用；返回的错误描述被拒绝的搜索。
func (c *Compiler) Apply(ctx context.Context, b sqlbuilder.ISelectBuilder, state *State) error {
	crit := c.Compile(ctx, state)
	for _, p := range crit.Predicates {
		b.Where(p.Expr, p.Args...)
	}
	return crit.Err()
}

func (c *Compiler) compileEntry(ctx context.Context, entry SearchEntry, out *Criteria) {
	col := entry.Column
	search := entry.Search
	if col == nil || strings.TrimSpace(search) == "" {
		return
	}

	reject := func(reason string) {
		c.logger.Debug(ctx, "reject column search",
			logging.String("column", col.Name()),
			logging.String("search", search),
			logging.String("reason", reason))
		out.Rejected = append(out.Rejected, Rejection{Column: col.Name(), Search: search, Reason: reason})
	}

	if f, ok := col.Filter(); ok && !f.IsValidValue(search) {
		c.logger.Debug(ctx, "skip column search: value rejected by filter",
			logging.String("column", col.Name()),
			logging.String("search", search))
		return
	}

	field := col.Field()
	if field == "" {
		reject("column is not mapped to a field")
		return
	}

	kind := entry.Kind
	if kind == KindAuto {
		kind = classify(search, entry.Regex)
	}

	switch kind {
	case KindRegex:
		out.Predicates = append(out.Predicates, Predicate{
			Expr: field + " " + c.dialect.RegexpOperator() + " ?",
			Args: []any{search},
		})

	case KindRange:
		raw := search
		if entry.Kind == KindAuto {
			raw = strings.ReplaceAll(raw, markerBetweenDate, "")
		}
		from, to, err := splitRange(raw)
		if err != nil {
			reject(err.Error())
			return
		}
		out.Predicates = append(out.Predicates, Predicate{
			Expr: "(" + field + " >= ? AND " + field + " <= ?)",
			Args: []any{from, to},
		})

	case KindEquals:
		value := search
		if entry.Kind == KindAuto {
			value = strings.ReplaceAll(value, markerDate, "")
		}
		value = strings.TrimSpace(value)
		if value == "" {
			reject("empty value")
			return
		}
		out.Predicates = append(out.Predicates, Predicate{
			Expr: field + " = ?",
			Args: []any{value},
		})

	default:
		out.Predicates = append(out.Predicates, Predicate{
			Expr: field + " " + string(col.Operator()) + " ?",
			Args: []any{search},
		})
	}
}

func (c *Compiler) compileGlobal(state *State) (Predicate, bool) {
	term := state.Global
	if term == "" || state.Table() == nil {
		return Predicate{}, false
	}

	var exprs []string
	var args []any
	for _, col := range state.Table().Columns() {
		if !col.IsGlobalSearchable() || col.Field() == "" || !col.IsValidForSearch(term) {
			continue
		}
		exprs = append(exprs, col.LeftExpr()+" "+string(col.GlobalOperator())+" ?")
		args = append(args, col.RightExpr(term))
	}
	if len(exprs) == 0 {
		return Predicate{}, false
	}
	return Predicate{
		Expr: "(" + strings.Join(exprs, " OR ") + ")",
		Args: args,
	}, true
}

// classify 标记优先级：regex 标志 > 区间 > 等值
func classify(search string, regex bool) FilterKind {
	switch {
	case regex:
		return KindRegex
	case strings.Contains(search, markerBetweenDate):
		return KindRange
	case strings.Contains(search, markerDate):
		return KindEquals
	default:
		return KindGeneric
	}
}

func splitRange(raw string) (string, string, error) {
	parts := strings.Split(raw, rangeSeparator)
	if len(parts) != 2 {
		return "", "", errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("范围格式应为 起点%s终点，实际 %d 段", rangeSeparator, len(parts)))
	}
	from, to := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if from == "" || to == "" {
		return "", "", errors.NewError(errors.ErrCodeValidation, "范围的起点和终点不能为空")
	}
	return from, to, nil
}
