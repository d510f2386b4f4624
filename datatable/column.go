package datatable

import (
	"strings"

	"tablesearch/validation"
)

// GlobalSearch 列的全局搜索能力
//
// 零值字段使用列的默认行为：Left 为列字段，Operator 为列运算符，
// Right 绑定原始搜索词，Valid 视为始终有效。
type GlobalSearch struct {
	Left     string
	Operator Operator
	Right    func(term string) any
	Valid    func(term string) bool
}

// Column 表格列定义，构造后只读
type Column struct {
	name      string
	field     string
	operator  Operator
	filter    IValueValidator
	global    *GlobalSearch
	leftExpr  string
	orderable bool
}

// ColumnOption 列构造选项
type ColumnOption func(*Column)

// WithOperator 设置列过滤使用的比较运算符
func WithOperator(op Operator) ColumnOption {
	return func(c *Column) { c.operator = op }
}

// WithFilter 设置列过滤值校验器，nil 表示不校验
func WithFilter(f IValueValidator) ColumnOption {
	return func(c *Column) { c.filter = f }
}

// WithGlobalSearch 替换列的全局搜索能力
func WithGlobalSearch(g GlobalSearch) ColumnOption {
	return func(c *Column) { c.global = &g }
}

// WithoutGlobalSearch 列不参与全局搜索
func WithoutGlobalSearch() ColumnOption {
	return func(c *Column) { c.global = nil }
}

// WithLeftExpr 设置全局搜索的左侧表达式，优先于 GlobalSearch.Left，与选项顺序无关
func WithLeftExpr(expr string) ColumnOption {
	return func(c *Column) { c.leftExpr = expr }
}

// WithOrderable 设置列是否允许排序
func WithOrderable(orderable bool) ColumnOption {
	return func(c *Column) { c.orderable = orderable }
}

// NewColumn 创建通用列：运算符 =，以原始搜索词参与全局搜索
func NewColumn(name, field string, opts ...ColumnOption) *Column {
	c := &Column{
		name:      name,
		field:     field,
		operator:  OpEqual,
		global:    &GlobalSearch{},
		orderable: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTextColumn 文本列：列过滤使用 LIKE，全局搜索按 LOWER(field) LIKE %term% 做包含匹配
func NewTextColumn(name, field string, opts ...ColumnOption) *Column {
	base := []ColumnOption{
		WithOperator(OpLike),
		WithGlobalSearch(GlobalSearch{
			Left:     "LOWER(" + field + ")",
			Operator: OpLike,
			Right: func(term string) any {
				return "%" + strings.ToLower(term) + "%"
			},
		}),
	}
	return NewColumn(name, field, append(base, opts...)...)
}

// NewNumberColumn 数值列：只有数值搜索词参与全局搜索，绑定解析后的数值
func NewNumberColumn(name, field string, opts ...ColumnOption) *Column {
	base := []ColumnOption{
		WithGlobalSearch(GlobalSearch{
			Valid: func(term string) bool {
				return validation.ValidateNumber(term, name) == nil
			},
			Right: func(term string) any {
				v, _ := validation.ParseNumber(term)
				return v
			},
		}),
	}
	return NewColumn(name, field, append(base, opts...)...)
}

// NewBoolColumn 布尔列：true/false/1/0/yes/no 参与全局搜索，绑定 bool
func NewBoolColumn(name, field string, opts ...ColumnOption) *Column {
	base := []ColumnOption{
		WithGlobalSearch(GlobalSearch{
			Valid: func(term string) bool {
				_, ok := parseBool(term)
				return ok
			},
			Right: func(term string) any {
				b, _ := parseBool(term)
				return b
			},
		}),
	}
	return NewColumn(name, field, append(base, opts...)...)
}

// NewDateColumn 日期列：只有能按 layout 解析的搜索词参与全局搜索，layout 为空使用 validation.DefaultDateLayout
func NewDateColumn(name, field, layout string, opts ...ColumnOption) *Column {
	base := []ColumnOption{
		WithGlobalSearch(GlobalSearch{
			Valid: func(term string) bool {
				return validation.ValidateDate(term, name, layout) == nil
			},
			Right: func(term string) any {
				return strings.TrimSpace(term)
			},
		}),
	}
	return NewColumn(name, field, append(base, opts...)...)
}

func parseBool(term string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(term)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

func (c *Column) Name() string       { return c.name }
func (c *Column) Field() string      { return c.field }
func (c *Column) Operator() Operator { return c.operator }
func (c *Column) Orderable() bool    { return c.orderable }

// Filter 返回列过滤值校验器，ok 为 false 表示未配置
func (c *Column) Filter() (IValueValidator, bool) {
	return c.filter, c.filter != nil
}

// IsGlobalSearchable 列是否具备全局搜索能力
func (c *Column) IsGlobalSearchable() bool {
	return c.global != nil
}

// LeftExpr 全局搜索比较的左侧表达式
func (c *Column) LeftExpr() string {
	if c.leftExpr != "" {
		return c.leftExpr
	}
	if c.global != nil && c.global.Left != "" {
		return c.global.Left
	}
	return c.field
}

// GlobalOperator 全局搜索使用的运算符
func (c *Column) GlobalOperator() Operator {
	if c.global != nil && c.global.Operator != "" {
		return c.global.Operator
	}
	return c.operator
}

// RightExpr 全局搜索绑定的参数值
func (c *Column) RightExpr(term string) any {
	if c.global != nil && c.global.Right != nil {
		return c.global.Right(term)
	}
	return term
}

// IsValidForSearch 列是否接受该全局搜索词；不具备全局搜索能力时返回 false
func (c *Column) IsValidForSearch(term string) bool {
	if c.global == nil {
		return false
	}
	if c.global.Valid == nil {
		return true
	}
	return c.global.Valid(term)
}
