package datatable

import (
	"fmt"
	"strings"

	"tablesearch/errors"
	sqlbuilder "tablesearch/storage/database/sql"
)

// Table 表格定义：有序列集合与数据来源（表或视图）
type Table struct {
	name    string
	from    string
	columns []*Column
	index   map[string]int
}

// NewTable 创建表格定义
//
// 列名作为结果集别名使用，必须是安全标识符且唯一；from 同样必须是安全标识符。
// 列运算符（含全局搜索运算符）必须在允许列表内。
func NewTable(name, from string, columns ...*Column) (*Table, error) {
	if name == "" {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "表格名称不能为空")
	}
	if !sqlbuilder.IsSafeIdentifier(from) {
		return nil, errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("表格 %s 的数据来源不是合法标识符: %q", name, from))
	}
	if len(columns) == 0 {
		return nil, errors.NewError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("表格 %s 至少需要一列", name))
	}

	t := &Table{
		name:    name,
		from:    from,
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col == nil {
			return nil, errors.NewError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("表格 %s 第 %d 列为空", name, i))
		}
		if !sqlbuilder.IsSafeIdentifier(col.name) || strings.Contains(col.name, ".") {
			return nil, errors.NewError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("表格 %s 的列名不合法: %q", name, col.name))
		}
		if _, dup := t.index[col.name]; dup {
			return nil, errors.NewError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("表格 %s 的列名重复: %s", name, col.name))
		}
		if !col.operator.Valid() {
			return nil, errors.NewError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("列 %s 的运算符不受支持: %q", col.name, col.operator))
		}
		if col.IsGlobalSearchable() && !col.GlobalOperator().Valid() {
			return nil, errors.NewError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("列 %s 的全局搜索运算符不受支持: %q", col.name, col.GlobalOperator()))
		}
		t.index[col.name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

func (t *Table) Name() string { return t.name }
func (t *Table) From() string { return t.from }

// Columns 返回列定义的副本（按定义顺序）
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column 按列名查找
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// ColumnAt 按位置查找（DataTables 请求使用列序号）
func (t *Table) ColumnAt(i int) (*Column, bool) {
	if i < 0 || i >= len(t.columns) {
		return nil, false
	}
	return t.columns[i], true
}
