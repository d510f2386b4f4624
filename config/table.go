package config

import (
	"fmt"
	"strings"

	"tablesearch/datatable"
	"tablesearch/errors"
)

// Build 构建表格定义
func (tc TableConfig) Build() (*datatable.Table, error) {
	cols := make([]*datatable.Column, 0, len(tc.Columns))
	for _, cc := range tc.Columns {
		col, err := cc.Build()
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeConfig,
				fmt.Sprintf("表格 %s 的列 %s 配置无效", tc.Name, cc.Name))
		}
		cols = append(cols, col)
	}
	t, err := datatable.NewTable(tc.Name, tc.From, cols...)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConfig,
			fmt.Sprintf("表格 %s 配置无效", tc.Name))
	}
	return t, nil
}

// Build 构建列定义
func (cc ColumnConfig) Build() (*datatable.Column, error) {
	var opts []datatable.ColumnOption
	if cc.Operator != "" {
		op, err := datatable.ParseOperator(cc.Operator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datatable.WithOperator(op))
	}
	switch {
	case len(cc.Choices) > 0:
		opts = append(opts, datatable.WithFilter(datatable.ChoiceFilter{Choices: cc.Choices}))
	case cc.Min != nil || cc.Max != nil:
		opts = append(opts, datatable.WithFilter(datatable.NumberFilter{Min: cc.Min, Max: cc.Max}))
	}
	if cc.LeftExpr != "" {
		opts = append(opts, datatable.WithLeftExpr(cc.LeftExpr))
	}
	if cc.Global != nil && !*cc.Global {
		opts = append(opts, datatable.WithoutGlobalSearch())
	}
	if cc.Orderable != nil {
		opts = append(opts, datatable.WithOrderable(*cc.Orderable))
	}

	switch strings.ToLower(strings.TrimSpace(cc.Kind)) {
	case "", "generic":
		return datatable.NewColumn(cc.Name, cc.Field, opts...), nil
	case "text":
		return datatable.NewTextColumn(cc.Name, cc.Field, opts...), nil
	case "number":
		return datatable.NewNumberColumn(cc.Name, cc.Field, opts...), nil
	case "bool":
		return datatable.NewBoolColumn(cc.Name, cc.Field, opts...), nil
	case "date":
		return datatable.NewDateColumn(cc.Name, cc.Field, cc.Layout, opts...), nil
	default:
		return nil, errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("未知的列类型: %q", cc.Kind))
	}
}
