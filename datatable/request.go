package datatable

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tablesearch/errors"
	"tablesearch/validation"
)

// DefaultMaxLength 单页最大行数
const DefaultMaxLength = 1000

// DefaultLength 请求未携带 length 时的单页行数
const DefaultLength = 10

type requestOptions struct {
	maxLength int
}

// RequestOption 请求解析选项
type RequestOption func(*requestOptions)

// WithMaxLength 限制 length 上限，<= 0 表示不限制
func WithMaxLength(n int) RequestOption {
	return func(o *requestOptions) { o.maxLength = n }
}

// ParseRequest 按 DataTables 服务端处理协议解析请求参数
//
// columns[i] 对应表格的第 i 列；columns[i][searchable]=false 的列搜索被忽略，
// 超出表格列数的 columns[i] 被忽略。不允许排序的列上的 order 被忽略。
func ParseRequest(table *Table, values url.Values, opts ...RequestOption) (*State, error) {
	if table == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "表格定义不能为空")
	}
	o := requestOptions{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(&o)
	}

	state := NewState(table)
	var err error
	if state.Draw, err = intParam(values, "draw", 0); err != nil {
		return nil, err
	}
	if state.Start, err = intParam(values, "start", 0); err != nil {
		return nil, err
	}
	if state.Length, err = intParam(values, "length", DefaultLength); err != nil {
		return nil, err
	}
	if err := validation.ValidatePaging(state.Start, state.Length, o.maxLength); err != nil {
		return nil, err
	}

	state.Global = values.Get("search[value]")

	for i, col := range table.Columns() {
		prefix := "columns[" + strconv.Itoa(i) + "]"
		if values.Get(prefix+"[searchable]") == "false" {
			continue
		}
		search := values.Get(prefix + "[search][value]")
		if search == "" {
			continue
		}
		regex := values.Get(prefix+"[search][regex]") == "true"
		if err := state.AddSearch(col.Name(), search, regex); err != nil {
			return nil, err
		}
	}

	for i := 0; ; i++ {
		prefix := "order[" + strconv.Itoa(i) + "]"
		raw, ok := values[prefix+"[column]"]
		if !ok || len(raw) == 0 {
			break
		}
		idx, err := strconv.Atoi(strings.TrimSpace(raw[0]))
		if err != nil {
			return nil, paramError(prefix+"[column]", raw[0], "必须为整数")
		}
		col, ok := table.ColumnAt(idx)
		if !ok {
			return nil, paramError(prefix+"[column]", raw[0], "超出列范围")
		}

		var desc bool
		switch dir := strings.ToLower(strings.TrimSpace(values.Get(prefix + "[dir]"))); dir {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return nil, paramError(prefix+"[dir]", dir, "必须为 asc 或 desc")
		}

		if !col.Orderable() {
			continue
		}
		if err := state.AddOrder(col.Name(), desc); err != nil {
			return nil, err
		}
	}

	return state, nil
}

func intParam(values url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramError(key, raw, "必须为整数")
	}
	return n, nil
}

func paramError(key, value, reason string) error {
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("请求参数 %s 无效（当前%q）: %s", key, value, reason)).
		WithContext("param", key)
}
