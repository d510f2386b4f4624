package datatable

import (
	"fmt"

	"tablesearch/errors"
)

// FilterKind 列搜索的过滤类型
type FilterKind int

const (
	// KindAuto 根据搜索文本中的标记与 regex 标志自动判断
	KindAuto FilterKind = iota
	// KindGeneric 使用列运算符比较原始搜索文本
	KindGeneric
	// KindEquals 等值匹配
	KindEquals
	// KindRange 闭区间，搜索文本格式为 start|end
	KindRange
	// KindRegex 正则匹配
	KindRegex
)

func (k FilterKind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindGeneric:
		return "generic"
	case KindEquals:
		return "equals"
	case KindRange:
		return "range"
	case KindRegex:
		return "regex"
	default:
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
}

// SearchEntry 单列搜索
type SearchEntry struct {
	Column *Column
	Search string
	Regex  bool
	Kind   FilterKind
}

// OrderEntry 单列排序
type OrderEntry struct {
	Column *Column
	Desc   bool
}

// State 表格查询状态
//
// Length 为 -1 表示不分页；Global 为空表示没有全局搜索。
type State struct {
	Draw   int
	Start  int
	Length int
	Global string

	table  *Table
	search []SearchEntry
	order  []OrderEntry
}

// NewState 创建空状态：不分页，无搜索，无排序
func NewState(table *Table) *State {
	return &State{
		table:  table,
		Length: -1,
	}
}

func (s *State) Table() *Table { return s.table }

// SearchEntries 按添加顺序返回列搜索
func (s *State) SearchEntries() []SearchEntry {
	out := make([]SearchEntry, len(s.search))
	copy(out, s.search)
	return out
}

// OrderEntries 按添加顺序返回排序
func (s *State) OrderEntries() []OrderEntry {
	out := make([]OrderEntry, len(s.order))
	copy(out, s.order)
	return out
}

// AddSearch 添加自动判断类型的列搜索
func (s *State) AddSearch(column, search string, regex bool) error {
	col, err := s.lookup(column)
	if err != nil {
		return err
	}
	s.search = append(s.search, SearchEntry{Column: col, Search: search, Regex: regex, Kind: KindAuto})
	return nil
}

// AddFilter 添加显式类型的列搜索，不做文本标记识别
func (s *State) AddFilter(column string, kind FilterKind, search string) error {
	if kind < KindAuto || kind > KindRegex {
		return errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("未知的过滤类型: %s", kind))
	}
	col, err := s.lookup(column)
	if err != nil {
		return err
	}
	s.search = append(s.search, SearchEntry{Column: col, Search: search, Regex: kind == KindRegex, Kind: kind})
	return nil
}

// AddOrder 添加排序；列必须允许排序
func (s *State) AddOrder(column string, desc bool) error {
	col, err := s.lookup(column)
	if err != nil {
		return err
	}
	if !col.Orderable() {
		return errors.NewError(errors.ErrCodeValidation, fmt.Sprintf("列 %s 不允许排序", column)).
			WithContext("column", column)
	}
	s.order = append(s.order, OrderEntry{Column: col, Desc: desc})
	return nil
}

func (s *State) lookup(column string) (*Column, error) {
	if s.table == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "状态未关联表格")
	}
	col, ok := s.table.Column(column)
	if !ok {
		return nil, errors.NewError(errors.ErrCodeNotFound,
			fmt.Sprintf("表格 %s 不存在列 %s", s.table.Name(), column)).
			WithContext("column", column)
	}
	return col, nil
}
