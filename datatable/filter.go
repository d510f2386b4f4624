package datatable

import (
	"tablesearch/validation"
)

// IValueValidator 列过滤值校验能力；校验失败的列搜索会被静默跳过
type IValueValidator interface {
	IsValidValue(value string) bool
}

// ValidatorFunc 函数适配器
type ValidatorFunc func(value string) bool

func (f ValidatorFunc) IsValidValue(value string) bool { return f(value) }

// TextFilter 接受任意文本
type TextFilter struct{}

func (TextFilter) IsValidValue(string) bool { return true }

// ChoiceFilter 只接受预定义选项之一（区分大小写）
type ChoiceFilter struct {
	Choices []string
}

func (f ChoiceFilter) IsValidValue(value string) bool {
	return validation.ValidateEnum(value, "choice", f.Choices) == nil
}

// NumberFilter 接受数值，可选上下界
type NumberFilter struct {
	Min *float64
	Max *float64
}

func (f NumberFilter) IsValidValue(value string) bool {
	return validation.ValidateNumberRange(value, "number", f.Min, f.Max) == nil
}
