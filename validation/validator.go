package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tablesearch/errors"
)

// DefaultDateLayout 日期搜索默认格式
const DefaultDateLayout = "2006-01-02"

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为空", fieldName))
	}
	return nil
}

// ValidateEnum 验证枚举值
func ValidateEnum(value, fieldName string, validValues []string) error {
	for _, valid := range validValues {
		if value == valid {
			return nil
		}
	}
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("%s的值无效，必须是以下之一: %v", fieldName, validValues))
}

// ParseNumber 解析数值；整数返回 int64，其余返回 float64
func ParseNumber(value string) (any, error) {
	s := strings.TrimSpace(value)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := parseFinite(s)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// parseFinite 拒绝 NaN 与 ±Inf：它们与任何边界比较都不成立
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return f, nil
}

// ValidateNumber 验证数值格式
func ValidateNumber(value, fieldName string) error {
	if _, err := ParseNumber(value); err != nil {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为数值（当前%q）", fieldName, value))
	}
	return nil
}

// ValidateNumberRange 验证数值范围，min/max 为 nil 表示不限制
func ValidateNumberRange(value, fieldName string, min, max *float64) error {
	f, err := parseFinite(strings.TrimSpace(value))
	if err != nil {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为数值（当前%q）", fieldName, value))
	}
	if min != nil && f < *min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能小于%v（当前%v）", fieldName, *min, f))
	}
	if max != nil && f > *max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能大于%v（当前%v）", fieldName, *max, f))
	}
	return nil
}

// ValidateDate 按 layout 验证日期，layout 为空时使用 DefaultDateLayout
func ValidateDate(value, fieldName, layout string) error {
	if layout == "" {
		layout = DefaultDateLayout
	}
	if _, err := time.Parse(layout, strings.TrimSpace(value)); err != nil {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s日期格式无效，期望 %s（当前%q）", fieldName, layout, value))
	}
	return nil
}

// ValidatePaging 验证分页参数
//
// length 为 -1 表示不分页；maxLength <= 0 表示不限制单页大小。
func ValidatePaging(start, length, maxLength int) error {
	if start < 0 {
		return errors.NewError(errors.ErrCodeValidation, "start不能为负数")
	}
	if length == -1 {
		return nil
	}
	if length <= 0 {
		return errors.NewError(errors.ErrCodeValidation, "length必须大于0或等于-1")
	}
	if maxLength > 0 && length > maxLength {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("length不能超过%d（当前%d）", maxLength, length))
	}
	return nil
}
