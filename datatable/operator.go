package datatable

import (
	"fmt"
	"strings"

	"tablesearch/errors"
)

// Operator 列比较运算符
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpNotEqualStd  Operator = "<>"
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLike         Operator = "LIKE"
	OpNotLike      Operator = "NOT LIKE"
	OpILike        Operator = "ILIKE"
)

var allowedOperators = map[Operator]struct{}{
	OpEqual: {}, OpNotEqual: {}, OpNotEqualStd: {},
	OpLess: {}, OpLessEqual: {}, OpGreater: {}, OpGreaterEqual: {},
	OpLike: {}, OpNotLike: {}, OpILike: {},
}

// Valid 运算符会原样拼入 SQL，只允许白名单内的值
func (o Operator) Valid() bool {
	_, ok := allowedOperators[o]
	return ok
}

// ParseOperator 规范化大小写与空白后解析运算符，空串返回 OpEqual
func ParseOperator(s string) (Operator, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if normalized == "" {
		return OpEqual, nil
	}
	op := Operator(normalized)
	if !op.Valid() {
		return "", errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("不支持的运算符: %q", s))
	}
	return op, nil
}
