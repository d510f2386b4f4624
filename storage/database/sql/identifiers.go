package sql

import "strings"

// IsSafeIdentifier 判断名称是否可以直接拼入 SQL 作为表名/列别名。
//
// 允许 foo、bar_1 以及 schema.table 这类带点限定名；每段以 ASCII 字母或下划线开头，
// 其后只含字母、数字、下划线。足以挡住空格、引号、分号、注释等注入片段。
func IsSafeIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			if !isIdentByte(part[i], i == 0) {
				return false
			}
		}
	}
	return true
}

func isIdentByte(ch byte, first bool) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		return true
	case ch >= '0' && ch <= '9':
		return !first
	default:
		return false
	}
}
