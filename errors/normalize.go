package errors

import (
	"context"
	"database/sql"
	stdErrors "errors"
)

// Normalize 将驱动/标准库错误规范化为 AppError。
//
// 注意：
//   - 如果传入的 err 已经是 IError，则原样返回；
//   - 未识别的错误保持原样，交由调用方决定是否 Wrap。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(IError); ok {
		return err
	}

	if stdErrors.Is(err, sql.ErrNoRows) {
		return WrapError(err, ErrCodeNotFound, "记录未找到")
	}

	if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(err, context.Canceled) {
		return WrapError(err, ErrCodeTimeout, "查询被取消或超时")
	}

	return err
}
