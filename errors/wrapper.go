package errors

import (
	"context"
	"fmt"
	"runtime"

	"tablesearch/logging"
)

// Wrap 包装错误并以 Debug 级别记录调用位置
func Wrap(ctx context.Context, err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)
	logging.GetLogger().Debug(ctx, "错误包装: "+msg,
		logging.String("location", fmt.Sprintf("%s:%d", file, line)))

	return wrapped
}

// WrapWithLog 包装错误并记录警告日志
func WrapWithLog(ctx context.Context, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)
	logging.GetLogger().Warn(ctx, msg, allFields...)

	return wrapped
}

// WrapDatabaseError 包装数据库错误
//
// 先经 Normalize 识别 NotFound/Timeout，其余统一记为 DATABASE_ERROR。
func WrapDatabaseError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	normalized := Normalize(err)
	switch GetErrorCode(normalized) {
	case ErrCodeNotFound:
		return WrapError(normalized, ErrCodeNotFound, operation)
	case ErrCodeTimeout:
		return WrapError(normalized, ErrCodeTimeout, operation)
	}

	return WrapWithLog(ctx, err, ErrCodeDatabase,
		fmt.Sprintf("数据库操作失败: %s", operation),
		logging.String("operation", operation),
	)
}

// NewValidationError 创建新的验证错误
func NewValidationError(msg string) IError {
	return NewError(ErrCodeValidation, msg)
}
