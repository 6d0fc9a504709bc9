package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode 错误码类型
type ErrorCode int

const (
	// 系统错误 (1000-1999)
	ErrCodeSystem ErrorCode = 1000 + iota
	ErrCodeInternal
	ErrCodeTimeout
	ErrCodeNotFound
	ErrCodeAlreadyExists
	ErrCodeUnavailable
)

const (
	// 参数错误 (2000-2999)
	ErrCodeInvalidParam ErrorCode = 2000 + iota
	ErrCodeMissingParam
	ErrCodeInvalidLanguage
	ErrCodeInvalidRating
	ErrCodeInvalidShareToken
)

const (
	// 鉴权错误 (4000-4999)
	ErrCodeUnauthorized ErrorCode = 4000 + iota
	ErrCodeForbidden
)

const (
	// 存储错误 (5000-5999)
	ErrCodeStorage ErrorCode = 5000 + iota
	ErrCodeBlobFailed
)

// AppError 业务错误
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持错误链
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的业务错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInvalidParamError 创建参数错误
func NewInvalidParamError(param string, reason string) *AppError {
	return New(ErrCodeInvalidParam, fmt.Sprintf("invalid %s: %s", param, reason))
}

// NewNotFoundError 创建资源不存在错误
func NewNotFoundError(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewStorageError 创建存储错误
func NewStorageError(message string, err error) *AppError {
	return Wrap(ErrCodeStorage, message, err)
}

// IsErrorCode 判断错误链中是否有指定错误码
func IsErrorCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetErrorCode 获取错误码，非业务错误视为内部错误
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}
