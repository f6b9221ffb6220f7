// Package errors 定义贴纸渲染流水线对外暴露的结构化错误。
//
// 错误码面向调用方（CLI 或上层服务）做分支处理：
//
//	err := errors.New(errors.ErrCodeUnknownStyle, "样式 %d 不存在", id)
//	if errors.Is(err, errors.ErrCodeUnknownStyle) {
//	    // 配置问题，而非用户输入问题
//	}
//
// 底层依旧用 fmt.Errorf("...: %w") 包装原因，边界层再 Wrap 成带码的 *Error。
package errors

import (
	"errors"
	"fmt"
)

// Code 是机器可读的错误码。
type Code string

const (
	// ErrCodeUnknownStyle 表示样式 id 不在样式表中。样式表是静态配置，出现即为配置错误。
	ErrCodeUnknownStyle Code = "UNKNOWN_STYLE"
	// ErrCodeInvalidStyle 表示样式字段超出定义域（占屏比、旋转角等）。
	ErrCodeInvalidStyle Code = "INVALID_STYLE"
	// ErrCodeAssetLoad 表示底图或字体读取、解码失败。
	ErrCodeAssetLoad Code = "ASSET_LOAD"
	// ErrCodeMeasurementDegenerate 表示文本测量结果为零宽。流水线将其视为空文字层，不会返回给调用方。
	ErrCodeMeasurementDegenerate Code = "MEASUREMENT_DEGENERATE"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeConfig       Code = "CONFIG"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error 携带错误码、可读信息与可选的原因。
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 让 errors.Is/As 能继续向下查找原因。
func (e *Error) Unwrap() error { return e.Cause }

// New 创建一个带错误码的错误。
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 用错误码包装已有错误。
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Ensure 在 err 链上尚无错误码时用 code 包装，已有错误码时原样返回，
// 使底层（如字体读取）给出的错误码不会被上层覆盖。
func Ensure(code Code, err error, format string, args ...any) error {
	if err == nil || GetCode(err) != "" {
		return err
	}
	return Wrap(code, err, format, args...)
}

// Is 沿错误链查找 *Error，并比较错误码。
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode 返回错误链上第一个 *Error 的错误码，没有则返回空串。
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage 返回不带错误码前缀的提示文本。
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
