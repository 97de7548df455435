package errors

import (
	"errors"
	"fmt"
)

// ErrorKind 定义错误类型
type ErrorKind int

const (
	// KindDuration duration 字段无法解析为毫秒数
	KindDuration ErrorKind = iota
	// KindDecode 输入数据无法解析（YAML/JSON）
	KindDecode
	// KindTemplate terse 模板解析或渲染失败
	KindTemplate
	// KindConfig 配置文件读取或校验失败
	KindConfig
	// KindRender 渲染单个主机时出现意外错误
	KindRender
)

// String 返回错误类型名
func (k ErrorKind) String() string {
	switch k {
	case KindDuration:
		return "duration"
	case KindDecode:
		return "decode"
	case KindTemplate:
		return "template"
	case KindConfig:
		return "config"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// FormatError 统一的格式化错误类型
type FormatError struct {
	Kind    ErrorKind // 错误类型
	Host    string    // 主机（如果适用）
	Task    string    // 任务 ID（如果适用）
	Message string    // 错误消息
	Cause   error     // 原始错误
}

func (e *FormatError) Error() string {
	if e.Host != "" && e.Task != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Host, e.Task, e.Message)
	}
	if e.Host != "" {
		return fmt.Sprintf("[%s] %s", e.Host, e.Message)
	}
	return e.Message
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// IsKind 判断 err 链中是否存在指定类型的 FormatError
func IsKind(err error, kind ErrorKind) bool {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// NewDurationError 创建 duration 解析错误
func NewDurationError(task string, raw interface{}, cause error) *FormatError {
	return &FormatError{
		Kind:    KindDuration,
		Task:    task,
		Message: fmt.Sprintf("cannot parse a float from duration %v", raw),
		Cause:   cause,
	}
}

// NewDecodeError 创建输入解析错误
func NewDecodeError(msg string, cause error) *FormatError {
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &FormatError{
		Kind:    KindDecode,
		Message: msg,
		Cause:   cause,
	}
}

// NewTemplateError 创建模板错误
func NewTemplateError(task string, cause error) *FormatError {
	return &FormatError{
		Kind:    KindTemplate,
		Task:    task,
		Message: fmt.Sprintf("failed to render terse template: %v", cause),
		Cause:   cause,
	}
}

// NewConfigError 创建配置错误
func NewConfigError(path string, cause error) *FormatError {
	return &FormatError{
		Kind:    KindConfig,
		Message: fmt.Sprintf("invalid config %s: %v", path, cause),
		Cause:   cause,
	}
}

// NewRenderError 创建主机渲染错误
func NewRenderError(host string, cause error) *FormatError {
	return &FormatError{
		Kind:    KindRender,
		Host:    host,
		Message: fmt.Sprintf("failed to render host: %v", cause),
		Cause:   cause,
	}
}
