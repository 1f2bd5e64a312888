package faults

import (
	"errors"
	"fmt"
)

// Kind 错误类别
//
// The set is closed: callers switch on these values to pick an HTTP
// status, so new kinds require touching that mapping too.
type Kind string

const (
	// InvalidRequest 调用方请求不合法(缺少或不支持的字段)
	InvalidRequest Kind = "invalid_request"
	// ConfigurationMissing 缺少必需的配置项
	ConfigurationMissing Kind = "configuration_missing"
	// RemoteRejected 上游 API 明确拒绝了请求
	RemoteRejected Kind = "remote_rejected"
	// TransportFailure 网络层故障(连接、超时、响应不可解析)
	TransportFailure Kind = "transport_failure"
)

// Fault 结构化错误，携带类别与来源系统
type Fault struct {
	Kind   Kind
	System string
	Msg    string
	Err    error
}

func (f *Fault) Error() string {
	if f.System != "" {
		return fmt.Sprintf("%s: %s", f.System, f.Msg)
	}
	return f.Msg
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// New 创建指定类别的错误
func New(kind Kind, system, format string, args ...interface{}) *Fault {
	return &Fault{
		Kind:   kind,
		System: system,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误并标记类别
func Wrap(kind Kind, system string, err error) *Fault {
	return &Fault{
		Kind:   kind,
		System: system,
		Msg:    err.Error(),
		Err:    err,
	}
}

// KindOf 取出错误的类别，非 Fault 错误返回空串
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
