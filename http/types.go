package http

import (
	"fmt"
	"time"
)

// 约定的请求/响应头
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderPagination = "Pagination"
)

// ErrorPayload 通用错误响应
type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message, requestID string) *ErrorPayload {
	return &ErrorPayload{Code: code, Message: message, RequestID: requestID}
}

// WebConfig HTTP 服务基础配置
type WebConfig struct {
	Host         string        `json:"host" yaml:"host"`
	Port         int           `json:"port" yaml:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout"`

	// RequestTimeout 单个请求（含查询）的超时，0 表示不限制
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`

	// TLS
	TLSEnabled bool   `json:"tls_enabled" yaml:"tls_enabled"`
	CertFile   string `json:"cert_file" yaml:"cert_file"`
	KeyFile    string `json:"key_file" yaml:"key_file"`
}

// Addr 监听地址
func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
