package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatValue 测试值格式化
func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"字符串", "test", "test"},
		{"带空格字符串", "  a ", `"  a "`},
		{"空字符串", "", `""`},
		{"错误", errors.New("error message"), "error message"},
		{"整数", 123, "123"},
		{"耗时", 1500 * time.Millisecond, "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

// TestStdLogger_Level 低于级别的日志被丢弃
func TestStdLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLoggerWithWriter("catalog", WarnLevel, &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "warn message", Int("page", 2))
	logger.Error(ctx, "error message", Error(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "[WARN] catalog warn message page=2")
	assert.Contains(t, out, "[ERROR] catalog error message error=boom")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

// TestStdLogger_WithFields 字段不影响原 Logger
func TestStdLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewStdLoggerWithWriter("", DebugLevel, &buf)
	child := base.WithFields(String("entity", "product"))

	child.Info(context.Background(), "query", Int64("total", 3))
	assert.Contains(t, buf.String(), "[INFO] query entity=product total=3")

	buf.Reset()
	base.Info(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "entity=")
}

// TestParseLevel 测试级别解析
func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, "WARN", WarnLevel.String())
}

// TestGlobalLogger 测试全局Logger替换
func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	noop := NewNoopLogger()
	SetLogger(noop)
	assert.Same(t, noop, GetLogger())

	SetLogger(nil)
	assert.Same(t, noop, GetLogger())
}

// TestFromContext 请求 ID 写入日志字段
func TestFromContext(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewStdLoggerWithWriter("", InfoLevel, &buf))

	ctx := WithRequestID(context.Background(), "req-1")
	require.Equal(t, "req-1", RequestID(ctx))

	FromContext(ctx).Info(ctx, "handled")
	assert.Contains(t, buf.String(), "handled request_id=req-1")

	buf.Reset()
	FromContext(context.Background()).Info(context.Background(), "anonymous")
	assert.NotContains(t, buf.String(), "request_id")

	assert.Equal(t, context.Background(), WithRequestID(context.Background(), ""))
}
