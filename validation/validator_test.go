package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/errors"
)

// TestValidateStringLength 测试字符串长度验证
func TestValidateStringLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		min     int
		max     int
		wantErr bool
	}{
		{"有效长度", "hello", 3, 10, false},
		{"长度太短", "ab", 3, 10, true},
		{"长度太长", "abcdefghijk", 3, 10, true},
		{"最小边界值", "abc", 3, 10, false},
		{"最大边界值", "abcdefghij", 3, 10, false},
		{"无最大限制", "very long string that exceeds normal limits", 3, 0, false},
		{"按字符计数", "运动鞋", 3, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStringLength(tt.value, "字段", tt.min, tt.max)
			assert.Equal(t, tt.wantErr, err != nil, "error = %v", err)
		})
	}
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("Boots", "名称"))
	assert.Error(t, ValidateRequired("", "名称"))
	assert.Error(t, ValidateRequired("   ", "名称"))
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, "端口", 1, 65535))
	assert.NoError(t, ValidateIntRange(65535, "端口", 1, 65535))
	assert.Error(t, ValidateIntRange(0, "端口", 1, 65535))
	assert.Error(t, ValidateIntRange(70000, "端口", 1, 65535))
}

func TestValidatePositiveAndNonNegative(t *testing.T) {
	assert.NoError(t, ValidatePositive(1, "数量"))
	assert.Error(t, ValidatePositive(0, "数量"))
	assert.NoError(t, ValidateNonNegative(0, "价格"))
	assert.Error(t, ValidateNonNegative(-0.01, "价格"))
}

func TestValidateEnum(t *testing.T) {
	valid := []string{"memory", "redis"}
	assert.NoError(t, ValidateEnum("redis", "缓存后端", valid))
	err := ValidateEnum("memcached", "缓存后端", valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID(1, "品牌ID"))
	assert.Error(t, ValidateID(0, "品牌ID"))
	assert.Error(t, ValidateID(-1, "品牌ID"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("nats://127.0.0.1:4222", "nats.url", "nats", "tls"))
	assert.NoError(t, ValidateURL("https://cdn.example.com/p/1.png", "图片"))
	assert.Error(t, ValidateURL("127.0.0.1:4222", "nats.url"))
	assert.Error(t, ValidateURL("http://127.0.0.1:4222", "nats.url", "nats"))
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Check(nil)
	assert.NoError(t, c.Err())

	c.Check(ValidateRequired("", "名称"))
	c.Check(ValidateNonNegative(-1, "价格"))
	err := c.Err()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, errors.GetMessage(err), "名称不能为空")
	assert.Contains(t, errors.GetMessage(err), "价格不能为负数")
}

func TestValidationErrorCode(t *testing.T) {
	err := ValidateRequired("", "字段")
	assert.Equal(t, errors.ErrCodeValidation, errors.GetErrorCode(err))
}
