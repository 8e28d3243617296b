// Package validation 字段级校验函数，错误统一为 ErrCodeValidation
package validation

import (
	stdErrors "errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"storefront/errors"
)

// IValidatable 可自校验的对象
type IValidatable interface {
	Validate() error
}

// ValidateStringLength 验证字符串长度（按字符计），max<=0 表示不限上限
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len([]rune(value))
	if length < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s长度不能少于%d个字符（当前%d）", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s长度不能超过%d个字符（当前%d）", fieldName, max, length))
	}
	return nil
}

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为空", fieldName))
	}
	return nil
}

// ValidateIntRange 验证整数范围（闭区间）
func ValidateIntRange(value int, fieldName string, min, max int) error {
	if value < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能小于%d（当前%d）", fieldName, min, value))
	}
	if value > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能大于%d（当前%d）", fieldName, max, value))
	}
	return nil
}

// ValidatePositive 验证正数
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为正数（当前%d）", fieldName, value))
	}
	return nil
}

// ValidateNonNegative 验证非负金额等浮点值
func ValidateNonNegative(value float64, fieldName string) error {
	if value < 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为负数（当前%g）", fieldName, value))
	}
	return nil
}

// ValidateEnum 验证枚举值
func ValidateEnum(value, fieldName string, validValues []string) error {
	if slices.Contains(validValues, value) {
		return nil
	}
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("%s的值无效，必须是以下之一: %v", fieldName, validValues))
}

// ValidateID 验证ID有效性
func ValidateID(id int64, fieldName string) error {
	if id <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为正整数", fieldName))
	}
	return nil
}

// ValidateURL 验证带 scheme 与 host 的 URL，schemes 为空时不限制 scheme
func ValidateURL(value, fieldName string, schemes ...string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不是合法的 URL: %q", fieldName, value))
	}
	if len(schemes) > 0 && !slices.Contains(schemes, u.Scheme) {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s的协议必须是以下之一: %v", fieldName, schemes))
	}
	return nil
}

// Collector 收集多个校验错误，一次性返回
type Collector struct {
	errs []error
}

// Check 记录非 nil 错误
func (c *Collector) Check(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// Err 没有错误时返回 nil；否则返回一个 ErrCodeValidation 错误，消息包含全部失败项
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(c.errs))
	for i, err := range c.errs {
		msgs[i] = errors.GetMessage(err)
	}
	return errors.WrapError(stdErrors.Join(c.errs...), errors.ErrCodeValidation, strings.Join(msgs, "; "))
}
