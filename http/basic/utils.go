package basic

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/errors"
	httpx "storefront/http"
	"storefront/logging"
)

type HttpUtils struct{}

// ParseID 解析正整数路径参数
func (u *HttpUtils) ParseID(ctx httpx.IHttpContext, paramName string) (int64, error) {
	idStr := ctx.GetParam(paramName)
	if idStr == "" {
		return 0, errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("parameter %s cannot be empty", paramName))
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeInvalidInput, fmt.Sprintf("parameter %s must be a valid integer", paramName))
	}
	if id <= 0 {
		return 0, errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("parameter %s must be greater than 0", paramName))
	}
	return id, nil
}

// QueryInt 读取第一个出现的查询参数并解析为整数
//
// 参数缺失或不是整数时返回 def：分页参数的越界与畸形值由规格自行修正，不在这里报错。
func (u *HttpUtils) QueryInt(ctx httpx.IHttpContext, def int, names ...string) int {
	for _, name := range names {
		raw := strings.TrimSpace(ctx.GetQuery(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return def
		}
		return v
	}
	return def
}

// QueryIDs 读取 ID 集合，支持重复参数（?id=1&id=2）与逗号分隔（?id=1,2）
func (u *HttpUtils) QueryIDs(ctx httpx.IHttpContext, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range ctx.GetQueryParams()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, errors.WrapError(err, errors.ErrCodeInvalidInput, fmt.Sprintf("parameter %s must be a list of integers", name))
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SetJSONHeader 把 v 以 JSON 写入响应头
func (u *HttpUtils) SetJSONHeader(ctx httpx.IHttpContext, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInternal, "failed to serialize header "+key)
	}
	ctx.SetHeader(key, string(data))
	return nil
}

// StatusFromCode 错误码到 HTTP 状态码
func StatusFromCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeUnprocessable, errors.ErrCodeInvalidState:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse 把错误写为 JSON 错误响应；响应已写出时不再重复写入
//
// 5xx 不向客户端暴露内部原因，只返回错误码与通用消息。
func (u *HttpUtils) WriteErrorResponse(ctx httpx.IHttpContext, err error) error {
	if ctx.Written() {
		return nil
	}

	err = errors.Normalize(err)
	code := errors.GetErrorCode(err)
	status := StatusFromCode(code)
	message := errors.GetMessage(err)
	if status >= http.StatusInternalServerError {
		c := ctx.GetContext()
		logging.FromContext(c).Error(c, "request failed", logging.Error(err), logging.String("error_code", string(code)))
		message = http.StatusText(status)
	}

	payload := httpx.NewErrorResponse(string(code), message, logging.RequestID(ctx.GetContext()))
	if jerr := ctx.JSON(status, payload); jerr != nil {
		return ctx.String(status, fmt.Sprintf("%s: %s", code, message))
	}
	return nil
}
