package basic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/errors"
	httpx "storefront/http"
	"storefront/logging"
)

func newTestContext(method, target string) (*HttpContext, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return NewBaseHttpContext(rec, httptest.NewRequest(method, target, nil)), rec
}

func TestHttpUtils_ParseID(t *testing.T) {
	utils := &HttpUtils{}

	ctx, _ := newTestContext(http.MethodGet, "/api/products/123")
	ctx.SetParam("id", "123")
	id, err := utils.ParseID(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	for _, raw := range []string{"", "abc", "0", "-4"} {
		ctx, _ := newTestContext(http.MethodGet, "/api/products/x")
		if raw != "" {
			ctx.SetParam("id", raw)
		}
		_, err := utils.ParseID(ctx, "id")
		assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err), raw)
	}
}

func TestHttpUtils_QueryInt(t *testing.T) {
	utils := &HttpUtils{}

	ctx, _ := newTestContext(http.MethodGet, "/api/products?pageNumber=3&pageIndex=2")
	assert.Equal(t, 2, utils.QueryInt(ctx, 1, "pageIndex", "pageNumber"))
	assert.Equal(t, 3, utils.QueryInt(ctx, 1, "pageNumber"))
	assert.Equal(t, 6, utils.QueryInt(ctx, 6, "pageSize"))

	ctx, _ = newTestContext(http.MethodGet, "/api/products?pageSize=lots&pageIndex=-3")
	assert.Equal(t, 6, utils.QueryInt(ctx, 6, "pageSize"))
	// 负数原样返回，由规格修正
	assert.Equal(t, -3, utils.QueryInt(ctx, 1, "pageIndex"))
}

func TestHttpUtils_QueryIDs(t *testing.T) {
	utils := &HttpUtils{}

	ctx, _ := newTestContext(http.MethodGet, "/api/products?brandId=2&brandId=5,7&brandId=")
	ids, err := utils.QueryIDs(ctx, "brandId")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 7}, ids)

	ids, err = utils.QueryIDs(ctx, "typeId")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ctx, _ = newTestContext(http.MethodGet, "/api/products?typeId=1,x")
	_, err = utils.QueryIDs(ctx, "typeId")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetErrorCode(err))
}

func TestHttpUtils_SetJSONHeader(t *testing.T) {
	ctx, rec := newTestContext(http.MethodGet, "/")
	require.NoError(t, (&HttpUtils{}).SetJSONHeader(ctx, httpx.HeaderPagination, map[string]int{"totalCount": 3}))
	assert.Equal(t, `{"totalCount":3}`, rec.Header().Get(httpx.HeaderPagination))
}

func TestHttpUtils_WriteErrorResponse(t *testing.T) {
	utils := &HttpUtils{}

	ctx, rec := newTestContext(http.MethodGet, "/")
	ctx.SetContext(logging.WithRequestID(context.Background(), "req-1"))
	require.NoError(t, utils.WriteErrorResponse(ctx, errors.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var payload httpx.ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, string(errors.ErrCodeNotFound), payload.Code)
	assert.Equal(t, "req-1", payload.RequestID)
	assert.NotEmpty(t, payload.Message)

	// 已写出的响应不再重复写入
	require.NoError(t, utils.WriteErrorResponse(ctx, errors.ErrInternal))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFromCode(t *testing.T) {
	cases := map[errors.ErrorCode]int{
		errors.ErrCodeNotFound:           http.StatusNotFound,
		errors.ErrCodeInvalidInput:       http.StatusBadRequest,
		errors.ErrCodeValidation:         http.StatusBadRequest,
		errors.ErrCodeUnauthorized:       http.StatusUnauthorized,
		errors.ErrCodeForbidden:          http.StatusForbidden,
		errors.ErrCodeConflict:           http.StatusConflict,
		errors.ErrCodeUnprocessable:      http.StatusUnprocessableEntity,
		errors.ErrCodeTimeout:            http.StatusGatewayTimeout,
		errors.ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
		errors.ErrCodeDatabase:           http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, StatusFromCode(code), code)
	}
}
