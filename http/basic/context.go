package basic

import (
	"context"
	"net"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"storefront/errors"
	httpx "storefront/http"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HttpContext 基于 net/http 的 IHttpContext 实现
type HttpContext struct {
	request *http.Request
	writer  http.ResponseWriter
	ctx     context.Context
	params  map[string]string
	query   url.Values
	values  map[string]any
	status  int
	written bool
	aborted bool
}

// NewBaseHttpContext 创建请求上下文
func NewBaseHttpContext(w http.ResponseWriter, r *http.Request) *HttpContext {
	return &HttpContext{
		request: r,
		writer:  w,
		ctx:     r.Context(),
		params:  make(map[string]string),
		values:  make(map[string]any),
		status:  http.StatusOK,
	}
}

func (c *HttpContext) GetMethod() string           { return c.request.Method }
func (c *HttpContext) GetPath() string             { return c.request.URL.Path }
func (c *HttpContext) GetHeader(key string) string { return c.request.Header.Get(key) }
func (c *HttpContext) GetParam(key string) string  { return c.params[key] }
func (c *HttpContext) GetRequest() *http.Request   { return c.request }

// GetQueryParams 解析一次后缓存
func (c *HttpContext) GetQueryParams() url.Values {
	if c.query == nil {
		c.query = c.request.URL.Query()
	}
	return c.query
}

func (c *HttpContext) GetQuery(key string) string { return c.GetQueryParams().Get(key) }

// ClientIP 去掉端口的远端地址
func (c *HttpContext) ClientIP() string {
	host, _, err := net.SplitHostPort(c.request.RemoteAddr)
	if err != nil {
		return c.request.RemoteAddr
	}
	return host
}

func (c *HttpContext) SetHeader(key, value string) { c.writer.Header().Set(key, value) }
func (c *HttpContext) Status() int                 { return c.status }
func (c *HttpContext) Written() bool               { return c.written }

func (c *HttpContext) JSON(code int, obj any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInternal, "failed to serialize JSON")
	}
	return c.write(code, "application/json; charset=utf-8", data)
}

func (c *HttpContext) String(code int, text string) error {
	return c.write(code, "text/plain; charset=utf-8", []byte(text))
}

func (c *HttpContext) write(code int, contentType string, data []byte) error {
	c.SetHeader("Content-Type", contentType)
	c.status = code
	c.writer.WriteHeader(code)
	c.written = true
	_, err := c.writer.Write(data)
	return err
}

func (c *HttpContext) Set(key string, value any)  { c.values[key] = value }
func (c *HttpContext) Get(key string) (any, bool) { v, ok := c.values[key]; return v, ok }

func (c *HttpContext) Abort()          { c.aborted = true }
func (c *HttpContext) IsAborted() bool { return c.aborted }

func (c *HttpContext) GetContext() context.Context { return c.ctx }

// SetContext 同时替换底层请求的 context，使后续读取 Request() 的代码也能看到
func (c *HttpContext) SetContext(ctx context.Context) {
	c.ctx = ctx
	c.request = c.request.WithContext(ctx)
}

// SetParam 设置路径参数
func (c *HttpContext) SetParam(key, value string) { c.params[key] = value }

var _ httpx.IHttpContext = (*HttpContext)(nil)
