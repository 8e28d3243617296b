package basic

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	httpx "storefront/http"
	"storefront/logging"
)

// HttpServer 基于标准库 net/http 的 IHttpServer 实现
//
// 路由在首次调用 Handler/Start 时一次性注册到 ServeMux，之后再注册的路由不生效。
type HttpServer struct {
	config      httpx.WebConfig
	mux         *http.ServeMux
	server      *http.Server
	routes      []*route
	mounts      map[string]http.Handler
	middlewares []httpx.Middleware
	logger      logging.Logger

	mu    sync.Mutex
	built sync.Once
}

type route struct {
	method  string
	pattern string
	handler httpx.HttpHandler
}

// NewHTTPServer 创建基于 net/http 的服务器
func NewHTTPServer(config httpx.WebConfig) *HttpServer {
	return &HttpServer{
		config: config,
		mux:    http.NewServeMux(),
		mounts: make(map[string]http.Handler),
		logger: logging.GetLogger().WithFields(logging.String("component", "http")),
	}
}

func (s *HttpServer) GET(path string, handler httpx.HttpHandler) httpx.IHttpServer {
	s.addRoute(http.MethodGet, path, handler)
	return s
}

func (s *HttpServer) POST(path string, handler httpx.HttpHandler) httpx.IHttpServer {
	s.addRoute(http.MethodPost, path, handler)
	return s
}

func (s *HttpServer) addRoute(method, path string, handler httpx.HttpHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, &route{method: method, pattern: path, handler: handler})
}

// Group 路由分组
func (s *HttpServer) Group(prefix string) httpx.IRouteGroup {
	return &RouteGroup{prefix: prefix, server: s}
}

// Use 全局中间件，按注册顺序由外向内执行
func (s *HttpServer) Use(middleware ...httpx.Middleware) httpx.IHttpServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middlewares = append(s.middlewares, middleware...)
	return s
}

// Mount 实现 IHttpServer
func (s *HttpServer) Mount(path string, handler http.Handler) httpx.IHttpServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounts[path] = handler
	return s
}

// Handler 实现 IHttpServer
func (s *HttpServer) Handler() http.Handler {
	s.built.Do(s.registerRoutes)
	return s.mux
}

// Start 监听配置地址直到 Stop 被调用
func (s *HttpServer) Start(ctx context.Context) error {
	handler := s.Handler()
	s.mu.Lock()
	s.server = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info(ctx, "http server listening", logging.String("addr", srv.Addr))
	var err error
	if s.config.TLSEnabled {
		err = srv.ListenAndServeTLS(s.config.CertFile, s.config.KeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop 优雅关闭
func (s *HttpServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name 供 Manager 使用
func (s *HttpServer) Name() string { return "http" }

func (s *HttpServer) registerRoutes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, h := range s.mounts {
		s.mux.Handle(path, h)
	}
	for _, r := range s.routes {
		s.mux.HandleFunc(r.method+" "+convertPathPattern(r.pattern), s.createHandler(r, s.middlewares))
	}
}

// convertPathPattern 将 :id 转为 {id}（Go 1.22+ ServeMux 语法）
func convertPathPattern(pattern string) string {
	parts := strings.Split(pattern, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func (s *HttpServer) createHandler(r *route, global []httpx.Middleware) http.HandlerFunc {
	middlewares := append([]httpx.Middleware{}, global...)
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := NewBaseHttpContext(w, req)
		ctx.Set(httpx.RouteKey, r.pattern)
		parsePathParams(ctx, r.pattern, req)
		if err := executeMiddlewareChain(ctx, middlewares, r.handler); err != nil {
			_ = (&HttpUtils{}).WriteErrorResponse(ctx, err)
		}
	}
}

func parsePathParams(ctx *HttpContext, pattern string, req *http.Request) {
	for _, part := range strings.Split(strings.Trim(pattern, "/"), "/") {
		if strings.HasPrefix(part, ":") {
			name := part[1:]
			if v := req.PathValue(name); v != "" {
				ctx.SetParam(name, v)
			}
		}
	}
}

func executeMiddlewareChain(ctx httpx.IHttpContext, middlewares []httpx.Middleware, handler httpx.HttpHandler) error {
	if ctx.IsAborted() {
		return nil
	}
	if len(middlewares) == 0 {
		return handler(ctx)
	}
	return middlewares[0](ctx, func() error { return executeMiddlewareChain(ctx, middlewares[1:], handler) })
}

// RouteGroup 实现 IRouteGroup
type RouteGroup struct {
	prefix      string
	server      *HttpServer
	middlewares []httpx.Middleware
}

func (g *RouteGroup) GET(path string, h httpx.HttpHandler) httpx.IRouteGroup {
	g.server.addRoute(http.MethodGet, g.prefix+path, g.wrap(h))
	return g
}

func (g *RouteGroup) POST(path string, h httpx.HttpHandler) httpx.IRouteGroup {
	g.server.addRoute(http.MethodPost, g.prefix+path, g.wrap(h))
	return g
}

// Group 子分组继承父分组的中间件
func (g *RouteGroup) Group(prefix string) httpx.IRouteGroup {
	return &RouteGroup{
		prefix:      g.prefix + prefix,
		server:      g.server,
		middlewares: append([]httpx.Middleware{}, g.middlewares...),
	}
}

func (g *RouteGroup) Use(mw ...httpx.Middleware) httpx.IRouteGroup {
	g.middlewares = append(g.middlewares, mw...)
	return g
}

func (g *RouteGroup) wrap(h httpx.HttpHandler) httpx.HttpHandler {
	return func(ctx httpx.IHttpContext) error { return executeMiddlewareChain(ctx, g.middlewares, h) }
}
