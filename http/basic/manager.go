package basic

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"storefront/logging"
)

// Server 由 Manager 管理生命周期的服务
//
// Start 可以阻塞直到服务结束；Stop 必须使阻塞中的 Start 返回。
type Server interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Manager 统一管理多个 Server 的启动与优雅退出
type Manager struct {
	logger          logging.Logger
	servers         []Server
	shutdownTimeout time.Duration
}

// NewManager 创建 Server 管理器
func NewManager() *Manager {
	return &Manager{
		logger:          logging.GetLogger(),
		shutdownTimeout: 10 * time.Second,
	}
}

// WithLogger 设置日志实现
func (m *Manager) WithLogger(l logging.Logger) *Manager {
	if l != nil {
		m.logger = l
	}
	return m
}

// Register 注册 Server，关闭顺序与注册顺序相反
func (m *Manager) Register(servers ...Server) *Manager {
	m.servers = append(m.servers, servers...)
	return m
}

// WithShutdownTimeout 配置优雅退出超时
func (m *Manager) WithShutdownTimeout(d time.Duration) *Manager {
	if d > 0 {
		m.shutdownTimeout = d
	}
	return m
}

// Run 启动所有 Server，收到 SIGINT/SIGTERM、ctx 结束或任一 Server 失败时依次关闭
func (m *Manager) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m.logger.Info(ctx, "starting manager", logging.Int("servers", len(m.servers)))

	var wg sync.WaitGroup
	errCh := make(chan error, len(m.servers))
	for _, s := range m.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Start(ctx); err != nil {
				m.logger.Error(ctx, "server start error", logging.String("name", s.Name()), logging.Error(err))
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		m.logger.Info(context.Background(), "shutdown signal received")
	case runErr = <-errCh:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancelShutdown()

	var stopErrs []error
	for i := len(m.servers) - 1; i >= 0; i-- {
		s := m.servers[i]
		if err := s.Stop(shutdownCtx); err != nil {
			m.logger.Warn(shutdownCtx, "server stop error", logging.String("name", s.Name()), logging.Error(err))
			stopErrs = append(stopErrs, err)
			continue
		}
		m.logger.Info(shutdownCtx, "server stopped", logging.String("name", s.Name()))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		m.logger.Warn(shutdownCtx, "manager shutdown timeout", logging.Duration("timeout", m.shutdownTimeout))
	}

	return errors.Join(append([]error{runErr}, stopErrs...)...)
}
