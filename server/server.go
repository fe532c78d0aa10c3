// Package server 提供 /api/config 的参考实现：配置来自一个 YAML 文件，
// 文件变更时热加载，客户端可 GET 读取或 POST 覆盖。
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/bookcard/config"
)

// 每个客户端的请求速率限制。
const (
	clientRate  = rate.Limit(10)
	clientBurst = 20
)

// Server 托管配置接口。
type Server struct {
	path string
	log  *slog.Logger

	mu  sync.RWMutex
	cfg *config.Config

	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

// New 创建服务端并加载配置文件。path 为空时仅提供内置默认配置。
func New(path string, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		path:     path,
		log:      log,
		cfg:      config.Defaults(),
		limiters: map[string]*rate.Limiter{},
	}
	if path != "" {
		if err := s.reload(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Config 返回当前配置。
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// reload 重新读取 YAML 配置文件。非法类目整体拒绝，保留旧配置。
func (s *Server) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}
	if !cfg.Valid() {
		return fmt.Errorf("配置文件 %s 含非法类目", s.path)
	}
	s.mu.Lock()
	s.cfg = &cfg
	s.mu.Unlock()
	s.log.Info("配置已加载", "path", s.path,
		"themes", len(cfg.Themes), "fonts", len(cfg.Fonts), "fontColors", len(cfg.FontColors))
	return nil
}

// Watch 监听配置文件变更并热加载，直到 ctx 结束。
func (s *Server) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(s.path); err != nil {
		return fmt.Errorf("监听配置文件失败: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				s.log.Warn("热加载失败，保留旧配置", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("文件监听错误", "error", err)
		}
	}
}

// Router 构建 HTTP 路由。
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.rateLimit)
	r.Get(config.ConfigPath, s.handleGet)
	r.Post(config.ConfigPath, s.handlePost)
	return r
}

// ListenAndServe 启动 HTTP 服务并在后台监听配置文件。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	go func() {
		if err := s.Watch(ctx); err != nil {
			s.log.Warn("配置监听退出", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("配置服务已启动", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(s.Config()); err != nil {
		s.log.Warn("写响应失败", "error", err)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "请求体不是合法的 JSON", http.StatusBadRequest)
		return
	}
	if !cfg.Valid() {
		http.Error(w, "配置含非法类目", http.StatusUnprocessableEntity)
		return
	}
	s.mu.Lock()
	s.cfg = &cfg
	s.mu.Unlock()

	if s.path != "" {
		data, err := yaml.Marshal(&cfg)
		if err == nil {
			err = os.WriteFile(s.path, data, 0o644)
		}
		if err != nil {
			s.log.Warn("配置写回文件失败", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// logRequests 是基于 slog 的请求日志中间件。
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("请求",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// rateLimit 按客户端 IP 限速。
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter(host).Allow() {
			http.Error(w, "请求过于频繁", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiter(host string) *rate.Limiter {
	s.limMu.Lock()
	defer s.limMu.Unlock()
	lim, ok := s.limiters[host]
	if !ok {
		lim = rate.NewLimiter(clientRate, clientBurst)
		s.limiters[host] = lim
	}
	return lim
}
