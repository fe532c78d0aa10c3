package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ConfigPath 是配置服务的读写端点。
const ConfigPath = "/api/config"

// DefaultTimeout 是配置请求的超时时间。
const DefaultTimeout = 5 * time.Second

// Service 从远端拉取与保存配置。服务端不存在是常态而不是错误：
// 任何网络失败、超时或 404 都静默回退到默认配置，只留 debug 日志。
type Service struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewService 创建配置服务客户端。baseURL 为空表示没有配置服务端。
func NewService(baseURL string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     log,
	}
}

// Fetch 拉取远端配置。没有服务端或任何获取失败时返回 nil（而不是错误）。
func (s *Service) Fetch(ctx context.Context) *Config {
	if s.baseURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+ConfigPath, nil)
	if err != nil {
		s.log.Debug("构造配置请求失败，使用默认配置", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("从服务器获取配置失败，使用默认配置", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// 服务器未配置，属正常情况
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Debug("配置服务返回异常状态，使用默认配置", "status", resp.StatusCode)
		return nil
	}

	var cfg Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		s.log.Debug("解析服务端配置失败，使用默认配置", "error", err)
		return nil
	}
	return &cfg
}

// Save 将配置保存到远端。与 Fetch 不同，调用方明确要求保存时失败需要上报。
func (s *Service) Save(ctx context.Context, cfg *Config) error {
	if s.baseURL == "" {
		return fmt.Errorf("未配置服务器地址")
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+ConfigPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("保存配置到服务器失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("保存配置到服务器失败: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Load 在启动时组装运行配置：拉取远端（可能为 nil）并合并到默认值之上。
func (s *Service) Load(ctx context.Context) *Config {
	return Merge(s.Fetch(ctx), Defaults())
}
