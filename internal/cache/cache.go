package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Invalidator 负责按 URL 清除边缘缓存中的响应条目。
// 清除失败由调用方记录日志，不影响主流程：缓存条目会随 TTL 自行过期。
type Invalidator interface {
	Invalidate(ctx context.Context, urls ...string) error
}

// NopInvalidator 不执行任何操作，用于未配置缓存的部署和测试场景。
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context, ...string) error {
	return nil
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPInvalidator 通过缓存服务的清除接口按 URL 精确删除条目。
type HTTPInvalidator struct {
	purgeURL   string
	token      string
	httpClient httpDoer
}

// NewHTTPInvalidator 构造 HTTPInvalidator。
func NewHTTPInvalidator(purgeURL, token string) *HTTPInvalidator {
	return &HTTPInvalidator{
		purgeURL:   strings.TrimRight(strings.TrimSpace(purgeURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetHTTPClient 替换用于访问缓存接口的 HTTP 客户端，主要面向测试场景。
func (i *HTTPInvalidator) SetHTTPClient(client httpDoer) {
	if client == nil {
		i.httpClient = &http.Client{Timeout: 10 * time.Second}
		return
	}
	i.httpClient = client
}

type purgeRequest struct {
	Files []string `json:"files"`
}

// Invalidate 将给定 URL 提交给清除接口。
func (i *HTTPInvalidator) Invalidate(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}

	body, err := json.Marshal(purgeRequest{Files: urls})
	if err != nil {
		return fmt.Errorf("encode purge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.purgeURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build purge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if i.token != "" {
		req.Header.Set("Authorization", "Bearer "+i.token)
	}

	client := i.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("请求缓存清除接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := strings.TrimSpace(string(raw))
		if msg != "" {
			return fmt.Errorf("缓存清除接口返回错误：%s (%s)", resp.Status, msg)
		}
		return fmt.Errorf("缓存清除接口返回错误：%s", resp.Status)
	}

	return nil
}
