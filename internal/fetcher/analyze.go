package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"horizon-ai-go/internal/model"
)

const (
	// UnknownErrorMessage 没有任何可用信息时的兜底
	UnknownErrorMessage = "An unknown error occurred."

	maxErrorBody = 1 << 20 // 1 MiB
)

// RequestError 请求失败，唯一的错误类型
type RequestError struct {
	Status  int    // HTTP状态码，传输层失败时为0
	Message string // 直接展示给用户
	Err     error  // 底层错误
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return UnknownErrorMessage
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// AnalyzeClient 分析后端HTTP客户端
type AnalyzeClient struct {
	endpoint   string
	httpClient *http.Client
}

// ClientOption 配置AnalyzeClient
type ClientOption func(*AnalyzeClient)

// WithHTTPClient 自定义http.Client
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *AnalyzeClient) { c.httpClient = h }
}

// WithTimeout 设置请求超时，默认不设
func WithTimeout(d time.Duration) ClientOption {
	return func(c *AnalyzeClient) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewAnalyzeClient 创建客户端
func NewAnalyzeClient(endpoint string, opts ...ClientOption) *AnalyzeClient {
	c := &AnalyzeClient{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint 返回后端地址
func (c *AnalyzeClient) Endpoint() string {
	return c.endpoint
}

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeErrorBody struct {
	Error string `json:"error"`
}

// Analyze POST {"query": ...}，不重试
func (c *AnalyzeClient) Analyze(ctx context.Context, query string) (*model.Result, error) {
	jsonBody, err := json.Marshal(analyzeRequest{Query: query})
	if err != nil {
		return nil, transportError(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var errBody analyzeErrorBody
		_ = json.Unmarshal(body, &errBody)

		msg := errBody.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}

	// body为null时result保持nil，表示没有结果
	var result *model.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &RequestError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to parse response: %v", err),
			Err:     err,
		}
	}
	return result, nil
}

func transportError(err error) *RequestError {
	msg := err.Error()
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return &RequestError{Message: msg, Err: err}
}
