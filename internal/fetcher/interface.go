package fetcher

import (
	"context"

	"horizon-ai-go/internal/model"
)

// Analyzer 分析后端客户端
type Analyzer interface {
	Analyze(ctx context.Context, query string) (*model.Result, error)
}

// AnalyzerFunc 函数适配器，方便测试
type AnalyzerFunc func(ctx context.Context, query string) (*model.Result, error)

// Analyze 调用函数本身
func (f AnalyzerFunc) Analyze(ctx context.Context, query string) (*model.Result, error) {
	return f(ctx, query)
}
