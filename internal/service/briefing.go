package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"horizon-ai-go/internal/cache"
	"horizon-ai-go/internal/fetcher"
	"horizon-ai-go/internal/logger"
	"horizon-ai-go/internal/model"
	"horizon-ai-go/internal/page"
)

// recordTimeout 写历史的超时，和分析请求无关
const recordTimeout = 5 * time.Second

// BriefingService 创建页面控制器，并把每次完成的结果写入历史
type BriefingService struct {
	analyzer fetcher.Analyzer
	history  cache.History
	now      func() time.Time
}

// NewBriefingService history可以为nil（不记录）
func NewBriefingService(analyzer fetcher.Analyzer, history cache.History) *BriefingService {
	return &BriefingService{
		analyzer: analyzer,
		history:  history,
		now:      time.Now,
	}
}

// NewController 创建挂好历史记录的控制器
func (s *BriefingService) NewController(opts ...page.Option) *page.Controller {
	opts = append([]page.Option{page.WithObserver(s.record)}, opts...)
	return page.NewController(s.analyzer, opts...)
}

// Recent 最近的简报，出错时只记日志
func (s *BriefingService) Recent(ctx context.Context, n int) []model.Briefing {
	if s.history == nil {
		return nil
	}
	items, err := s.history.Recent(ctx, n)
	if err != nil {
		logger.Warn("Failed to load briefing history", zap.Error(err))
		return nil
	}
	return items
}

func (s *BriefingService) record(snap model.Snapshot) {
	if s.history == nil || snap.Loading() {
		return
	}

	b := model.Briefing{
		ID:        uuid.NewString(),
		Query:     snap.Query,
		Result:    snap.Result,
		Error:     snap.Error,
		CreatedAt: s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.history.Record(ctx, b); err != nil {
		logger.Warn("Failed to record briefing", zap.String("query", b.Query), zap.Error(err))
		return
	}
	logger.Debug("Briefing recorded", zap.String("id", b.ID), zap.Bool("ok", b.Succeeded()))
}
