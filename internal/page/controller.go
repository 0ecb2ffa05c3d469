package page

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"horizon-ai-go/internal/fetcher"
	"horizon-ai-go/internal/logger"
	"horizon-ai-go/internal/model"
)

// Observer 每次状态变化时回调（loading 一次，结果一次）
type Observer func(model.Snapshot)

// Controller 页面控制器
// 状态机: idle -> loading -> idle(有结果) / idle(有错误)
type Controller struct {
	client fetcher.Analyzer

	mu        sync.Mutex
	query     string
	state     model.RequestState
	result    *model.Result
	errMsg    string
	observers []Observer
}

// Option 配置Controller
type Option func(*Controller)

// WithObserver 注册状态观察者
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// NewController 创建控制器，初始状态 idle，无结果无错误
func NewController(client fetcher.Analyzer, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		state:  model.StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetQuery 更新输入框内容，loading 时输入框是禁用的
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == model.StateLoading {
		return
	}
	c.query = q
}

// Snapshot 当前状态
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() model.Snapshot {
	s := model.Snapshot{
		Query: c.query,
		State: c.state,
		Error: c.errMsg,
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	return s
}

// Submit 提交当前query
// loading 时直接返回当前状态；网络请求期间不持有锁
func (c *Controller) Submit(ctx context.Context) model.Snapshot {
	c.mu.Lock()
	if c.state == model.StateLoading {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s
	}
	c.state = model.StateLoading
	c.result = nil
	c.errMsg = ""
	query := c.query
	loading := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(loading)

	result, err := c.client.Analyze(ctx, query)

	c.mu.Lock()
	if err != nil {
		logger.Error("Error fetching data from backend", zap.String("query", query), zap.Error(err))
		c.errMsg = errorMessage(err)
	} else {
		// result为nil时既不显示结果也不显示错误
		c.result = result
	}
	c.state = model.StateIdle
	done := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(done)
	return done
}

func (c *Controller) notify(s model.Snapshot) {
	for _, o := range c.observers {
		o(s)
	}
}

// errorMessage 按优先级取错误信息
func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fetcher.UnknownErrorMessage
}
