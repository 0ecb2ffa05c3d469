package page

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"horizon-ai-go/internal/logger"
)

// ControllerFactory 为新会话创建控制器
type ControllerFactory func() *Controller

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Sessions 浏览器会话 -> 页面控制器
type Sessions struct {
	factory ControllerFactory
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

// NewSessions 创建会话存储，ttl<=0 表示不过期
func NewSessions(factory ControllerFactory, ttl time.Duration) *Sessions {
	return &Sessions{
		factory:  factory,
		ttl:      ttl,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Get 获取会话控制器，id为空或不存在时创建新会话并返回新id
func (s *Sessions) Get(id string) (string, *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.sessions[id]; ok && !s.expiredLocked(sess) {
			sess.lastSeen = s.now()
			return id, sess.controller
		}
	}

	id = uuid.NewString()
	sess := &session{controller: s.factory(), lastSeen: s.now()}
	s.sessions[id] = sess
	return id, sess.controller
}

// Len 当前会话数
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) expiredLocked(sess *session) bool {
	if s.ttl <= 0 {
		return false
	}
	// 请求进行中的会话不回收
	if sess.controller.Snapshot().Loading() {
		return false
	}
	return s.now().Sub(sess.lastSeen) > s.ttl
}

// Evict 清理过期会话
func (s *Sessions) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if s.expiredLocked(sess) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunJanitor 定期清理过期会话，ctx结束时退出
func (s *Sessions) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				logger.Debug("Evicted idle sessions", zap.Int("count", n), zap.Int("active", s.Len()))
			}
		case <-ctx.Done():
			return
		}
	}
}
