package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"horizon-ai-go/internal/model"
)

// HeartbeatInterval 心跳间隔
var HeartbeatInterval = 15 * time.Second

// Event 推送给客户端的消息
type Event struct {
	Status string        `json:"status"` // loading/completed/error/heartbeat
	Query  string        `json:"query,omitempty"`
	Result *model.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// ErrClosed Close之后不能再写
var ErrClosed = errors.New("sse writer closed")

// Writer SSE写入器
type Writer struct {
	w         http.ResponseWriter
	flusher   http.Flusher
	mu        sync.Mutex
	last      Event
	closed    bool
	stopHeart chan struct{}
	heartDone chan struct{}
	stopOnce  sync.Once
}

// NewWriter 设置SSE头并启动心跳
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writer := &Writer{
		w:         w,
		flusher:   flusher,
		last:      Event{Status: "idle"},
		stopHeart: make(chan struct{}),
		heartDone: make(chan struct{}),
	}

	go writer.heartbeat()

	return writer, nil
}

// heartbeat 定期发送心跳保持连接
func (s *Writer) heartbeat() {
	defer close(s.heartDone)
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			// ticker和stop同时就绪时select可能选中ticker
			if !s.closed {
				s.writeLocked(Event{Status: "heartbeat", Query: s.last.Query})
			}
			s.mu.Unlock()
		case <-s.stopHeart:
			return
		}
	}
}

// Close 停止心跳并等待其退出，返回后不会再写response，可重复调用
func (s *Writer) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stopHeart) })
	<-s.heartDone
}

// SendSnapshot 推送一次状态
func (s *Writer) SendSnapshot(snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.last = Event{
		Status: snap.Status(),
		Query:  snap.Query,
		Result: snap.Result,
		Error:  snap.Error,
	}
	return s.writeLocked(s.last)
}

func (s *Writer) writeLocked(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
