package model

import "time"

// RequestState 页面请求状态
type RequestState string

const (
	StateIdle    RequestState = "idle"
	StateLoading RequestState = "loading"
)

// Result 分析结果，三个字段都是可选的
type Result struct {
	Summary  string `json:"summary,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Snapshot 页面状态快照，Result和Error互斥
type Snapshot struct {
	Query  string       `json:"query"`
	State  RequestState `json:"state"`
	Result *Result      `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Loading 是否正在请求
func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// Status SSE状态: loading/completed/error/idle
func (s Snapshot) Status() string {
	switch {
	case s.Loading():
		return "loading"
	case s.Error != "":
		return "error"
	case s.Result != nil:
		return "completed"
	default:
		return "idle"
	}
}

// Briefing 历史记录
type Briefing struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Succeeded 是否成功
func (b Briefing) Succeeded() bool {
	return b.Error == ""
}
