package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/lib/pq"

	"horizon-ai-go/internal/model"
)

// History 简报历史接口
type History interface {
	Record(ctx context.Context, b model.Briefing) error
	Recent(ctx context.Context, n int) ([]model.Briefing, error)
}

// MemoryHistory 内存实现（单机部署或测试），固定容量的环
type MemoryHistory struct {
	mu    sync.RWMutex
	items []model.Briefing
	next  int
	full  bool
}

// NewMemoryHistory 创建内存历史
func NewMemoryHistory(size int) *MemoryHistory {
	if size <= 0 {
		size = 20
	}
	return &MemoryHistory{items: make([]model.Briefing, size)}
}

// Record 写入一条记录，满了覆盖最旧的
func (h *MemoryHistory) Record(ctx context.Context, b model.Briefing) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items[h.next] = b
	h.next = (h.next + 1) % len(h.items)
	if h.next == 0 {
		h.full = true
	}
	return nil
}

// Recent 最新的在前
func (h *MemoryHistory) Recent(ctx context.Context, n int) ([]model.Briefing, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := h.next
	if h.full {
		count = len(h.items)
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]model.Briefing, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.items)) % len(h.items)
		out = append(out, h.items[idx])
	}
	return out, nil
}

// PostgresHistory PostgreSQL实现
type PostgresHistory struct {
	db *sql.DB
}

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS briefing_history (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	result JSONB,
	error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_briefing_history_created_at ON briefing_history (created_at DESC);
`

// NewPostgresHistory 连接数据库并建表
func NewPostgresHistory(databaseURL string) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(createHistoryTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create briefing_history: %w", err)
	}

	return &PostgresHistory{db: db}, nil
}

// Record 写入一条记录
func (h *PostgresHistory) Record(ctx context.Context, b model.Briefing) error {
	var resultJSON []byte
	if b.Result != nil {
		var err error
		resultJSON, err = json.Marshal(b.Result)
		if err != nil {
			return err
		}
	}

	query := `
	INSERT INTO briefing_history (id, query, result, error, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO NOTHING
	`
	_, err := h.db.ExecContext(ctx, query, b.ID, b.Query, nullableJSON(resultJSON), b.Error, b.CreatedAt)
	return err
}

// Recent 最新的在前
func (h *PostgresHistory) Recent(ctx context.Context, n int) ([]model.Briefing, error) {
	query := `
	SELECT id, query, result, error, created_at
	FROM briefing_history
	ORDER BY created_at DESC
	LIMIT $1
	`
	rows, err := h.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Briefing
	for rows.Next() {
		var b model.Briefing
		var resultJSON []byte
		if err := rows.Scan(&b.ID, &b.Query, &resultJSON, &b.Error, &b.CreatedAt); err != nil {
			return nil, err
		}
		if len(resultJSON) > 0 {
			b.Result = &model.Result{}
			if err := json.Unmarshal(resultJSON, b.Result); err != nil {
				return nil, err
			}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Close 关闭数据库连接
func (h *PostgresHistory) Close() error {
	return h.db.Close()
}

func nullableJSON(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return string(b)
}
