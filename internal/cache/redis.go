package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"horizon-ai-go/internal/model"
)

const historyKey = "horizon:briefings"

// RedisHistory Redis实现，一个list，LPUSH + LTRIM
type RedisHistory struct {
	rdb  *redis.Client
	key  string
	size int64
}

// NewRedisHistory 解析URL并连接
func NewRedisHistory(ctx context.Context, url string, size int) (*RedisHistory, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisHistoryWithClient(rdb, historyKey, size), nil
}

// NewRedisHistoryWithClient 使用已有客户端
func NewRedisHistoryWithClient(rdb *redis.Client, key string, size int) *RedisHistory {
	if size <= 0 {
		size = 20
	}
	return &RedisHistory{rdb: rdb, key: key, size: int64(size)}
}

// Record 写入一条记录
func (h *RedisHistory) Record(ctx context.Context, b model.Briefing) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	pipe := h.rdb.TxPipeline()
	pipe.LPush(ctx, h.key, data)
	pipe.LTrim(ctx, h.key, 0, h.size-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent 最新的在前
func (h *RedisHistory) Recent(ctx context.Context, n int) ([]model.Briefing, error) {
	if n <= 0 || int64(n) > h.size {
		n = int(h.size)
	}
	raw, err := h.rdb.LRange(ctx, h.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]model.Briefing, 0, len(raw))
	for _, item := range raw {
		var b model.Briefing
		if err := json.Unmarshal([]byte(item), &b); err != nil {
			// 坏数据跳过
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Close 关闭连接
func (h *RedisHistory) Close() error {
	return h.rdb.Close()
}
