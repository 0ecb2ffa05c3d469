package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAnalyzeURL 本地分析后端
const DefaultAnalyzeURL = "http://localhost:3001/analyze"

// Config 应用配置
type Config struct {
	Port           string
	AnalyzeURL     string
	AnalyzeTimeout time.Duration // 0 表示不设超时
	DatabaseURL    string
	RedisURL       string
	HistorySize    int
	SessionTTL     time.Duration
	LogLevel       string
	CORSOrigins    []string
}

// Load 从环境变量加载配置
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		AnalyzeURL:     getEnv("ANALYZE_URL", DefaultAnalyzeURL),
		AnalyzeTimeout: getDuration("ANALYZE_TIMEOUT", 0),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		HistorySize:    getInt("HISTORY_SIZE", 20),
		SessionTTL:     getDuration("SESSION_TTL", 30*time.Minute),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

// getDuration 支持 "90s" 这种格式，也支持纯数字（秒）
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
