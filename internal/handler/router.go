package handler

import (
	"net/http"

	"horizon-ai-go/internal/middleware"
)

// NewRouter 注册所有路由
func NewRouter(pageHandler *PageHandler, apiHandler *APIHandler, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)

	// 页面
	mux.HandleFunc("GET /{$}", pageHandler.Index)
	mux.HandleFunc("POST /{$}", pageHandler.Submit)

	// API
	mux.HandleFunc("POST /api/analyze/sse", apiHandler.AnalyzeSSE)
	mux.HandleFunc("GET /api/briefings", apiHandler.Briefings)

	return middleware.WithLogging(middleware.CORS(corsOrigins)(mux))
}
