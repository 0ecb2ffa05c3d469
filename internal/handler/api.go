package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"horizon-ai-go/internal/logger"
	"horizon-ai-go/internal/model"
	"horizon-ai-go/internal/page"
	"horizon-ai-go/internal/service"
	"horizon-ai-go/internal/sse"
)

const (
	defaultBriefingLimit = 10
	maxBriefingLimit     = 50
)

// APIHandler 给程序调用的接口
type APIHandler struct {
	service *service.BriefingService
}

// NewAPIHandler 创建处理器
func NewAPIHandler(svc *service.BriefingService) *APIHandler {
	return &APIHandler{service: svc}
}

// AnalyzeSSE 处理SSE分析请求
// POST /api/analyze/sse
// Body: {"query": "xxx"}
func (h *APIHandler) AnalyzeSSE(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest

	// 解析JSON请求体
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	// 创建SSE writer
	writer, err := sse.NewWriter(w)
	if err != nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	defer writer.Close()

	logger.Info("Starting SSE analysis", zap.String("query", req.Query))

	ctrl := h.service.NewController(page.WithObserver(func(s model.Snapshot) {
		if err := writer.SendSnapshot(s); err != nil {
			logger.Warn("Failed to write SSE event", zap.Error(err))
		}
	}))
	ctrl.SetQuery(req.Query)
	snap := ctrl.Submit(r.Context())

	logger.Info("SSE analysis completed", zap.String("query", req.Query), zap.String("status", snap.Status()))
}

// Briefings 最近的简报
// GET /api/briefings?limit=10
func (h *APIHandler) Briefings(w http.ResponseWriter, r *http.Request) {
	limit := defaultBriefingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxBriefingLimit)
	}

	items := h.service.Recent(r.Context(), limit)
	if items == nil {
		items = []model.Briefing{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"briefings": items}); err != nil {
		logger.Error("Failed to encode briefings", zap.Error(err))
	}
}

// Health 健康检查
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
