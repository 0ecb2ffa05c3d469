package handler

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"horizon-ai-go/internal/logger"
	"horizon-ai-go/internal/model"
	"horizon-ai-go/internal/page"
	"horizon-ai-go/internal/service"
)

// SessionCookie 会话cookie名
const SessionCookie = "hz_session"

// historyOnPage 页面上展示的历史条数
const historyOnPage = 5

// PageHandler 页面处理器
type PageHandler struct {
	service  *service.BriefingService
	sessions *page.Sessions
}

// NewPageHandler 创建处理器
func NewPageHandler(svc *service.BriefingService, sessions *page.Sessions) *PageHandler {
	return &PageHandler{service: svc, sessions: sessions}
}

// Index 渲染页面
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller(w, r)
	h.render(w, r, ctrl.Snapshot())
}

// Submit 提交表单，服务端完成请求后直接渲染结果
// POST /
// Form: query=xxx
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctrl := h.controller(w, r)
	ctrl.SetQuery(r.PostFormValue("query"))

	logger.Info("Submitting briefing query", zap.String("query", ctrl.Snapshot().Query))
	snap := ctrl.Submit(r.Context())

	h.render(w, r, snap)
}

func (h *PageHandler) controller(w http.ResponseWriter, r *http.Request) *page.Controller {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	newID, ctrl := h.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, snap model.Snapshot) {
	var buf bytes.Buffer
	if err := page.Render(&buf, snap, h.service.Recent(r.Context(), historyOnPage)); err != nil {
		logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
