package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mylife/backend/internal/model/dialog"
	chatService "github.com/zhouzirui/mylife/backend/internal/service/chat"
	"github.com/zhouzirui/mylife/backend/pkg/utils"
)

// Handler 对话服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建对话处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Post("/sessions/{sessionID}/messages", h.handleSendMessage)
}

type replyResponse struct {
	SessionID string       `json:"sessionId"`
	Reply     dialog.Reply `json:"reply"`
}

// handleCreateSession 创建会话并返回主菜单
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, reply := h.chatSvc.CreateSession(r.Context())
	utils.RespondJSON(w, http.StatusCreated, replyResponse{SessionID: session.ID, Reply: reply})
}

// handleGetSession 查询会话当前状态
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

// handleSendMessage 处理用户输入并返回下一条提示
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatSvc.Send(r.Context(), sessionID, payload.Text)
	switch {
	case errors.Is(err, chatService.ErrEmptyText):
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, replyResponse{SessionID: sessionID, Reply: reply})
}
