package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/logger"
	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatSessionRequest struct {
	Title string `json:"title" example:"조리원 상담"`
}

type ChatMessageRequest struct {
	Text string `json:"text" example:"근처 산후조리원 추천해줘"`
}

type ChatSessionsResponse struct {
	Sessions []models.ChatSession `json:"sessions"`
}

type ChatMessagesResponse struct {
	Session  models.ChatSession   `json:"session"`
	Messages []models.ChatMessage `json:"messages"`
}

// ListChatSessions godoc
// @Summary      채팅 세션 목록
// @Description  사용자의 채팅 세션을 최근 대화순으로 반환합니다.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.ChatSessionsResponse
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Router       /api/chat/sessions [get]
func (h *Handler) ListChatSessions(c *gin.Context) {
	c.JSON(http.StatusOK, ChatSessionsResponse{Sessions: h.db.ListChatSessions(c.GetString("user_id"))})
}

// CreateChatSession godoc
// @Summary      채팅 세션 생성
// @Description  새 채팅 세션을 만듭니다. 제목이 없으면 첫 질문으로 정해집니다.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.ChatSessionRequest false "세션 제목"
// @Success      201 {object} models.ChatSession
// @Failure      401 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /api/chat/sessions [post]
func (h *Handler) CreateChatSession(c *gin.Context) {
	var req ChatSessionRequest
	// 바디 없이 호출해도 된다
	_ = c.ShouldBindJSON(&req)

	cs, err := h.db.CreateChatSession(c.GetString("user_id"), req.Title)
	if err != nil {
		logger.FromGin(c).Error("CreateChatSession(): failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat session"})
		return
	}
	c.JSON(http.StatusCreated, cs)
}

// RenameChatSession godoc
// @Summary      채팅 세션 이름 변경
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "세션 ID"
// @Param        request body handler.ChatSessionRequest true "새 제목"
// @Success      200 {object} models.ChatSession
// @Failure      400 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/chat/sessions/{id} [patch]
func (h *Handler) RenameChatSession(c *gin.Context) {
	var req ChatSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	cs, err := h.db.RenameChatSession(c.GetString("user_id"), c.Param("id"), req.Title)
	if err != nil {
		h.chatStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

// DeleteChatSession godoc
// @Summary      채팅 세션 삭제
// @Description  세션과 세션의 메시지를 모두 지웁니다.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "세션 ID"
// @Success      200 {object} handler.SuccessResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/chat/sessions/{id} [delete]
func (h *Handler) DeleteChatSession(c *gin.Context) {
	if err := h.db.DeleteChatSession(c.GetString("user_id"), c.Param("id")); err != nil {
		h.chatStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Chat session deleted"})
}

// GetChatMessages godoc
// @Summary      채팅 메시지 조회
// @Description  세션의 메시지를 저장 순서대로 반환합니다. 카드 메시지는 kind와 payload를 가집니다.
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "세션 ID"
// @Success      200 {object} handler.ChatMessagesResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/chat/sessions/{id}/messages [get]
func (h *Handler) GetChatMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	cs, err := h.db.GetChatSession(userID, c.Param("id"))
	if err != nil {
		h.chatStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatMessagesResponse{Session: cs, Messages: h.db.LoadMessages(userID, cs.ID)})
}

// PostChatMessage godoc
// @Summary      챗봇에게 메시지 보내기 (NDJSON 스트림)
// @Description  사용자 메시지를 저장하고 챗봇 서버 이벤트를 한 줄에 하나씩 JSON으로 중계합니다.
// @Description  이벤트 type: decision, start, token, message, suggestions, action, card, error, end, done
// @Tags         Chat
// @Accept       json
// @Produce      application/x-ndjson
// @Security     BearerAuth
// @Param        id      path string                     true "세션 ID"
// @Param        request body handler.ChatMessageRequest true "사용자 메시지"
// @Success      200 {object} llm.ChatEvent "줄 단위 이벤트 스트림"
// @Failure      400 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/chat/sessions/{id}/messages [post]
func (h *Handler) PostChatMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	sessionID := c.Param("id")

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyMessage.Error()})
		return
	}
	if _, err := h.db.GetChatSession(userID, sessionID); err != nil {
		h.chatStorageError(c, err)
		return
	}

	c.Header("Content-Type", "application/x-ndjson; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	emit := func(ev llm.ChatEvent) error {
		ev.SessionID = sessionID
		if err := enc.Encode(ev); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	if err := h.processChatTurn(c.Request.Context(), userID, sessionID, req.Text, emit); err != nil {
		logger.FromGin(c).Warn("PostChatMessage(): turn ended with error", zap.Error(err))
	}
}

func (h *Handler) chatStorageError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
		return
	}
	logger.FromGin(c).Error("chat storage error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
