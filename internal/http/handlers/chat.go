package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
	handlerLogger := log.With("handler", "ChatHandler")
	return &ChatHandler{log: handlerLogger, chatService: chatService}
}

// POST /supervisions/:id/messages
func (h *ChatHandler) Send(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	msg, err := h.chatService.Send(c.Request.Context(), supervisionID, req.Message)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}

// GET /supervisions/:id/messages
func (h *ChatHandler) List(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var after *uuid.UUID
	if raw := c.Query("after"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		after = &id
	}
	msgs, err := h.chatService.List(c.Request.Context(), supervisionID, after)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}
