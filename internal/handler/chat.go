package handler

import (
	"errors"
	"net/http"

	"mobility/internal/model"
	"mobility/internal/repository"
	"mobility/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat question HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.chatService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		// Render and store failures are internal; the error text
		// carries the rendered SQL for store failures.
		switch {
		case errors.Is(err, service.ErrTemplateRender),
			errors.Is(err, service.ErrSlotValidation),
			errors.Is(err, repository.ErrQueryExecution):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}
