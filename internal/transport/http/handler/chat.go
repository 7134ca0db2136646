package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ipodeck/internal/app"
	"ipodeck/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatMessageRequest struct {
	Message        string `json:"message" binding:"required"`
	AnalysisID     string `json:"analysis_id" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.Send(c.Request.Context(), app.SendMessageInput{
		AnalysisID:     req.AnalysisID,
		ConversationID: req.ConversationID,
		Content:        req.Message,
	})
	if err != nil {
		writeChatError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ChatHandler) StreamMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "stream not supported")
		return
	}

	result, err := h.chatService.Stream(c.Request.Context(), app.SendMessageInput{
		AnalysisID:     req.AnalysisID,
		ConversationID: req.ConversationID,
		Content:        req.Message,
	}, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte("data: " + sanitizeSSE(chunk) + "\n\n")); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if _, writeErr := c.Writer.Write([]byte(fmt.Sprintf("event: error\ndata: %s\n\n", sanitizeSSE(err.Error())))); writeErr == nil {
			flusher.Flush()
		}
		return
	}

	if _, writeErr := c.Writer.Write([]byte("event: done\ndata: " + sanitizeSSE(result.Content) + "\n\n")); writeErr == nil {
		flusher.Flush()
	}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	analysisID := c.Query("analysis_id")
	if analysisID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing analysis_id")
		return
	}

	summaries, err := h.chatService.ListConversations(analysisID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAnalysisNotFound):
			response.Error(c, http.StatusNotFound, response.CodeAnalysisNotFound, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		}
		return
	}

	response.OK(c, summaries)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	conversationID := c.Query("conversation_id")
	if conversationID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing conversation_id")
		return
	}

	history, err := h.chatService.History(c.Request.Context(), conversationID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		}
		return
	}

	response.OK(c, history)
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrMessageEmpty), errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, app.ErrModelCall):
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailure, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
	}
}

func sanitizeSSE(input string) string {
	replaced := strings.ReplaceAll(input, "\r\n", "\\n")
	replaced = strings.ReplaceAll(replaced, "\n", "\\n")
	return replaced
}
