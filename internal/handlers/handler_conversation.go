package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/middleware"
)

// conversationHandler handles the assistant chat and conversation history.
type conversationHandler struct {
	conversationService portssvc.ConversationSvcFacade
}

func newConversationHandler(cs portssvc.ConversationSvcFacade) *conversationHandler {
	return &conversationHandler{conversationService: cs}
}

// registerConversationRoutes registers chat routes nested under a company.
func registerConversationRoutes(rg *gin.RouterGroup, conversationService portssvc.ConversationSvcFacade) {
	h := newConversationHandler(conversationService)

	rg.POST("/chat", h.chat)

	conversations := rg.Group("/conversations")
	{
		conversations.GET("", h.listConversations)
		conversations.GET("/:conversation_id/messages", h.listMessages)
	}
}

// sendSSE writes one server-sent event carrying the JSON encoded payload.
func sendSSE(w http.ResponseWriter, flusher http.Flusher, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// chat godoc
// @Summary Chat with the assistant
// @Description Sends a message and streams the assistant reply as server-sent
// @Description events. Each event carries a delta chunk; the final event has
// @Description done set and names the conversation.
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param company_id path string true "Company ID"
// @Param chat body dto.ChatRequest true "Message and optional conversation"
// @Success 200 {object} dto.ChatEvent
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/chat [post]
func (h *conversationHandler) chat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	onDelta := func(delta string) error {
		return sendSSE(c.Writer, flusher, dto.ChatEvent{Delta: delta})
	}

	conversation, err := h.conversationService.Chat(c.Request.Context(), companyID, userID, req, onDelta)
	if err != nil {
		// Headers are already out, so the error travels as a final event.
		logger.Error("Chat failed", "error", err.Error())
		_ = sendSSE(c.Writer, flusher, gin.H{"error": "Chat failed", "done": true})
		return
	}

	_ = sendSSE(c.Writer, flusher, dto.ChatEvent{
		ConversationID: conversation.ConversationID,
		Done:           true,
	})
}

// listConversations godoc
// @Summary List the caller's conversations
// @Tags chat
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {array} dto.ConversationResponse
// @Security BearerAuth
// @Router /companies/{company_id}/conversations [get]
func (h *conversationHandler) listConversations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	conversations, err := h.conversationService.ListConversations(c.Request.Context(), companyID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, dto.ToConversationResponses(conversations))
}

// listMessages godoc
// @Summary List the messages of a conversation
// @Tags chat
// @Produce json
// @Param company_id path string true "Company ID"
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {array} dto.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/conversations/{conversation_id}/messages [get]
func (h *conversationHandler) listMessages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	conversationID := c.Param("conversation_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	messages, err := h.conversationService.ListMessages(c.Request.Context(), companyID, conversationID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list messages")
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageResponses(messages))
}
