package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/birddog/teddy/internal/chat"
	"github.com/birddog/teddy/pkg/logger"
)

// ChatService is what the handler needs from the chat layer.
type ChatService interface {
	SendMessage(ctx context.Context, req chat.Request) (*chat.Response, error)
	History(conversationID string) (*chat.Conversation, bool)
	DeleteConversation(conversationID string) bool
}

// ChatHandler serves the conversational endpoints, including the
// websocket transport.
type ChatHandler struct {
	service  ChatService
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(service ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Demo mode serves browser clients from any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// SendMessage processes one chat turn.
// POST /api/chat/message
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.SendMessage(r.Context(), req)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			respondError(w, http.StatusBadRequest, "Message is required")
			return
		}
		h.logger.WithError(err).Error("Chat message failed")
		respondError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetHistory returns a stored conversation.
// GET /api/chat/history/{conversationID}
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["conversationID"]

	conv, ok := h.service.History(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	respondJSON(w, http.StatusOK, conv)
}

// DeleteConversation removes a conversation.
// DELETE /api/chat/conversation/{conversationID}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["conversationID"]

	if !h.service.DeleteConversation(id) {
		respondError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Conversation deleted successfully",
	})
}

// wsError is sent to websocket clients when a turn fails.
type wsError struct {
	Error string `json:"error"`
}

// WebSocket streams chat turns over one connection. Each inbound JSON
// frame is a chat.Request; each outbound frame is a chat.Response.
// GET /api/chat/ws
func (h *ChatHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var req chat.Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("WebSocket closed unexpectedly")
			}
			return
		}

		resp, err := h.service.SendMessage(r.Context(), req)
		if err != nil {
			msg := "Failed to process message"
			if errors.Is(err, chat.ErrEmptyMessage) {
				msg = "Message is required"
			}
			if err := conn.WriteJSON(wsError{Error: msg}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
