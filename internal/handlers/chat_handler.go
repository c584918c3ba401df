// File: internal/handlers/chat_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-chatnest/internal/dtos"
	"github.com/iyunix/go-chatnest/internal/services/chat"
)

type ChatHandler struct {
	chats  chat.Orchestrator
	logger Logger
}

func NewChatHandler(chats chat.Orchestrator, logger Logger) *ChatHandler {
	return &ChatHandler{chats: chats, logger: logger}
}

// GetUserChats handles GET /api/chats.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	chats, err := h.chats.ListChats(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "list_chats", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToChatResponseDTOs(chats))
}

// CreateChat handles POST /api/chats.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	created, err := h.chats.CreateChat(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "create_chat", err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.ToChatResponseDTO(created))
}

// DeleteChat handles DELETE /api/chats/{id}.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := parseChatID(w, r)
	if !ok {
		return
	}

	if err := h.chats.DeleteChat(r.Context(), userID, chatID); err != nil {
		respondError(w, r, h.logger, "delete_chat", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.MessageDTO{Message: "Chat deleted successfully"})
}

// GetChatMessages handles GET /api/chats/{id}/messages.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := parseChatID(w, r)
	if !ok {
		return
	}

	messages, err := h.chats.ListMessages(r.Context(), userID, chatID)
	if err != nil {
		respondError(w, r, h.logger, "list_messages", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToMessageResponseDTOs(messages))
}

// HandleChatMessage handles POST /api/chats/{id}/messages and responds with
// the assistant's reply.
func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := parseChatID(w, r)
	if !ok {
		return
	}

	var req dtos.SendMessageRequestDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondError(w, r, h.logger, "send_message", err)
		return
	}

	reply, err := h.chats.SendMessage(r.Context(), chat.SendMessageRequest{
		ChatID:        chatID,
		UserID:        userID,
		Content:       req.Message,
		Model:         req.Model,
		AttachmentIDs: req.AttachmentIDs,
	})
	if err != nil {
		respondError(w, r, h.logger, "send_message", err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ToMessageResponseDTO(reply))
}

func parseChatID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	chatID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || chatID == 0 {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(chatID), true
}
