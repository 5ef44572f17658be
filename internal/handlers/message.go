package handlers

import (
	"encoding/json"
	"net/http"

	"dating-backend/internal/middleware"
	"dating-backend/internal/repository"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MessageHandler handles private-message HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// routeUserID checks that the {userId} route segment matches the
// authenticated caller and returns it.
func routeUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := urlID(r, "userId")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return 0, false
	}
	if userID != middleware.GetUserID(r.Context()) {
		respondError(w, "forbidden", http.StatusForbidden)
		return 0, false
	}
	return userID, true
}

// List handles GET /api/users/{userId}/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	container := repository.Container(r.URL.Query().Get("container"))
	page, err := h.messageService.List(r.Context(), userID, container, pageParams(r))
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list messages")
		respondServiceError(w, err)
		return
	}

	addPagination(w, page)
	respondJSON(w, http.StatusOK, page.Items)
}

// Get handles GET /api/users/{userId}/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Get(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

// Thread handles GET /api/users/{userId}/messages/thread/{recipientId}
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	recipientID, err := urlID(r, "recipientId")
	if err != nil {
		respondError(w, "Invalid recipient id", http.StatusBadRequest)
		return
	}

	messages, err := h.messageService.Thread(r.Context(), userID, recipientID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get thread")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

type createMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
}

// Create handles POST /api/users/{userId}/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(r.Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// Delete handles POST /api/users/{userId}/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.messageService.DeleteFor(r.Context(), userID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkRead handles POST /api/users/{userId}/messages/{id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.messageService.MarkRead(r.Context(), userID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
