package handlers

import (
	"encoding/json"
	"net/http"

	"dating-backend/internal/middleware"
	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles member search and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
	likeService *services.LikeService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, likeService *services.LikeService) *UserHandler {
	return &UserHandler{userService: userService, likeService: likeService}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	params := services.ListUsersParams{
		Gender:  r.URL.Query().Get("gender"),
		MinAge:  queryInt(r, "minAge"),
		MaxAge:  queryInt(r, "maxAge"),
		Likers:  queryBool(r, "likers"),
		Likees:  queryBool(r, "likees"),
		OrderBy: r.URL.Query().Get("orderBy"),
		Page:    pageParams(r),
	}

	page, err := h.userService.List(ctx, callerID, params)
	if err != nil {
		log.Error().Err(err).Int64("caller_id", callerID).Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}

	addPagination(w, page)
	respondJSON(w, http.StatusOK, page.Items)
}

// Get handles GET /api/users/{userId}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "userId")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{userId}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	id, err := urlID(r, "userId")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req services.UpdateUserParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.Update(ctx, callerID, id, req); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/users/{userId}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	id, err := urlID(r, "userId")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.userService.Delete(ctx, callerID, id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /api/users/{userId}/like/{recipientId}
func (h *UserHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)

	id, err := urlID(r, "userId")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	if id != callerID {
		respondError(w, "forbidden", http.StatusForbidden)
		return
	}

	recipientID, err := urlID(r, "recipientId")
	if err != nil {
		respondError(w, "Invalid recipient id", http.StatusBadRequest)
		return
	}

	if err := h.likeService.Like(ctx, callerID, recipientID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
