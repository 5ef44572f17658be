package handlers

import (
	"encoding/json"
	"net/http"

	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Get handles GET /api/users/{userId}/photos/{id}
func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

type presignRequest struct {
	ContentType string `json:"content_type"`
}

// PresignUpload handles POST /api/users/{userId}/photos/upload
func (h *PhotoHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	upload, err := h.photoService.PresignUpload(r.Context(), userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to presign upload")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, upload)
}

type addPhotoRequest struct {
	URL      string  `json:"url"`
	PublicID *string `json:"public_id"`
}

// Add handles POST /api/users/{userId}/photos
func (h *PhotoHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	var req addPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.Add(r.Context(), userID, req.URL, req.PublicID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to add photo")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, photo)
}

// SetMain handles POST /api/users/{userId}/photos/{id}/setMain
func (h *PhotoHandler) SetMain(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	if err := h.photoService.SetMain(r.Context(), userID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/users/{userId}/photos/{id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := routeUserID(w, r)
	if !ok {
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		respondError(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	if err := h.photoService.Delete(r.Context(), userID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
