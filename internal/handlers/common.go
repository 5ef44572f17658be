package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dating-backend/internal/apperr"
	"dating-backend/internal/pagination"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondServiceError maps the apperr taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		respondError(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperr.ErrForbidden):
		respondError(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, apperr.ErrAlreadyLiked):
		respondError(w, "you have already liked this user", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrAlreadyMain):
		respondError(w, "this is already the main photo", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrMainPhoto):
		respondError(w, "you cannot delete your main photo", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrUsernameTaken):
		respondError(w, "username already taken", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrInvalidInput):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrStorageUnavailable):
		respondError(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}

// paginationHeader mirrors the page metadata into the X-Pagination
// response header so clients can page without parsing the body shape.
type paginationHeader struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

func addPagination[T any](w http.ResponseWriter, page pagination.Page[T]) {
	header, err := json.Marshal(paginationHeader{
		CurrentPage:  page.CurrentPage,
		ItemsPerPage: page.PageSize,
		TotalItems:   page.TotalCount,
		TotalPages:   page.TotalPages,
	})
	if err != nil {
		return
	}
	w.Header().Set("X-Pagination", string(header))
}

// urlID parses a numeric id from a chi route param.
func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// queryInt parses an optional integer query parameter, 0 when absent.
func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// pageParams reads pageNumber/pageSize from the query string.
func pageParams(r *http.Request) pagination.Params {
	return pagination.Params{
		PageNumber: queryInt(r, "pageNumber"),
		PageSize:   queryInt(r, "pageSize"),
	}
}
