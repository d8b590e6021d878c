package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"spelldaily/internal/game"
	"spelldaily/internal/repository"
	"spelldaily/internal/service"
)

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError writes a JSON error body and logs the underlying error.
func respondError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	respondJSON(w, status, map[string]string{"error": userMsg})
}

// respondServiceError maps the known service and game errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "Unknown code", nil)
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "Session not found", nil)
	case errors.Is(err, game.ErrSessionCompleted),
		errors.Is(err, game.ErrAlreadyAnswered),
		errors.Is(err, game.ErrNotAnswered),
		errors.Is(err, game.ErrNotCelebrating),
		errors.Is(err, game.ErrNoFailedWords):
		respondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, game.ErrNoQuestions),
		errors.Is(err, game.ErrMissingContent):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidQuestionSet):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials", nil)
	default:
		respondError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// decodeJSON decodes a request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
