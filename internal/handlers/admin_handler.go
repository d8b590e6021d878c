package handlers

import (
	"errors"
	"net/http"

	"spelldaily/internal/audio"
	"spelldaily/internal/models"
	"spelldaily/internal/repository"
	"spelldaily/internal/service"
)

// AdminHandler exposes the question set CRUD and the audio generation trigger.
// Every route is behind the RequireAdmin middleware.
type AdminHandler struct {
	sets  *service.QuestionSetService
	audio *audio.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sets *service.QuestionSetService, audioSvc *audio.Service) *AdminHandler {
	return &AdminHandler{sets: sets, audio: audioSvc}
}

// ListSets handles GET /v1/admin/sets.
func (h *AdminHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sets.List()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if summaries == nil {
		summaries = []models.QuestionSetSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sets": summaries})
}

// GetSet handles GET /v1/admin/sets/{code}.
func (h *AdminHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.sets.Get(r.PathValue("code"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// SaveSet handles PUT /v1/admin/sets/{code}. Validation problems reject the
// save; lint findings are returned as warnings alongside the saved set.
func (h *AdminHandler) SaveSet(w http.ResponseWriter, r *http.Request) {
	var set models.QuestionSet
	if err := decodeJSON(r, &set); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	set.Code = r.PathValue("code")

	warnings, err := h.sets.Save(&set)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}

	// Pre-generate audio in the background so the save returns immediately.
	go h.audio.EnsureAudio(set.Words)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":     set.Code,
		"warnings": warnings,
	})
}

// DeleteSet handles DELETE /v1/admin/sets/{code}.
func (h *AdminHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	if err := h.sets.Delete(r.PathValue("code")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateAudio handles POST /v1/admin/sets/{code}/audio, regenerating the
// pre-recorded files for a set's words.
func (h *AdminHandler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	set, err := h.sets.Get(r.PathValue("code"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Unknown code", nil)
			return
		}
		respondServiceError(w, err)
		return
	}

	h.audio.EnsureAudio(set.Words)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":  set.Code,
		"audio": h.audio.Manifest(set.Words),
	})
}
