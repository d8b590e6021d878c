package handlers

import (
	"errors"
	"net/http"

	"spelldaily/internal/audio"
	"spelldaily/internal/game"
	"spelldaily/internal/repository"
	"spelldaily/internal/service"
)

// GameHandler exposes the session lifecycle over a JSON API: starting a
// session by code, answering, advancing, timeouts, keystroke beacons and the
// post-completion review modes.
type GameHandler struct {
	sessions *service.SessionService
	sets     *service.QuestionSetService
	audio    *audio.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(sessions *service.SessionService, sets *service.QuestionSetService, audioSvc *audio.Service) *GameHandler {
	return &GameHandler{sessions: sessions, sets: sets, audio: audioSvc}
}

// StartSession handles POST /v1/sessions.
func (h *GameHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "Code is required", nil)
		return
	}

	state, err := h.sessions.Start(req.Code)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Test not active", nil)
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, state)
}

// GetState handles GET /v1/sessions/{id}.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.State(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// SubmitAnswer handles POST /v1/sessions/{id}/answer.
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Typed        string   `json:"typed"`
		Option       string   `json:"option"`
		Parts        []string `json:"parts"`
		TimeTakenSec int      `json:"timeTaken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sub := game.Submission{Typed: req.Typed, Option: req.Option, Parts: req.Parts}
	state, err := h.sessions.Submit(r.PathValue("id"), sub, req.TimeTakenSec)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Continue handles POST /v1/sessions/{id}/continue.
func (h *GameHandler) Continue(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Continue(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// CelebrationDone handles POST /v1/sessions/{id}/celebration-done.
func (h *GameHandler) CelebrationDone(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.CelebrationDone(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Timeout handles POST /v1/sessions/{id}/timeout, the client-reported expiry
// of the full-typing timer with whatever the player had typed.
func (h *GameHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Typed string `json:"typed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.sessions.Timeout(r.PathValue("id"), req.Typed)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// StartReview handles POST /v1/sessions/{id}/review. An empty word list means
// the session's failed words.
func (h *GameHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Words []string `json:"words"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.sessions.StartReview(r.PathValue("id"), req.Words)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// StartPractice handles POST /v1/sessions/{id}/practice, the multiple-choice
// drill over the failed words.
func (h *GameHandler) StartPractice(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.StartChoicePractice(r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// RecordBackspace handles POST /v1/sessions/{id}/backspace.
func (h *GameHandler) RecordBackspace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.sessions.RecordBackspace(r.PathValue("id"), req.Value); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordSpeakerClick handles POST /v1/sessions/{id}/speaker-click.
func (h *GameHandler) RecordSpeakerClick(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RecordSpeakerClick(r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveProgress handles POST /v1/sessions/{id}/save, sent from the page unload
// handler. The body is ignored so sendBeacon payloads work as-is.
func (h *GameHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SaveNow(r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AudioManifest handles GET /v1/audio-manifest?code=..., telling the client
// which of a set's words have pre-recorded audio and which need on-device
// speech synthesis.
func (h *GameHandler) AudioManifest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("code")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "Code is required", nil)
		return
	}
	code, _ := service.ResolveCode(raw)

	set, err := h.sets.Get(code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":  set.Code,
		"audio": h.audio.Manifest(set.Words),
	})
}
