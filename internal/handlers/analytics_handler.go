package handlers

import (
	"net/http"
	"time"

	"spelldaily/internal/models"
	"spelldaily/internal/service"
)

// AnalyticsHandler receives the fire-and-forget lifecycle beacons and serves
// the stored analytics to the admin panel.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// beaconRequest is the body of both lifecycle beacons. The field name matches
// what the page posts via sendBeacon.
type beaconRequest struct {
	Code string `json:"testCode"`
}

// SessionStarted handles POST /v1/analytics/started.
func (h *AnalyticsHandler) SessionStarted(w http.ResponseWriter, r *http.Request) {
	h.recordBeacon(w, r, models.LifecycleStarted)
}

// SessionCompleted handles POST /v1/analytics/completed.
func (h *AnalyticsHandler) SessionCompleted(w http.ResponseWriter, r *http.Request) {
	h.recordBeacon(w, r, models.LifecycleCompleted)
}

// recordBeacon stores a lifecycle event. Beacons always succeed from the
// client's point of view; a bad body is simply dropped.
func (h *AnalyticsHandler) recordBeacon(w http.ResponseWriter, r *http.Request, event string) {
	var req beaconRequest
	if err := decodeJSON(r, &req); err != nil || req.Code == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	code, testMode := service.ResolveCode(req.Code)
	h.analytics.RecordLifecycle(event, code, testMode)
	w.WriteHeader(http.StatusNoContent)
}

// WordAnalytics handles GET /v1/admin/analytics/{code}/words?day=YYYY-MM-DD.
func (h *AnalyticsHandler) WordAnalytics(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	day := dayOrToday(r)

	records, err := h.analytics.WordAnalyticsForDay(code, day)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if records == nil {
		records = []models.WordAnalytics{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":  code,
		"day":   day,
		"words": records,
	})
}

// Completion handles GET /v1/admin/analytics/{code}/completion?day=YYYY-MM-DD.
func (h *AnalyticsHandler) Completion(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	day := dayOrToday(r)

	completion, err := h.analytics.CompletionForDay(code, day)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, completion)
}

// LifecycleCounts handles GET /v1/admin/analytics/{code}/lifecycle.
func (h *AnalyticsHandler) LifecycleCounts(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	counts, err := h.analytics.LifecycleCounts(code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":   code,
		"counts": counts,
	})
}

// dayOrToday reads the day query parameter, defaulting to today.
func dayOrToday(r *http.Request) string {
	if day := r.URL.Query().Get("day"); day != "" {
		return day
	}
	return service.Day(time.Now())
}
