package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"warehouse-ops-dashboard/api/internal/models"
	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/storex"
)

// updateDateLayout is the legacy timestamp form the mobile clients render
// verbatim on the settings screen.
const updateDateLayout = "02-01-2006 15:04:05"

type SettingsHandler struct {
	Store *storex.Client
	Now   func() time.Time
}

func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/settings/threshold", h.get)
	mux.HandleFunc("PUT /api/v1/settings/threshold", h.put)
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	var settings models.ThresholdSettings
	found, err := h.Store.Get(r.Context(), storex.ThresholdSettingsPath(), &settings)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"settings":   settings,
		"configured": found,
	})
}

type putThresholdRequest struct {
	Threshold int    `json:"threshold"`
	Message   string `json:"message"`
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var req putThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body", nil)
		return
	}
	if req.Threshold < 0 {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "threshold must be >= 0", nil)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	settings := models.ThresholdSettings{
		Threshold:  req.Threshold,
		Message:    strings.TrimSpace(req.Message),
		UpdateDate: now().Format(updateDateLayout),
	}

	if err := h.Store.Put(r.Context(), storex.ThresholdSettingsPath(), settings); err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"settings": settings})
}
