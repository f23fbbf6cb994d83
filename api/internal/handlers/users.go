package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"warehouse-ops-dashboard/api/internal/models"
	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/storex"
)

type UsersHandler struct {
	Store *storex.Client
}

func (h *UsersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/users", h.list)
	mux.HandleFunc("PUT /api/v1/users/{uid}", h.put)
}

type userResponse struct {
	models.DashboardUser
	ColorHex string `json:"colorHex,omitempty"`
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	var raw map[string]models.DashboardUser
	if _, err := h.Store.Get(r.Context(), storex.UsersPath(), &raw); err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make(map[string]userResponse, len(raw))
	for uid, u := range raw {
		resp := userResponse{DashboardUser: u}
		if u.Color != 0 {
			resp.ColorHex = models.ARGBToHex(u.Color)
		}
		out[uid] = resp
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": out})
}

type putUserRequest struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	ColorHex     string              `json:"colorHex"`
	UserRestrict models.UserRestrict `json:"userRestrict"`
}

func (h *UsersHandler) put(w http.ResponseWriter, r *http.Request) {
	uid := strings.TrimSpace(r.PathValue("uid"))
	if uid == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "uid is required", nil)
		return
	}

	var req putUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body", nil)
		return
	}

	user := models.DashboardUser{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		UserRestrict: req.UserRestrict,
	}
	if strings.TrimSpace(req.ColorHex) != "" {
		color, err := models.HexToARGB(req.ColorHex)
		if err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "colorHex must be #RRGGBB", nil)
			return
		}
		user.Color = color
	}

	if err := h.Store.Put(r.Context(), storex.UserPath(uid), user); err != nil {
		writeStoreError(w, r, err)
		return
	}

	resp := userResponse{DashboardUser: user}
	if user.Color != 0 {
		resp.ColorHex = models.ARGBToHex(user.Color)
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"uid": uid, "user": resp})
}
