package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"warehouse-ops-dashboard/api/internal/models"
	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/storex"
)

type TelegramUsersHandler struct {
	Store *storex.Client
}

func (h *TelegramUsersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/telegram-users", h.list)
	mux.HandleFunc("PATCH /api/v1/telegram-users/{chatId}", h.patch)
	mux.HandleFunc("DELETE /api/v1/telegram-users/{chatId}", h.delete)
}

func (h *TelegramUsersHandler) list(w http.ResponseWriter, r *http.Request) {
	var raw map[string]models.TelegramUser
	if _, err := h.Store.Get(r.Context(), storex.TelegramUsersPath(), &raw); err != nil {
		writeStoreError(w, r, err)
		return
	}
	if raw == nil {
		raw = map[string]models.TelegramUser{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"telegramUsers": raw})
}

// patchTelegramUserRequest carries the toggles the dashboard exposes.
// Pointers distinguish "leave unchanged" from an explicit false.
type patchTelegramUserRequest struct {
	AddedToList      *bool   `json:"addedToList,omitempty"`
	ScanThreshold    *bool   `json:"scanThreshold,omitempty"`
	SendErrorMessage *bool   `json:"sendErrorMessage,omitempty"`
	Name             *string `json:"name,omitempty"`
}

func (h *TelegramUsersHandler) patch(w http.ResponseWriter, r *http.Request) {
	chatID, ok := parseChatID(w, r)
	if !ok {
		return
	}

	var req patchTelegramUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body", nil)
		return
	}

	patch := map[string]any{}
	if req.AddedToList != nil {
		patch["addedToList"] = *req.AddedToList
	}
	if req.ScanThreshold != nil {
		patch["scanThreshold"] = *req.ScanThreshold
	}
	if req.SendErrorMessage != nil {
		patch["sendErrorMessage"] = *req.SendErrorMessage
	}
	if req.Name != nil {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if len(patch) == 0 {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "no fields to update", nil)
		return
	}

	if err := h.Store.Update(r.Context(), storex.TelegramUserPath(chatID), patch); err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"chatId": chatID, "updated": patch})
}

func (h *TelegramUsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	chatID, ok := parseChatID(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(r.Context(), storex.TelegramUserPath(chatID)); err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": chatID})
}

func parseChatID(w http.ResponseWriter, r *http.Request) (string, bool) {
	chatID := strings.TrimSpace(r.PathValue("chatId"))
	if _, err := strconv.ParseInt(chatID, 10, 64); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid chat id", nil)
		return "", false
	}
	return chatID, true
}
