package handlers

import (
	"errors"
	"net/http"

	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/storex"
)

// writeStoreError maps a record-fetch failure onto the wire taxonomy: a
// store transport failure is 502 UNAVAILABLE, never conflated with the
// empty-data case handlers return 200 for.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storex.ErrUnavailable) {
		httpx.WriteError(w, r, http.StatusBadGateway, "UNAVAILABLE", "record store unavailable", nil)
		return
	}
	httpx.WriteError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}
