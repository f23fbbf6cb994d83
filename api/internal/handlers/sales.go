package handlers

import (
	"net/http"
	"sort"
	"strings"

	"warehouse-ops-dashboard/api/internal/analytics"
	"warehouse-ops-dashboard/api/internal/models"
	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/storex"
)

type SalesHandler struct {
	Store *storex.Client
}

func (h *SalesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/sales", h.list)
}

type salesResponse struct {
	Orders   []models.SalesOrder `json:"orders"`
	TotalSum float64             `json:"totalSum"`
	Clients  []string            `json:"clients"`
	Months   []string            `json:"months"`
	Years    []string            `json:"years"`
}

// list returns sales orders filtered by client name, month, and year, the
// payment sum of the filtered set, and the distinct filter values of the
// whole set for the dropdowns. The "all" sentinel (or an absent parameter)
// bypasses a predicate.
func (h *SalesHandler) list(w http.ResponseWriter, r *http.Request) {
	var raw map[string]models.SalesOrder
	if _, err := h.Store.Get(r.Context(), storex.SalesOrdersPath(), &raw); err != nil {
		writeStoreError(w, r, err)
		return
	}

	all := make([]models.SalesOrder, 0, len(raw))
	for _, o := range raw {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date < all[j].Date })

	client := queryDefault(r, "client", analytics.FilterAll)
	month := queryDefault(r, "month", analytics.FilterAll)
	year := queryDefault(r, "year", analytics.FilterAll)

	resp := salesResponse{
		Orders:  make([]models.SalesOrder, 0, len(all)),
		Clients: distinctSales(all, models.SalesOrder.ClientName),
		Months:  distinctSales(all, models.SalesOrder.Month),
		Years:   distinctSales(all, models.SalesOrder.Year),
	}

	for _, o := range all {
		if client != analytics.FilterAll && o.ClientName() != client {
			continue
		}
		if month != analytics.FilterAll && o.Month() != month {
			continue
		}
		if year != analytics.FilterAll && o.Year() != year {
			continue
		}
		resp.Orders = append(resp.Orders, o)
		resp.TotalSum += o.PaymentAmount
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func distinctSales(orders []models.SalesOrder, key func(models.SalesOrder) string) []string {
	seen := make(map[string]bool, len(orders))
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		k := strings.TrimSpace(key(o))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
