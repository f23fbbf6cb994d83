package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"warehouse-ops-dashboard/api/internal/analytics"
	"warehouse-ops-dashboard/api/internal/records"
	"warehouse-ops-dashboard/shared/httpx"
	"warehouse-ops-dashboard/shared/logx"
	"warehouse-ops-dashboard/shared/metricsx"
)

type AnalyticsHandler struct {
	Fetcher *records.Fetcher
	Logger  logx.Logger
}

func (h *AnalyticsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/analytics/dates", h.dates)
	mux.HandleFunc("GET /api/v1/analytics/day", h.day)
	mux.HandleFunc("GET /api/v1/analytics/filters", h.filters)
}

type datesResponse struct {
	Year   string   `json:"year"`
	Months []string `json:"months"`
	Month  string   `json:"month,omitempty"`
	Days   []string `json:"days"`
	Day    string   `json:"day,omitempty"`
}

// dates reports which months and days hold scan data, resolving the
// requested (or current) date to the most recent one with data. An empty
// scope is a valid 200 response.
func (h *AnalyticsHandler) dates(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryDefault(r, "year", strconv.Itoa(now.Year()))

	months, err := h.Fetcher.MonthsWithData(r.Context(), year)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	resp := datesResponse{Year: year, Months: months, Days: []string{}}
	month, ok := analytics.ResolveKey(r.URL.Query().Get("month"), months)
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, resp)
		return
	}
	resp.Month = month

	days, err := h.Fetcher.DaysWithData(r.Context(), year, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	resp.Days = days
	if day, ok := analytics.ResolveKey(r.URL.Query().Get("day"), days); ok {
		resp.Day = day
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type dayResponse struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	analytics.ViewModel
}

// day builds the full chart view model for one resolved day and filter
// selection. Event, order, and placement fetches run concurrently; the
// weight/volume join waits on the latter two.
func (h *AnalyticsHandler) day(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	interval := analytics.DefaultInterval
	if raw := strings.TrimSpace(q.Get("interval")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || !analytics.ValidInterval(v) {
			httpx.WriteError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "interval must be one of 10, 30, 60", nil)
			return
		}
		interval = v
	}

	year, month, day, ok, err := h.resolveDate(r.Context(), q.Get("year"), q.Get("month"), q.Get("day"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, dayResponse{
			Year:      year,
			ViewModel: analytics.BuildViewModel(nil, nil, nil, analytics.Filters{IntervalMinutes: interval}),
		})
		return
	}

	var (
		wg     sync.WaitGroup
		events []analytics.ScanEvent
		orders []analytics.Order
		params []analytics.PlacementParameter
		errs   [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		events, errs[0] = h.Fetcher.DayEvents(r.Context(), year, month, day)
	}()
	go func() {
		defer wg.Done()
		orders, errs[1] = h.Fetcher.Orders(r.Context())
	}()
	go func() {
		defer wg.Done()
		params, errs[2] = h.Fetcher.PlacementParams(r.Context())
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
	}

	vm := analytics.BuildViewModel(events, orders, params, analytics.Filters{
		User:            queryDefault(r, "user", analytics.FilterAll),
		Action:          queryDefault(r, "action", analytics.FilterAll),
		IntervalMinutes: interval,
	})
	metricsx.AddDroppedTimestamps(vm.Diagnostics.DroppedTimestamps)
	metricsx.AddUnjoinedRefs(vm.Diagnostics.UnjoinedRefs)

	httpx.WriteJSON(w, http.StatusOK, dayResponse{Year: year, Month: month, Day: day, ViewModel: vm})
}

type filtersResponse struct {
	Users   []string `json:"users"`
	Actions []string `json:"actions"`
}

// filters returns the distinct user and action values of a day, for the
// dashboard's dropdowns.
func (h *AnalyticsHandler) filters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, month, day, ok, err := h.resolveDate(r.Context(), q.Get("year"), q.Get("month"), q.Get("day"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, filtersResponse{Users: []string{}, Actions: []string{}})
		return
	}

	events, err := h.Fetcher.DayEvents(r.Context(), year, month, day)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, filtersResponse{
		Users:   analytics.DistinctUsers(events),
		Actions: analytics.DistinctActions(events),
	})
}

// resolveDate picks the most recent year/month/day with data honoring any
// explicitly requested components. ok=false means the year holds no data.
func (h *AnalyticsHandler) resolveDate(ctx context.Context, year, month, day string) (string, string, string, bool, error) {
	now := time.Now()
	if strings.TrimSpace(year) == "" {
		year = strconv.Itoa(now.Year())
	}

	months, err := h.Fetcher.MonthsWithData(ctx, year)
	if err != nil {
		return year, "", "", false, err
	}
	resolvedMonth, ok := analytics.ResolveKey(strings.TrimSpace(month), months)
	if !ok {
		return year, "", "", false, nil
	}

	days, err := h.Fetcher.DaysWithData(ctx, year, resolvedMonth)
	if err != nil {
		return year, resolvedMonth, "", false, err
	}
	resolvedDay, ok := analytics.ResolveKey(strings.TrimSpace(day), days)
	if !ok {
		return year, resolvedMonth, "", false, nil
	}
	return year, resolvedMonth, resolvedDay, true, nil
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	return fallback
}
