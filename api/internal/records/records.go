package records

import (
	"context"
	"time"

	"warehouse-ops-dashboard/api/internal/analytics"
	"warehouse-ops-dashboard/shared/cachex"
	"warehouse-ops-dashboard/shared/metricsx"
	"warehouse-ops-dashboard/shared/storex"
)

// Fetcher is the read boundary for the analytics collections. Each call
// either returns records or an empty result for an absent scope; store
// transport failures surface as errors and are never folded into "no
// data". Hot reads go through a short-TTL Redis snapshot cache when one is
// configured.
type Fetcher struct {
	store *storex.Client
	cache *cachex.Client
	ttl   time.Duration
}

func NewFetcher(store *storex.Client, cache *cachex.Client, ttl time.Duration) *Fetcher {
	return &Fetcher{store: store, cache: cache, ttl: ttl}
}

// DayEvents returns the scan events of one day, with each event's logId
// lifted from its map key. An absent day yields an empty slice.
func (f *Fetcher) DayEvents(ctx context.Context, year, month, day string) ([]analytics.ScanEvent, error) {
	path := storex.ScanLogDayPath(year, month, day)
	var raw map[string]analytics.ScanEvent
	if err := f.fetch(ctx, path, &raw); err != nil {
		return nil, err
	}

	out := make([]analytics.ScanEvent, 0, len(raw))
	for logID, e := range raw {
		if e.LogID == "" {
			e.LogID = logID
		}
		out = append(out, e)
	}
	return out, nil
}

// Orders returns all fulfillment records.
func (f *Fetcher) Orders(ctx context.Context) ([]analytics.Order, error) {
	var raw map[string]analytics.Order
	if err := f.fetch(ctx, storex.OrdersPath(), &raw); err != nil {
		return nil, err
	}
	out := make([]analytics.Order, 0, len(raw))
	for _, o := range raw {
		out = append(out, o)
	}
	return out, nil
}

// PlacementParams returns all placement parameter records.
func (f *Fetcher) PlacementParams(ctx context.Context) ([]analytics.PlacementParameter, error) {
	var raw map[string]analytics.PlacementParameter
	if err := f.fetch(ctx, storex.PlacementParamsPath(), &raw); err != nil {
		return nil, err
	}
	out := make([]analytics.PlacementParameter, 0, len(raw))
	for _, p := range raw {
		out = append(out, p)
	}
	return out, nil
}

// MonthsWithData lists the month keys holding at least one day of scan
// data for a year, sorted ascending.
func (f *Fetcher) MonthsWithData(ctx context.Context, year string) ([]string, error) {
	return f.childKeys(ctx, storex.ScanLogYearPath(year))
}

// DaysWithData lists the day keys with scan data for a year/month, sorted
// ascending.
func (f *Fetcher) DaysWithData(ctx context.Context, year, month string) ([]string, error) {
	return f.childKeys(ctx, storex.ScanLogMonthPath(year, month))
}

func (f *Fetcher) childKeys(ctx context.Context, path string) ([]string, error) {
	var raw map[string]any
	if err := f.fetch(ctx, path, &raw); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return analytics.SortDateKeys(keys), nil
}

// fetch reads a store node through the snapshot cache. dest must be a
// pointer to a map type; an absent node leaves it nil.
func (f *Fetcher) fetch(ctx context.Context, path string, dest any) error {
	cacheKey := "snapshot:" + path

	if f.cache != nil && f.ttl > 0 {
		hit, err := f.cache.GetJSON(ctx, cacheKey, dest)
		if err == nil && hit {
			metricsx.IncSnapshotCacheHit(collection(path))
			return nil
		}
		metricsx.IncSnapshotCacheMiss(collection(path))
	}

	found, err := f.store.Get(ctx, path, dest)
	if err != nil {
		return err
	}
	if found && f.cache != nil && f.ttl > 0 {
		_ = f.cache.SetJSON(ctx, cacheKey, dest, f.ttl)
	}
	return nil
}

func collection(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return path
}
