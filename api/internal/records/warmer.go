package records

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"warehouse-ops-dashboard/shared/cachex"
	"warehouse-ops-dashboard/shared/logx"
	"warehouse-ops-dashboard/shared/storex"
)

// Warmer polls the join-side collections and keeps their snapshots in the
// Redis cache, so day-view requests usually skip the full store fetch of
// the orders and placement nodes. Cache entries outlive one poll interval
// so a slow poll never leaves a gap.
type Warmer struct {
	subs []*storex.Subscription
}

func NewWarmer(store *storex.Client, cache *cachex.Client, interval time.Duration, logger logx.Logger) *Warmer {
	ttl := 2 * interval
	w := &Warmer{}
	for _, path := range []string{storex.OrdersPath(), storex.PlacementParamsPath()} {
		path := path
		w.subs = append(w.subs, storex.NewSubscription(store, path, interval,
			func(ctx context.Context, raw json.RawMessage, found bool) {
				if !found {
					_ = cache.Delete(ctx, "snapshot:"+path)
					return
				}
				_ = cache.SetJSON(ctx, "snapshot:"+path, raw, ttl)
			},
			func(ctx context.Context, err error) {
				logger.Warn(ctx, "snapshot_warm_failed", "failed to refresh snapshot",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
			},
		))
	}
	return w
}

func (w *Warmer) Start(ctx context.Context) {
	for _, sub := range w.subs {
		sub.Start(ctx)
	}
}

func (w *Warmer) Stop() {
	for _, sub := range w.subs {
		sub.Stop()
	}
}
