package storex

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Subscription polls a single store path and delivers snapshots to a
// callback. Snapshots carry the whole node; a poll that lands while the
// callback is still running supersedes the pending one, so the callback
// always observes the latest state rather than a backlog of stale reads.
type Subscription struct {
	client   *Client
	path     string
	interval time.Duration
	onSnap   func(ctx context.Context, raw json.RawMessage, found bool)
	onError  func(ctx context.Context, err error)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSubscription(client *Client, path string, interval time.Duration,
	onSnapshot func(ctx context.Context, raw json.RawMessage, found bool),
	onError func(ctx context.Context, err error),
) *Subscription {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Subscription{
		client:   client,
		path:     path,
		interval: interval,
		onSnap:   onSnapshot,
		onError:  onError,
	}
}

// Start begins polling. The first poll fires immediately. Start on a
// running subscription is a no-op.
func (s *Subscription) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	pending := make(chan snapshot, 1)

	go func() {
		defer close(s.done)
		go s.pollLoop(runCtx, pending)
		for {
			select {
			case <-runCtx.Done():
				return
			case snap := <-pending:
				if s.onSnap != nil {
					s.onSnap(runCtx, snap.raw, snap.found)
				}
			}
		}
	}()
}

// Stop halts polling and waits for the in-flight callback to return.
func (s *Subscription) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

type snapshot struct {
	raw   json.RawMessage
	found bool
}

func (s *Subscription) pollLoop(ctx context.Context, pending chan snapshot) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.pollOnce(ctx, pending)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Subscription) pollOnce(ctx context.Context, pending chan snapshot) {
	var raw json.RawMessage
	found, err := s.client.Get(ctx, s.path, &raw)
	if err != nil {
		if s.onError != nil && ctx.Err() == nil {
			s.onError(ctx, err)
		}
		return
	}

	snap := snapshot{raw: raw, found: found}
	// Latest snapshot wins: drop the undelivered one if the consumer is busy.
	select {
	case pending <- snap:
	default:
		select {
		case <-pending:
		default:
		}
		select {
		case pending <- snap:
		default:
		}
	}
}
