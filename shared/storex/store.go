package storex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"warehouse-ops-dashboard/shared/config"
	"warehouse-ops-dashboard/shared/metricsx"
)

// ErrUnavailable marks transport-level failures against the key-path store.
// It is never returned for an absent node; absence is reported through the
// found flag so callers can distinguish "no data" from "store down".
var ErrUnavailable = errors.New("store unavailable")

// Client is a REST client for a Firebase-RTDB-style key-path store. Every
// node is addressed by a slash-separated path under the configured
// environment prefix and read or written as JSON.
type Client struct {
	baseURL string
	prefix  string
	http    *http.Client
	breaker *circuitBreaker
}

func New(cfg config.Config) (*Client, error) {
	if cfg.StoreBaseURL == "" {
		return nil, errors.New("STORE_BASE_URL is required")
	}
	timeout := time.Duration(cfg.StoreTimeoutMS) * time.Millisecond
	return &Client{
		baseURL: strings.TrimRight(cfg.StoreBaseURL, "/"),
		prefix:  strings.Trim(cfg.StorePrefix, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: newCircuitBreaker(5, 30*time.Second),
	}, nil
}

// Prefix returns the environment prefix all paths are rooted under.
func (c *Client) Prefix() string { return c.prefix }

// Get reads the node at path into dest. A missing node (HTTP 404 or a JSON
// null body) yields found=false with a nil error.
func (c *Client) Get(ctx context.Context, path string, dest any) (bool, error) {
	if c == nil || c.http == nil {
		return false, errors.New("store client not initialized")
	}
	if c.breaker.Open() {
		metricsx.IncStoreFetchFailure(collectionOf(path))
		return false, fmt.Errorf("%w: circuit open", ErrUnavailable)
	}

	ctx, span := otel.Tracer("storex").Start(ctx, "store.get")
	span.SetAttributes(attribute.String("store.path", path))
	defer span.End()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL(path), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.Fail()
		metricsx.IncStoreFetchFailure(collectionOf(path))
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.breaker.Success()
		return false, nil
	case resp.StatusCode >= 500:
		c.breaker.Fail()
		metricsx.IncStoreFetchFailure(collectionOf(path))
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		metricsx.IncStoreFetchFailure(collectionOf(path))
		return false, fmt.Errorf("store get failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.Fail()
		metricsx.IncStoreFetchFailure(collectionOf(path))
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.breaker.Success()
	metricsx.ObserveStoreFetch(collectionOf(path), time.Since(start))

	if isJSONNull(body) {
		return false, nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return false, fmt.Errorf("store get decode: %w", err)
	}
	return true, nil
}

// Put replaces the node at path with value.
func (c *Client) Put(ctx context.Context, path string, value any) error {
	return c.write(ctx, http.MethodPut, path, value)
}

// Update merges value's top-level keys into the node at path.
func (c *Client) Update(ctx context.Context, path string, value any) error {
	return c.write(ctx, http.MethodPatch, path, value)
}

// Delete removes the node at path. Deleting an absent node is not an error.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.write(ctx, http.MethodDelete, path, nil)
}

func (c *Client) write(ctx context.Context, method string, path string, value any) error {
	if c == nil || c.http == nil {
		return errors.New("store client not initialized")
	}
	if c.breaker.Open() {
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	}

	ctx, span := otel.Tracer("storex").Start(ctx, "store.write")
	span.SetAttributes(
		attribute.String("store.path", path),
		attribute.String("store.method", method),
	)
	defer span.End()

	var body io.Reader
	if value != nil {
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.nodeURL(path), body)
	if err != nil {
		return err
	}
	if value != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.Fail()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		c.breaker.Fail()
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound && method == http.MethodDelete:
		c.breaker.Success()
		return nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("store %s failed: status %d", strings.ToLower(method), resp.StatusCode)
	}
	c.breaker.Success()
	return nil
}

func (c *Client) nodeURL(path string) string {
	path = strings.Trim(path, "/")
	if c.prefix != "" {
		path = c.prefix + "/" + path
	}
	return c.baseURL + "/" + path + ".json"
}

func collectionOf(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return path
}

func isJSONNull(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null"))
}

type circuitBreaker struct {
	mu            sync.Mutex
	failures      int
	openUntil     time.Time
	threshold     int
	resetDuration time.Duration
}

func newCircuitBreaker(threshold int, reset time.Duration) *circuitBreaker {
	return &circuitBreaker{threshold: threshold, resetDuration: reset}
}

func (b *circuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openUntil.IsZero() {
		return false
	}
	if time.Now().After(b.openUntil) {
		b.openUntil = time.Time{}
		b.failures = 0
		return false
	}
	return true
}

func (b *circuitBreaker) Fail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures >= b.threshold {
		b.openUntil = time.Now().Add(b.resetDuration)
	}
}

func (b *circuitBreaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.openUntil = time.Time{}
}
