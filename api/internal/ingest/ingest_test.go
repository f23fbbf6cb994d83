package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"warehouse-ops-dashboard/shared/config"
	"warehouse-ops-dashboard/shared/events"
	"warehouse-ops-dashboard/shared/logx"
	"warehouse-ops-dashboard/shared/storex"
)

type capturePublisher struct {
	topic string
	value []byte
	err   error
}

func (p *capturePublisher) Publish(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.topic = topic
	p.value = value
	return nil
}

type capturePoints struct {
	measurements []string
	fields       []map[string]any
	err          error
}

func (p *capturePoints) WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]any, ts time.Time) error {
	if p.err != nil {
		return p.err
	}
	p.measurements = append(p.measurements, measurement)
	p.fields = append(p.fields, fields)
	return nil
}

type storeRecorder struct {
	mu     sync.Mutex
	writes map[string]string
	fail   bool
}

func newHandler(t *testing.T, dlq *capturePublisher, influx *capturePoints) (*Handler, *storeRecorder) {
	t.Helper()
	rec := &storeRecorder{writes: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if rec.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		buf := make([]byte, 64<<10)
		n, _ := r.Body.Read(buf)
		rec.writes[r.Method+" "+r.URL.Path] = string(buf[:n])
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	store, err := storex.New(config.Config{StoreBaseURL: srv.URL, StorePrefix: "release", StoreTimeoutMS: 2000})
	if err != nil {
		t.Fatalf("store client: %v", err)
	}
	h := NewHandler(store, dlq, influx, logx.New("test", "test", "", "error"))
	h.Now = func() time.Time { return time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC) }
	return h, rec
}

func envelopeBytes(t *testing.T, eventType string, payload string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"event_id":    "7b9f6dd2-8f6e-4f40-a6a1-3a2f3f1c9b55",
		"device_id":   "scanner-7",
		"occurred_at": "2026-03-09T09:30:00Z",
		"event_type":  eventType,
		"payload":     json.RawMessage(payload),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func TestHandleWritesDayNodeAndPoint(t *testing.T) {
	dlq := &capturePublisher{}
	influx := &capturePoints{}
	h, rec := newHandler(t, dlq, influx)

	raw := envelopeBytes(t, events.EventTypeScanRecorded,
		`{"logId":"093000","userId":"u1","screen":"picking","success":"true"}`)
	if err := h.Handle(context.Background(), raw); err != nil {
		t.Fatalf("handle: %v", err)
	}

	body, ok := rec.writes["PUT /release/logging_db/Scanning/2026/3/9/093000.json"]
	if !ok {
		t.Fatalf("expected day node write, got %v", rec.writes)
	}
	var stored struct {
		UserID  string `json:"userId"`
		Success bool   `json:"success"`
	}
	if err := json.Unmarshal([]byte(body), &stored); err != nil {
		t.Fatalf("decode stored record: %v", err)
	}
	if stored.UserID != "u1" || !stored.Success {
		t.Fatalf("unexpected stored record: %s", body)
	}
	if len(influx.measurements) != 1 || influx.measurements[0] != "scan_throughput" {
		t.Fatalf("expected scan_throughput point, got %v", influx.measurements)
	}
	if influx.fields[0]["success"] != 1 {
		t.Fatalf("expected success field 1, got %v", influx.fields[0])
	}
	if dlq.value != nil {
		t.Fatalf("nothing should be dead-lettered")
	}
}

func TestHandleUndecodableGoesToDLQ(t *testing.T) {
	dlq := &capturePublisher{}
	h, rec := newHandler(t, dlq, nil)

	if err := h.Handle(context.Background(), []byte(`{not json`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if dlq.topic != events.TopicScanEventsDLQ {
		t.Fatalf("expected DLQ publish, got topic %q", dlq.topic)
	}
	if len(rec.writes) != 0 {
		t.Fatalf("nothing should reach the store: %v", rec.writes)
	}
}

func TestHandleMissingFieldsGoesToDLQ(t *testing.T) {
	dlq := &capturePublisher{}
	h, _ := newHandler(t, dlq, nil)

	raw := envelopeBytes(t, events.EventTypeScanRecorded, `{"screen":"picking"}`)
	if err := h.Handle(context.Background(), raw); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if dlq.value == nil {
		t.Fatalf("expected dead-letter for missing logId/userId")
	}
}

func TestHandleWrongEventTypeGoesToDLQ(t *testing.T) {
	dlq := &capturePublisher{}
	h, _ := newHandler(t, dlq, nil)

	raw := envelopeBytes(t, "robot.moved", `{"logId":"093000","userId":"u1"}`)
	if err := h.Handle(context.Background(), raw); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if dlq.topic != events.TopicScanEventsDLQ {
		t.Fatalf("expected DLQ publish for wrong event type")
	}
}

func TestHandleStoreFailureIsRetried(t *testing.T) {
	dlq := &capturePublisher{}
	h, rec := newHandler(t, dlq, nil)
	rec.mu.Lock()
	rec.fail = true
	rec.mu.Unlock()

	raw := envelopeBytes(t, events.EventTypeScanRecorded, `{"logId":"093000","userId":"u1"}`)
	if err := h.Handle(context.Background(), raw); err == nil {
		t.Fatalf("expected error so the offset is not committed")
	}
	if dlq.value != nil {
		t.Fatalf("store failures must not dead-letter the message")
	}
}

func TestHandleInfluxFailureIsNonFatal(t *testing.T) {
	influx := &capturePoints{err: errors.New("influx down")}
	h, rec := newHandler(t, nil, influx)

	raw := envelopeBytes(t, events.EventTypeScanRecorded, `{"logId":"093000","userId":"u1"}`)
	if err := h.Handle(context.Background(), raw); err != nil {
		t.Fatalf("influx failure must not fail ingestion: %v", err)
	}
	if len(rec.writes) != 1 {
		t.Fatalf("expected store write despite influx failure")
	}
}
