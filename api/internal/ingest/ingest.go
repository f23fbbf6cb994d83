package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"warehouse-ops-dashboard/api/internal/analytics"
	"warehouse-ops-dashboard/shared/events"
	"warehouse-ops-dashboard/shared/logx"
	"warehouse-ops-dashboard/shared/metricsx"
	"warehouse-ops-dashboard/shared/storex"
)

// publisher is the slice of mqx.Producer used for dead-lettering.
type publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error
}

// pointWriter is the slice of influxx.Client used for throughput points.
type pointWriter interface {
	WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]any, ts time.Time) error
}

// Handler ingests scan events from the device topic into the key-path store.
// Undecodable messages go to the dead-letter topic; store write failures are
// returned so the message is retried without committing the offset.
type Handler struct {
	Store  *storex.Client
	DLQ    publisher
	Influx pointWriter
	Logger logx.Logger
	Now    func() time.Time
}

func NewHandler(store *storex.Client, dlq publisher, influx pointWriter, logger logx.Logger) *Handler {
	return &Handler{
		Store:  store,
		DLQ:    dlq,
		Influx: influx,
		Logger: logger,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(ctx context.Context, raw []byte) error {
	var envelope events.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return h.deadLetter(ctx, raw, "undecodable envelope: "+err.Error())
	}
	if envelope.EventType != events.EventTypeScanRecorded {
		return h.deadLetter(ctx, raw, "unexpected event type "+envelope.EventType)
	}

	var record analytics.ScanEvent
	if err := json.Unmarshal(envelope.Payload, &record); err != nil {
		return h.deadLetter(ctx, raw, "undecodable payload: "+err.Error())
	}
	logID := strings.TrimSpace(record.LogID)
	if logID == "" || record.UserID == "" {
		return h.deadLetter(ctx, raw, "missing logId or userId")
	}

	occurredAt := envelope.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = h.Now()
	}
	year := strconv.Itoa(occurredAt.Year())
	month := strconv.Itoa(int(occurredAt.Month()))
	day := strconv.Itoa(occurredAt.Day())

	path := storex.ScanLogDayPath(year, month, day) + "/" + logID
	if err := h.Store.Put(ctx, path, record); err != nil {
		return err
	}

	if h.Influx != nil {
		success := 0
		if bool(record.Success) {
			success = 1
		}
		if err := h.Influx.WritePoint(ctx, "scan_throughput", map[string]string{
			"device_id": envelope.DeviceID,
			"action":    record.Action(),
		}, map[string]any{
			"count":   1,
			"success": success,
		}, occurredAt); err != nil {
			metricsx.IncInfluxWriteFailure()
			h.Logger.Warn(ctx, "influx_write_failed", "failed to record throughput point",
				slog.String("error", err.Error()),
			)
		}
	}

	metricsx.IncIngestAccepted()
	return nil
}

func (h *Handler) deadLetter(ctx context.Context, raw []byte, reason string) error {
	metricsx.IncIngestDeadLettered()
	h.Logger.Warn(ctx, "scan_event_dead_lettered", "scan event moved to dead-letter topic",
		slog.String("reason", reason),
	)
	if h.DLQ == nil {
		return nil
	}
	if err := h.DLQ.Publish(ctx, events.TopicScanEventsDLQ, nil, raw, map[string]string{
		"reason": reason,
	}); err != nil {
		h.Logger.Error(ctx, "dlq_publish_failed", "failed to publish to dead-letter topic",
			slog.String("error_code", "INTERNAL_ERROR"),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
