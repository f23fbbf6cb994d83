package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"

	"warehouse-ops-dashboard/shared/config"
	"warehouse-ops-dashboard/shared/logx"
	"warehouse-ops-dashboard/shared/storex"
)

type captureEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (c *captureEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newEvaluator(t *testing.T, nodes map[string]string, enq *captureEnqueuer) *Evaluator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := nodes[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	store, err := storex.New(config.Config{StoreBaseURL: srv.URL, StorePrefix: "release", StoreTimeoutMS: 2000})
	if err != nil {
		t.Fatalf("store client: %v", err)
	}
	return &Evaluator{
		Store:    store,
		Enqueuer: enq,
		Queue:    "default",
		Logger:   logx.New("test", "test", "", "error"),
		Guard:    func(ctx context.Context, key string) (bool, error) { return true, nil },
		Now:      func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) },
	}
}

var alertNodes = map[string]string{
	"/release/scan_threshold_message_db.json": `{"threshold":100,"message":"Scan target reached","updateDate":"01-03-2026 08:00:00"}`,
	"/release/scan_threshold_db/2026/3/9.json": `{
		"totalOrders":120,"totalProducts":340,"totalWeight":512.5,"totalVolume":3.75
	}`,
	"/release/tg_user_db.json": `{
		"1001": {"chatId":1001,"name":"ops","addedToList":true,"scanThreshold":true},
		"1002": {"chatId":1002,"name":"sales","addedToList":true,"scanThreshold":false},
		"1003": {"chatId":1003,"name":"gone","addedToList":false,"scanThreshold":true}
	}`,
}

func TestEvaluateEnqueuesForOptedIn(t *testing.T) {
	enq := &captureEnqueuer{}
	e := newEvaluator(t, alertNodes, enq)

	if err := e.HandleEvaluate(context.Background(), nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(enq.tasks) != 1 {
		t.Fatalf("expected 1 dispatch task, got %d", len(enq.tasks))
	}
	var payload DispatchPayload
	if err := json.Unmarshal(enq.tasks[0].Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.ChatID != 1001 {
		t.Fatalf("expected chat 1001, got %d", payload.ChatID)
	}
	if !strings.Contains(payload.Text, "Scan target reached") || !strings.Contains(payload.Text, "Orders: 120") {
		t.Fatalf("unexpected alert text: %q", payload.Text)
	}
}

func TestEvaluateBelowThresholdIsQuiet(t *testing.T) {
	nodes := map[string]string{
		"/release/scan_threshold_message_db.json":  `{"threshold":500,"message":"m"}`,
		"/release/scan_threshold_db/2026/3/9.json": `{"totalOrders":120}`,
	}
	enq := &captureEnqueuer{}
	e := newEvaluator(t, nodes, enq)
	if err := e.HandleEvaluate(context.Background(), nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(enq.tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(enq.tasks))
	}
}

func TestEvaluateUnconfiguredIsQuiet(t *testing.T) {
	enq := &captureEnqueuer{}
	e := newEvaluator(t, map[string]string{}, enq)
	if err := e.HandleEvaluate(context.Background(), nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(enq.tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(enq.tasks))
	}
}

func TestEvaluateGuardSuppressesRepeat(t *testing.T) {
	enq := &captureEnqueuer{}
	e := newEvaluator(t, alertNodes, enq)
	e.Guard = func(ctx context.Context, key string) (bool, error) {
		if key != "alert:threshold:2026-3-9" {
			t.Fatalf("unexpected guard key %q", key)
		}
		return false, nil
	}
	if err := e.HandleEvaluate(context.Background(), nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(enq.tasks) != 0 {
		t.Fatalf("expected guard to suppress dispatch, got %d tasks", len(enq.tasks))
	}
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestDispatchSendsMessage(t *testing.T) {
	bot := &fakeBot{}
	d := &Dispatcher{Bot: bot, Logger: logx.New("test", "test", "", "error")}

	payload, _ := json.Marshal(DispatchPayload{ChatID: 1001, Text: "hello"})
	task := asynq.NewTask(TaskAlertDispatch, payload)
	if err := d.HandleDispatch(context.Background(), task); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(bot.sent))
	}
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok || msg.ChatID != 1001 || msg.Text != "hello" {
		t.Fatalf("unexpected message: %#v", bot.sent[0])
	}
}

func TestDispatchSendFailureIsRetried(t *testing.T) {
	bot := &fakeBot{err: errors.New("telegram down")}
	d := &Dispatcher{Bot: bot, Logger: logx.New("test", "test", "", "error")}

	payload, _ := json.Marshal(DispatchPayload{ChatID: 1001, Text: "hello"})
	if err := d.HandleDispatch(context.Background(), asynq.NewTask(TaskAlertDispatch, payload)); err == nil {
		t.Fatalf("expected error so asynq retries")
	}
}

func TestDispatchWithoutBotIsDropped(t *testing.T) {
	d := &Dispatcher{Logger: logx.New("test", "test", "", "error")}
	payload, _ := json.Marshal(DispatchPayload{ChatID: 1001, Text: "hello"})
	if err := d.HandleDispatch(context.Background(), asynq.NewTask(TaskAlertDispatch, payload)); err != nil {
		t.Fatalf("expected nil when bot unset, got %v", err)
	}
}
