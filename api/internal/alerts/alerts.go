package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"warehouse-ops-dashboard/api/internal/models"
	"warehouse-ops-dashboard/shared/lockx"
	"warehouse-ops-dashboard/shared/logx"
	"warehouse-ops-dashboard/shared/metricsx"
	"warehouse-ops-dashboard/shared/storex"
)

const (
	TaskThresholdEvaluate = "threshold.evaluate"
	TaskAlertDispatch     = "alert.dispatch"
)

// DispatchPayload is the body of an alert.dispatch task: one message to one chat.
type DispatchPayload struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// Enqueuer is the slice of asynq.Client the evaluator needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Evaluator checks the current day's scan rollup against the configured
// threshold and fans out one dispatch task per opted-in Telegram account.
// Guard makes the alert fire at most once per day.
type Evaluator struct {
	Store    *storex.Client
	Enqueuer Enqueuer
	Queue    string
	Logger   logx.Logger
	Guard    func(ctx context.Context, key string) (bool, error)
	Now      func() time.Time
}

func NewEvaluator(store *storex.Client, redisClient *redis.Client, enq Enqueuer, queue string, logger logx.Logger) *Evaluator {
	return &Evaluator{
		Store:    store,
		Enqueuer: enq,
		Queue:    queue,
		Logger:   logger,
		Guard: func(ctx context.Context, key string) (bool, error) {
			_, ok, err := lockx.Acquire(ctx, redisClient, key, 24*time.Hour)
			return ok, err
		},
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// HandleEvaluate is the threshold.evaluate task handler.
func (e *Evaluator) HandleEvaluate(ctx context.Context, _ *asynq.Task) error {
	now := e.Now()
	year := strconv.Itoa(now.Year())
	month := strconv.Itoa(int(now.Month()))
	day := strconv.Itoa(now.Day())

	var settings models.ThresholdSettings
	configured, err := e.Store.Get(ctx, storex.ThresholdSettingsPath(), &settings)
	if err != nil {
		return err
	}
	if !configured || settings.Threshold <= 0 {
		return nil
	}

	var summary models.ThresholdSummary
	found, err := e.Store.Get(ctx, storex.ThresholdSummaryPath(year, month, day), &summary)
	if err != nil {
		return err
	}
	if !found || summary.TotalOrders < settings.Threshold {
		return nil
	}

	acquired, err := e.Guard(ctx, "alert:threshold:"+year+"-"+month+"-"+day)
	if err != nil {
		return err
	}
	if !acquired {
		return nil
	}

	var users map[string]models.TelegramUser
	if _, err := e.Store.Get(ctx, storex.TelegramUsersPath(), &users); err != nil {
		return err
	}

	text := composeAlertText(settings, summary)
	sent := 0
	for _, u := range users {
		if !u.AddedToList || !u.ScanThreshold {
			continue
		}
		payload, _ := json.Marshal(DispatchPayload{ChatID: u.ChatID, Text: text})
		task := asynq.NewTask(TaskAlertDispatch, payload, asynq.Queue(e.Queue))
		if _, err := e.Enqueuer.Enqueue(task); err != nil {
			e.Logger.Error(ctx, "enqueue_failed", "failed to enqueue alert dispatch",
				slog.String("error_code", "INTERNAL_ERROR"),
				slog.Int64("chat_id", u.ChatID),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}
	e.Logger.Info(ctx, "threshold_alert", "scan threshold reached",
		slog.String("day", year+"-"+month+"-"+day),
		slog.Int("total_orders", summary.TotalOrders),
		slog.Int("threshold", settings.Threshold),
		slog.Int("recipients", sent),
	)
	return nil
}

func composeAlertText(settings models.ThresholdSettings, summary models.ThresholdSummary) string {
	return fmt.Sprintf("%s\n\nOrders: %d\nProducts: %d\nWeight: %.2f kg\nVolume: %.3f m3",
		settings.Message, summary.TotalOrders, summary.TotalProducts, summary.TotalWeight, summary.TotalVolume)
}

// TelegramAPI is the slice of tgbotapi.BotAPI the dispatcher needs.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher delivers a single alert message. Send failures are returned so
// asynq retries the task with backoff.
type Dispatcher struct {
	Bot    TelegramAPI
	Logger logx.Logger
}

// HandleDispatch is the alert.dispatch task handler.
func (d *Dispatcher) HandleDispatch(ctx context.Context, t *asynq.Task) error {
	var payload DispatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode dispatch payload: %w", err)
	}
	if payload.ChatID == 0 || payload.Text == "" {
		return nil
	}
	if d.Bot == nil {
		d.Logger.Warn(ctx, "telegram_disabled", "telegram bot not configured, dropping alert",
			slog.Int64("chat_id", payload.ChatID),
		)
		return nil
	}
	msg := tgbotapi.NewMessage(payload.ChatID, payload.Text)
	if _, err := d.Bot.Send(msg); err != nil {
		metricsx.IncTelegramSendFailure()
		d.Logger.Error(ctx, "telegram_send_failed", "failed to send alert",
			slog.String("error_code", "INTERNAL_ERROR"),
			slog.Int64("chat_id", payload.ChatID),
			slog.String("error", err.Error()),
		)
		return err
	}
	d.Logger.Info(ctx, "alert_sent", "alert delivered", slog.Int64("chat_id", payload.ChatID))
	return nil
}
