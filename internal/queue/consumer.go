package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
)

const maxBackoff = 30 * time.Second

// StartScheduleConsumer connects to RabbitMQ, declares the schedule queue
// (durable) and appends every ScheduleSavedEvent to cfg.ConsumerLogPath as
// a single line.  It reconnects with exponential backoff and only returns
// once ctx is cancelled.  Messages that cannot be handled are rejected
// without requeue so a bad payload cannot loop.
func StartScheduleConsumer(ctx context.Context, cfg config.QueueConfig, log zerolog.Logger) error {
	log = log.With().Str("component", "schedule-consumer").Str("queue", cfg.ScheduleQueue).Logger()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, cfg, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, cfg.ReconnectDelay) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(cfg.ScheduleQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.ScheduleQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info().Msg("consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(d.Body, cfg.ConsumerLogPath); err != nil {
				log.Error().Err(err).Msg("handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends its line to path, creating
// the parent directory when needed.
func HandleMessage(body []byte, path string) error {
	var ev ScheduleSavedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ScheduleID == "" {
		return errors.New("event without schedule_id")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders the human-friendly log line of an event.
func FormatLine(ev ScheduleSavedEvent) string {
	return fmt.Sprintf("[%s] Schedule saved | schedule_id=%s | user_id=%d | cinema=%q | date=%s | name=%q | %s-%s (%d min) | movies=[%s]\n",
		ev.SavedAt, ev.ScheduleID, ev.UserID, ev.CinemaCode, ev.Date, ev.Name,
		ev.StartTime, ev.EndTime, ev.TotalMinutes, strings.Join(ev.Movies, ","))
}

// sleep waits for d or until ctx is done; it reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
