// Package service holds integrations the HTTP layer calls after a request
// has succeeded.  Publisher sends domain events to RabbitMQ behind a
// circuit breaker so a broker outage costs one fast failure per request
// instead of a dial timeout.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/queue"
)

// ErrPublishingDisabled is returned by a Publisher built with QUEUE_ENABLED=false.
var ErrPublishingDisabled = errors.New("queue publishing disabled")

// dialFunc opens a broker channel within timeout; tests replace it.
type dialFunc func(url string, timeout time.Duration) (channel, func(), error)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher publishes ScheduleSavedEvent messages.
type Publisher struct {
	cfg     config.QueueConfig
	breaker *gobreaker.CircuitBreaker[struct{}]
	dial    dialFunc
	log     zerolog.Logger
}

// NewPublisher returns a Publisher for cfg.  The breaker opens after three
// consecutive failures and probes again after 30s.
func NewPublisher(cfg config.QueueConfig, log zerolog.Logger) *Publisher {
	log = log.With().Str("component", "publisher").Logger()
	settings := gobreaker.Settings{
		Name:        "rabbitmq-publish",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &Publisher{
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		dial:    dialAMQP,
		log:     log,
	}
}

func dialAMQP(url string, timeout time.Duration) (channel, func(), error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, func() { _ = ch.Close(); _ = conn.Close() }, nil
}

// PublishScheduleSaved publishes ev to the schedule queue as a persistent
// JSON message.  Errors are logged and returned so the caller can choose
// to ignore them.
func (p *Publisher) PublishScheduleSaved(ctx context.Context, ev queue.ScheduleSavedEvent) error {
	if !p.cfg.Enabled {
		return ErrPublishingDisabled
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publish(ctx, body)
	})
	if err != nil {
		p.log.Error().Err(err).Str("schedule_id", ev.ScheduleID).Msg("publish schedule.saved failed")
		return err
	}
	p.log.Debug().Str("schedule_id", ev.ScheduleID).Msg("schedule.saved published")
	return nil
}

func (p *Publisher) publish(ctx context.Context, body []byte) error {
	timeout, err := dialTimeout(ctx, p.cfg.DialTimeout)
	if err != nil {
		return err
	}
	ch, closeFn, err := p.dial(p.cfg.URL, timeout)
	if err != nil {
		return err
	}
	defer closeFn()

	// Ensure the queue exists (idempotent).  Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.cfg.ScheduleQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",                  // default exchange
		p.cfg.ScheduleQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

// defaultDialTimeout applies when QueueConfig.DialTimeout is unset.
const defaultDialTimeout = 2 * time.Second

// dialTimeout bounds a connect by the configured timeout and by whatever is
// left of ctx.
func dialTimeout(ctx context.Context, configured time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if configured <= 0 {
		configured = defaultDialTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < configured {
			return left, nil
		}
	}
	return configured, nil
}
