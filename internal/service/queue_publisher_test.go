package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/queue"
)

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func testPublisher(enabled bool) *Publisher {
	return NewPublisher(config.QueueConfig{Enabled: enabled, URL: "amqp://test", ScheduleQueue: "schedule.saved"}, zerolog.New(io.Discard))
}

func TestPublishScheduleSaved(t *testing.T) {
	p := testPublisher(true)
	ch := &fakeChannel{}
	closed := 0
	p.dial = func(string, time.Duration) (channel, func(), error) { return ch, func() { closed++ }, nil }

	if err := p.PublishScheduleSaved(context.Background(), queue.ScheduleSavedEvent{ScheduleID: "01ABC", UserID: 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(ch.published) != 1 || ch.keys[0] != "schedule.saved" || ch.declared[0] != "schedule.saved" {
		t.Fatalf("unexpected publish %+v", ch)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Errorf("unexpected message properties %+v", msg)
	}
	var ev queue.ScheduleSavedEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil || ev.ScheduleID != "01ABC" {
		t.Errorf("unexpected body %s (%v)", msg.Body, err)
	}
	if closed != 1 {
		t.Errorf("expected connection closed once, got %d", closed)
	}
}

func TestPublishDisabled(t *testing.T) {
	p := testPublisher(false)
	p.dial = func(string, time.Duration) (channel, func(), error) {
		t.Fatal("disabled publisher must not dial")
		return nil, nil, nil
	}
	if err := p.PublishScheduleSaved(context.Background(), queue.ScheduleSavedEvent{}); !errors.Is(err, ErrPublishingDisabled) {
		t.Errorf("expected ErrPublishingDisabled, got %v", err)
	}
}

func TestPublishBreakerOpens(t *testing.T) {
	p := testPublisher(true)
	dials := 0
	p.dial = func(string, time.Duration) (channel, func(), error) {
		dials++
		return nil, nil, errors.New("connection refused")
	}
	for i := 0; i < 3; i++ {
		if err := p.PublishScheduleSaved(context.Background(), queue.ScheduleSavedEvent{ScheduleID: "x"}); err == nil {
			t.Fatal("expected dial error")
		}
	}
	err := p.PublishScheduleSaved(context.Background(), queue.ScheduleSavedEvent{ScheduleID: "x"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open breaker, got %v", err)
	}
	if dials != 3 {
		t.Errorf("expected 3 dials before the breaker opened, got %d", dials)
	}
}

func TestDialTimeoutFollowsContext(t *testing.T) {
	got, err := dialTimeout(context.Background(), 0)
	if err != nil || got != defaultDialTimeout {
		t.Errorf("expected default %s, got %s (%v)", defaultDialTimeout, got, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	got, err = dialTimeout(ctx, 2*time.Second)
	if err != nil || got <= 0 || got > 200*time.Millisecond {
		t.Errorf("expected the context deadline to cap the dial, got %s (%v)", got, err)
	}

	done, stop := context.WithCancel(context.Background())
	stop()
	if _, err := dialTimeout(done, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPublishPassesBoundedDialTimeout(t *testing.T) {
	p := testPublisher(true)
	var seen time.Duration
	p.dial = func(_ string, timeout time.Duration) (channel, func(), error) {
		seen = timeout
		return &fakeChannel{}, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := p.PublishScheduleSaved(ctx, queue.ScheduleSavedEvent{ScheduleID: "01ABC"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if seen <= 0 || seen > 300*time.Millisecond {
		t.Errorf("expected dial timeout capped by the publish context, got %s", seen)
	}
}
