package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"prism/contexts/finance-core/split-engine/adapters/memory"
	"prism/contexts/finance-core/split-engine/ports"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestOutboxRelayPublishesAndAcknowledges(t *testing.T) {
	store := memory.NewStore(0, "platform-fees")
	ctx := context.Background()

	occurredAt := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	if err := store.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:    "evt-1",
		EventType:  "payout.completed",
		OccurredAt: occurredAt,
	}); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		Topic:     "split-engine.events",
	}

	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.events))
	}
	if publisher.topics[0] != "split-engine.events" {
		t.Fatalf("unexpected topic %q", publisher.topics[0])
	}
	if publisher.events[0].EventID != "evt-1" || publisher.events[0].EventType != "payout.completed" {
		t.Fatalf("unexpected envelope: %+v", publisher.events[0])
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained, got %d pending", len(pending))
	}

	// Nothing left: another cycle publishes nothing.
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected no extra publishes, got %d", len(publisher.events))
	}
}

func TestOutboxRelayKeepsMessagePendingOnPublishFailure(t *testing.T) {
	store := memory.NewStore(0, "platform-fees")
	ctx := context.Background()

	if err := store.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:    "evt-1",
		EventType:  "split.registered",
		OccurredAt: time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	publisher := &capturingPublisher{fail: true}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}

	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected relay to surface publish failure")
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected message still pending after failure, got %d", len(pending))
	}
}
