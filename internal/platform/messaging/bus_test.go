package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	contractsv1 "spotlight/contracts/gen/events/v1"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan contractsv1.Envelope, 1)
	if err := bus.Subscribe(ctx, "campaign.created", "test-cg", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "campaign.created", contractsv1.Envelope{EventID: "evt-1", EventType: "campaign.created"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" {
			t.Fatalf("expected evt-1, got %s", event.EventID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event was not delivered")
	}
}

func TestBusIgnoresOtherTopics(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan contractsv1.Envelope, 1)
	_ = bus.Subscribe(ctx, "campaign.created", "test-cg", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	})
	_ = bus.Publish(ctx, "account.registered", contractsv1.Envelope{EventID: "evt-2"})

	select {
	case event := <-received:
		t.Fatalf("unexpected delivery of %s", event.EventID)
	case <-time.After(50 * time.Millisecond):
	}
}

type recordingPublisher struct {
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ contractsv1.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	return nil
}

func TestFanoutStopsAtFirstFailure(t *testing.T) {
	first := &recordingPublisher{err: errors.New("broker down")}
	second := &recordingPublisher{}

	err := Fanout{first, second}.Publish(context.Background(), "campaign.created", contractsv1.Envelope{})
	if err == nil {
		t.Fatalf("expected error from failing target")
	}
	if len(second.topics) != 0 {
		t.Fatalf("expected second target to be skipped, got %v", second.topics)
	}
}

func TestFanoutPublishesToAllTargets(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}

	if err := (Fanout{first, nil, second}).Publish(context.Background(), "campaign.created", contractsv1.Envelope{}); err != nil {
		t.Fatalf("fanout publish failed: %v", err)
	}
	if len(first.topics) != 1 || len(second.topics) != 1 {
		t.Fatalf("expected one publish per target, got %v and %v", first.topics, second.topics)
	}
}
