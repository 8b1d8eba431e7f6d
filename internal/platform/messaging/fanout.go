package messaging

import (
	"context"
	"fmt"

	contractsv1 "spotlight/contracts/gen/events/v1"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
}

// Fanout publishes to every target in order and stops at the first failure,
// so the outbox row stays pending and is retried on the next relay cycle.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	for i, target := range f {
		if target == nil {
			continue
		}
		if err := target.Publish(ctx, topic, event); err != nil {
			return fmt.Errorf("publish target %d: %w", i, err)
		}
	}
	return nil
}
