package unit

import (
	"context"
	"errors"
	"sync"

	"spotlight/internal/shared/outbox"
)

// roleTable is a fixed account id to role mapping.
type roleTable map[string]string

func (t roleTable) GetRole(_ context.Context, accountID string) (string, error) {
	role, ok := t[accountID]
	if !ok {
		return "", errors.New("profile not found")
	}
	return role, nil
}

type capturedOutbox struct {
	mu     sync.Mutex
	events []outbox.Envelope
}

func (c *capturedOutbox) AppendOutbox(_ context.Context, envelope outbox.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, envelope)
	return nil
}

func (c *capturedOutbox) Types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, item := range c.events {
		out = append(out, item.EventType)
	}
	return out
}
