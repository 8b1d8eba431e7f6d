package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrMessageNotFound = errors.New("outbox message not found")

type MemoryStore struct {
	mu       sync.Mutex
	messages map[string]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string]Message)}
}

func (s *MemoryStore) AppendOutbox(_ context.Context, envelope Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(envelope.EventID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.messages[id]; exists {
		return nil
	}
	s.messages[id] = Message{
		OutboxID:     id,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       StatusPending,
		CreatedAt:    createdAt,
	}
	return nil
}

func (s *MemoryStore) ListPendingOutbox(_ context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Message, 0)
	for _, item := range s.messages {
		if item.Status == StatusPending {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.messages[strings.TrimSpace(outboxID)]
	if !exists {
		return ErrMessageNotFound
	}
	at := publishedAt.UTC()
	item.Status = StatusPublished
	item.PublishedAt = &at
	s.messages[item.OutboxID] = item
	return nil
}

func (s *MemoryStore) MarkOutboxFailed(_ context.Context, outboxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.messages[strings.TrimSpace(outboxID)]
	if !exists {
		return ErrMessageNotFound
	}
	item.Status = StatusFailed
	s.messages[item.OutboxID] = item
	return nil
}
