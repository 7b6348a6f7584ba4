package postgres

import (
	"context"
	"fmt"
)

// MarkEventSeen records a webhook delivery in the insert-or-skip ledger and
// reports whether this event id is new. A replayed delivery hits the unique
// constraint, inserts nothing, and returns false, which lets the reconciler
// acknowledge the replay without reprocessing it.
func (s *Store) MarkEventSeen(ctx context.Context, provider, eventID, eventType string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO webhook_events (provider, event_id, event_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, event_id) DO NOTHING`,
		provider, eventID, eventType,
	)
	if err != nil {
		return false, fmt.Errorf("mark event seen: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
