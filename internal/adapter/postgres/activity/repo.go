// Package activity implements the activity log repository using PostgreSQL.
// It is the consumer side of the event publisher: every domain event gets a
// row here, written by the publisher's drain goroutine.
package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mkravchenko/notekeep-backend/internal/adapter/postgres"
	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Record appends one event to the log.
func (r *Repo) Record(ctx context.Context, e domain.DomainEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO activity_log (id, action, acting_user_id, entity_type, entity_id, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Action.String(), e.ActingUserID, e.EntityType.String(), e.EntityID, e.Description, e.OccurredAt,
	)
	if err != nil {
		return postgres.MapError(err, "activity", e.ID)
	}
	return nil
}

// ListRecent returns the newest events first, capped at limit.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.DomainEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, action, acting_user_id, entity_type, entity_id, description, occurred_at
		FROM activity_log
		ORDER BY occurred_at DESC, id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, postgres.MapError(err, "activity", uuid.Nil)
	}
	defer rows.Close()

	var events []domain.DomainEvent
	for rows.Next() {
		var (
			e          domain.DomainEvent
			action     string
			entityType string
		)
		if err := rows.Scan(&e.ID, &action, &e.ActingUserID, &entityType, &e.EntityID, &e.Description, &e.OccurredAt); err != nil {
			return nil, postgres.MapError(err, "activity", e.ID)
		}
		e.Action = domain.EventAction(action)
		e.EntityType = domain.EntityType(entityType)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "activity", uuid.Nil)
	}
	return events, nil
}
