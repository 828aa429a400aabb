package eventinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresEventRepository struct {
	db *sqlx.DB
}

func NewPostgresEventRepository(db *sqlx.DB) event.Repository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) FindByID(ctx context.Context, id kernel.EventID) (*event.Event, error) {
	query := `
		SELECT id, name, department, office_id, starts_at, created_at
		FROM events
		WHERE id = $1`

	var e event.Event
	if err := r.db.GetContext(ctx, &e, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound().WithDetail("event_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find event", errx.TypeInternal).
			WithDetail("event_id", id.String())
	}
	return &e, nil
}

func (r *PostgresEventRepository) List(ctx context.Context, ids access.IDSet) ([]*event.Event, error) {
	if ids.IsEmpty() {
		return []*event.Event{}, nil
	}

	query := `
		SELECT id, name, department, office_id, starts_at, created_at
		FROM events`
	var args []any
	if !ids.IsUnrestricted() {
		query += ` WHERE id = ANY($1)`
		args = append(args, pq.Array(ids.Slice()))
	}
	query += ` ORDER BY starts_at DESC NULLS LAST, created_at DESC`

	var rows []event.Event
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list events", errx.TypeInternal)
	}

	result := make([]*event.Event, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
