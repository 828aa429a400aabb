package accessinfra

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresAccessRepository reads scope attributes and assignments.
type PostgresAccessRepository struct {
	db *sqlx.DB
}

func NewPostgresAccessRepository(db *sqlx.DB) access.Repository {
	return &PostgresAccessRepository{db: db}
}

func (r *PostgresAccessRepository) ListJobScopes(ctx context.Context) ([]access.ScopedResource, error) {
	query := `
		SELECT id, COALESCE(department, '') AS department, COALESCE(office_id, '') AS office_id
		FROM jobs`

	var rows []access.ScopedResource
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errx.Wrap(err, "failed to list job scopes", errx.TypeInternal)
	}
	return rows, nil
}

func (r *PostgresAccessRepository) ListEventScopes(ctx context.Context) ([]access.ScopedResource, error) {
	query := `
		SELECT id, COALESCE(department, '') AS department, COALESCE(office_id, '') AS office_id
		FROM events`

	var rows []access.ScopedResource
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errx.Wrap(err, "failed to list event scopes", errx.TypeInternal)
	}
	return rows, nil
}

func (r *PostgresAccessRepository) ListAssignedJobIDs(ctx context.Context, userID kernel.UserID) ([]string, error) {
	query := `SELECT job_id FROM job_assignments WHERE user_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list job assignments", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}
	return ids, nil
}

func (r *PostgresAccessRepository) ListAssignedEventIDs(ctx context.Context, userID kernel.UserID) ([]string, error) {
	query := `SELECT event_id FROM event_assignments WHERE user_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list event assignments", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}
	return ids, nil
}

func (r *PostgresAccessRepository) HasJobAssignment(ctx context.Context, userID kernel.UserID, jobID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM job_assignments WHERE user_id = $1 AND job_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID.String(), jobID); err != nil {
		return false, errx.Wrap(err, "failed to check job assignment", errx.TypeInternal).
			WithDetail("user_id", userID.String()).
			WithDetail("job_id", jobID)
	}
	return exists, nil
}

func (r *PostgresAccessRepository) HasEventAssignment(ctx context.Context, userID kernel.UserID, eventID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM event_assignments WHERE user_id = $1 AND event_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID.String(), eventID); err != nil {
		return false, errx.Wrap(err, "failed to check event assignment", errx.TypeInternal).
			WithDetail("user_id", userID.String()).
			WithDetail("event_id", eventID)
	}
	return exists, nil
}
