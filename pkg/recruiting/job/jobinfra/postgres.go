package jobinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresJobRepository struct {
	db *sqlx.DB
}

func NewPostgresJobRepository(db *sqlx.DB) job.Repository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `
		SELECT id, title, COALESCE(department, '') AS department, office_id, published, created_at
		FROM jobs
		WHERE id = $1`

	var j job.Job
	if err := r.db.GetContext(ctx, &j, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find job", errx.TypeInternal).
			WithDetail("job_id", id.String())
	}
	return &j, nil
}

func (r *PostgresJobRepository) List(ctx context.Context, ids access.IDSet) ([]*job.Job, error) {
	if ids.IsEmpty() {
		return []*job.Job{}, nil
	}

	query := `
		SELECT id, title, COALESCE(department, '') AS department, office_id, published, created_at
		FROM jobs`
	var args []any
	if !ids.IsUnrestricted() {
		query += ` WHERE id = ANY($1)`
		args = append(args, pq.Array(ids.Slice()))
	}
	query += ` ORDER BY created_at DESC`

	var rows []job.Job
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}

	result := make([]*job.Job, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
