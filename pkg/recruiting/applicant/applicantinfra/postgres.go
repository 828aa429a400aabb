package applicantinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/iam/access/accessinfra"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant"
	"github.com/jmoiron/sqlx"
)

const applicantColumns = `a.id, a.job_id, a.event_id, a.name, a.email, a.stage, a.source, a.interview_at, a.created_at, a.updated_at`

const defaultLimit = 50

type PostgresApplicantRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicantRepository(db *sqlx.DB) applicant.Repository {
	return &PostgresApplicantRepository{db: db}
}

func (r *PostgresApplicantRepository) Create(ctx context.Context, a *applicant.Applicant) error {
	query := `
		INSERT INTO applicants (id, job_id, event_id, name, email, stage, source, created_at, updated_at)
		VALUES (:id, :job_id, :event_id, :name, :email, :stage, :source, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return errx.Wrap(err, "failed to create applicant", errx.TypeInternal).
			WithDetail("applicant_id", a.ID.String())
	}
	return nil
}

func (r *PostgresApplicantRepository) FindByID(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants a WHERE a.id = $1`

	var a applicant.Applicant
	if err := r.db.GetContext(ctx, &a, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find applicant", errx.TypeInternal).
			WithDetail("applicant_id", id.String())
	}
	return &a, nil
}

func (r *PostgresApplicantRepository) List(ctx context.Context, filter access.Predicate, opts applicant.ListOptions) ([]*applicant.Applicant, error) {
	where, args, ok, err := accessinfra.WhereClause(filter, accessinfra.ApplicantColumns)
	if err != nil {
		return nil, errx.Wrap(err, "failed to build applicant filter", errx.TypeInternal)
	}
	if !ok {
		return []*applicant.Applicant{}, nil
	}

	query := `SELECT ` + applicantColumns + ` FROM applicants a WHERE ` + where
	if opts.Stage != "" {
		query += ` AND a.stage = ?`
		args = append(args, string(opts.Stage))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT %d OFFSET %d`, limit, max(opts.Offset, 0))

	var rows []applicant.Applicant
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errx.Wrap(err, "failed to list applicants", errx.TypeInternal).
			WithDetail("filter", filter.String())
	}

	result := make([]*applicant.Applicant, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (r *PostgresApplicantRepository) UpdateStage(ctx context.Context, id kernel.ApplicantID, stage applicant.Stage) error {
	query := `UPDATE applicants SET stage = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, string(stage), id.String())
	if err != nil {
		return errx.Wrap(err, "failed to update applicant stage", errx.TypeInternal).
			WithDetail("applicant_id", id.String())
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	if affected == 0 {
		return applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
	}
	return nil
}

func (r *PostgresApplicantRepository) UpdateInterview(ctx context.Context, id kernel.ApplicantID, at *time.Time) error {
	query := `UPDATE applicants SET interview_at = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, at, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to update applicant interview", errx.TypeInternal).
			WithDetail("applicant_id", id.String())
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to read affected rows", errx.TypeInternal)
	}
	if affected == 0 {
		return applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
	}
	return nil
}
