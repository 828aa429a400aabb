package userinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/user"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `
	id, email, name, role, scoped_departments, scoped_offices,
	COALESCE(scope_mode, 'OR') AS scope_mode, event_access, created_at, updated_at`

// PostgresUserRepository is the PostgreSQL implementation of user.UserRepository.
type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) user.UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

// FindByID loads one user with its scope attributes.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = $1`

	var u user.User
	err := r.db.GetContext(ctx, &u, query, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound().WithDetail("user_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find user by id", errx.TypeInternal).
			WithDetail("user_id", id.String())
	}

	return &u, nil
}

// FindByIDs loads the users that exist among ids. Missing ids are skipped.
func (r *PostgresUserRepository) FindByIDs(ctx context.Context, ids []kernel.UserID) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = ANY($1)
		ORDER BY name ASC`

	var users []user.User
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to find users by ids", errx.TypeInternal).
			WithDetail("count", len(ids))
	}

	result := make([]*user.User, len(users))
	for i := range users {
		result[i] = &users[i]
	}

	return result, nil
}
