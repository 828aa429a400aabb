package subscriptioninfra

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/user"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

// PostgresSubscriptionRepository stores notification_subscriptions and reads
// the legacy job_subscribers table.
type PostgresSubscriptionRepository struct {
	db *sqlx.DB
}

func NewPostgresSubscriptionRepository(db *sqlx.DB) subscription.Repository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) FindMatching(ctx context.Context, targets []subscription.Target) ([]subscription.Subscription, error) {
	if len(targets) == 0 {
		return []subscription.Subscription{}, nil
	}

	conds := make([]string, 0, len(targets))
	args := make([]any, 0, len(targets)*2)
	for _, t := range targets {
		conds = append(conds, "(type = ? AND value = ?)")
		args = append(args, string(t.Type), t.Value)
	}

	query := r.db.Rebind(`
		SELECT id, user_id, type, value, created_at
		FROM notification_subscriptions
		WHERE ` + strings.Join(conds, " OR "))

	var subs []subscription.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to find matching subscriptions", errx.TypeInternal).
			WithDetail("targets", len(targets))
	}
	return subs, nil
}

func (r *PostgresSubscriptionRepository) FindWildcardSubscribers(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT
			u.id, u.email, u.name, u.role, u.scoped_departments, u.scoped_offices,
			COALESCE(u.scope_mode, 'OR') AS scope_mode, u.event_access, u.created_at, u.updated_at
		FROM users u
		WHERE u.id IN (
			SELECT s.user_id FROM notification_subscriptions s WHERE s.type = $1
		)`

	var users []user.User
	if err := r.db.SelectContext(ctx, &users, query, string(subscription.TypeAll)); err != nil {
		return nil, errx.Wrap(err, "failed to find wildcard subscribers", errx.TypeInternal)
	}

	result := make([]*user.User, len(users))
	for i := range users {
		result[i] = &users[i]
	}
	return result, nil
}

func (r *PostgresSubscriptionRepository) FindLegacyByJob(ctx context.Context, jobID string) ([]subscription.LegacySubscription, error) {
	query := `SELECT user_id, job_id FROM job_subscribers WHERE job_id = $1`

	var rows []subscription.LegacySubscription
	if err := r.db.SelectContext(ctx, &rows, query, jobID); err != nil {
		return nil, errx.Wrap(err, "failed to find legacy job subscribers", errx.TypeInternal).
			WithDetail("job_id", jobID)
	}
	return rows, nil
}

func (r *PostgresSubscriptionRepository) ListByTarget(ctx context.Context, target subscription.Target) ([]subscription.Subscription, error) {
	query := `
		SELECT id, user_id, type, value, created_at
		FROM notification_subscriptions
		WHERE type = $1 AND value = $2
		ORDER BY created_at ASC`

	var subs []subscription.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, string(target.Type), target.Value); err != nil {
		return nil, errx.Wrap(err, "failed to list subscriptions", errx.TypeInternal).
			WithDetail("type", string(target.Type)).
			WithDetail("value", target.Value)
	}
	return subs, nil
}

func (r *PostgresSubscriptionRepository) ListByUser(ctx context.Context, userID kernel.UserID) ([]subscription.Subscription, error) {
	query := `
		SELECT id, user_id, type, value, created_at
		FROM notification_subscriptions
		WHERE user_id = $1
		ORDER BY type ASC, value ASC`

	var subs []subscription.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list user subscriptions", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}
	return subs, nil
}

func (r *PostgresSubscriptionRepository) ReplaceSubscribers(ctx context.Context, target subscription.Target, userIDs []kernel.UserID) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM notification_subscriptions WHERE type = $1 AND value = $2`,
		string(target.Type), target.Value,
	); err != nil {
		return errx.Wrap(err, "failed to clear subscribers", errx.TypeInternal).
			WithDetail("type", string(target.Type))
	}

	insert := `
		INSERT INTO notification_subscriptions (id, user_id, type, value, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	now := time.Now().UTC()
	seen := make(map[kernel.UserID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup || id.IsEmpty() {
			continue
		}
		seen[id] = struct{}{}

		if _, err = tx.ExecContext(ctx, insert, uuid.NewString(), id.String(), string(target.Type), target.Value, now); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
				return subscription.ErrUnknownUsers().WithDetail("user_id", id.String())
			}
			return errx.Wrap(err, "failed to add subscriber", errx.TypeInternal).
				WithDetail("user_id", id.String())
		}
	}

	if err = tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit subscribers", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) MigrateLegacy(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO notification_subscriptions (id, user_id, type, value, created_at)
		SELECT gen_random_uuid(), js.user_id, $1, js.job_id, NOW()
		FROM job_subscribers js
		WHERE NOT EXISTS (
			SELECT 1 FROM notification_subscriptions s
			WHERE s.user_id = js.user_id AND s.type = $1 AND s.value = js.job_id
		)`

	result, err := r.db.ExecContext(ctx, query, string(subscription.TypeJob))
	if err != nil {
		return 0, errx.Wrap(err, "failed to migrate legacy subscriptions", errx.TypeInternal)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	return n, nil
}
