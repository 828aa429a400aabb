package notificationinfra

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/notification"
	"github.com/jmoiron/sqlx"
)

// PostgresSink writes notification rows for the in-app inbox.
type PostgresSink struct {
	db *sqlx.DB
}

func NewPostgresSink(db *sqlx.DB) notification.Sink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Deliver(ctx context.Context, n notification.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, link, read, created_at)
		VALUES (:id, :user_id, :type, :title, :message, :link, :read, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, n); err != nil {
		return errx.Wrap(err, "failed to insert notification", errx.TypeInternal).
			WithDetail("user_id", n.UserID.String()).
			WithDetail("type", string(n.Type))
	}
	return nil
}
