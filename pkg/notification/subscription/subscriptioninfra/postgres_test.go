package subscriptioninfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, subscription.Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, NewPostgresSubscriptionRepository(sqlxDB)
}

var subColumns = []string{"id", "user_id", "type", "value", "created_at"}

func TestFindMatching(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE \(type = \$1 AND value = \$2\) OR \(type = \$3 AND value = \$4\)`).
		WithArgs("job", "job-1", "office", "office-biloxi").
		WillReturnRows(sqlmock.NewRows(subColumns).
			AddRow("s-1", "user-1", "job", "job-1", now).
			AddRow("s-2", "user-2", "office", "office-biloxi", now))

	subs, err := repo.FindMatching(context.Background(), []subscription.Target{
		{Type: subscription.TypeJob, Value: "job-1"},
		{Type: subscription.TypeOffice, Value: "office-biloxi"},
	})

	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, kernel.UserID("user-2"), subs[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMatching_NoTargetsSkipsQuery(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	subs, err := repo.FindMatching(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindWildcardSubscribers_LoadsScopeAttributes(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "email", "name", "role", "scoped_departments", "scoped_offices",
		"scope_mode", "event_access", "created_at", "updated_at",
	}).
		AddRow("hm-1", "hm@example.com", "HM", "hiring_manager", "{Design}", nil, "AND", true, now, now).
		AddRow("admin-1", "admin@example.com", "Admin", "admin", nil, nil, "OR", true, now, now)

	mock.ExpectQuery(`FROM users u`).WithArgs("all").WillReturnRows(rows)

	users, err := repo.FindWildcardSubscribers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)

	role, err := users[0].AccessRole()
	require.NoError(t, err)
	hm := role.(access.HiringManager)
	assert.True(t, hm.IsScoped())
	assert.Equal(t, []string{"Design"}, hm.Departments.Values())
	assert.False(t, hm.Offices.IsRestricted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLegacyByJob_Error(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM job_subscribers`).WithArgs("job-1").WillReturnError(errors.New("relation does not exist"))

	_, err := repo.FindLegacyByJob(context.Background(), "job-1")

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
}

func TestReplaceSubscribers_DeleteAndRecreate(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	target := subscription.Target{Type: subscription.TypeDepartment, Value: "Interiors"}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM notification_subscriptions`).
		WithArgs("department", "Interiors").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO notification_subscriptions`).
		WithArgs(sqlmock.AnyArg(), "user-1", "department", "Interiors", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notification_subscriptions`).
		WithArgs(sqlmock.AnyArg(), "user-2", "department", "Interiors", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceSubscribers(context.Background(), target, []kernel.UserID{"user-1", "user-2", "user-1"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSubscribers_UnknownUserRollsBack(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	target := subscription.Target{Type: subscription.TypeJob, Value: "job-1"}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM notification_subscriptions`).
		WithArgs("job", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO notification_subscriptions`).
		WithArgs(sqlmock.AnyArg(), "ghost", "job", "job-1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	err := repo.ReplaceSubscribers(context.Background(), target, []kernel.UserID{"ghost"})

	require.Error(t, err)
	assert.True(t, errx.IsCode(err, subscription.CodeUnknownUsers))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateLegacy(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notification_subscriptions`).
		WithArgs("job").
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.MigrateLegacy(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
