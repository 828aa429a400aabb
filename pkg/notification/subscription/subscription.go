package subscription

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/user"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// ============================================================================
// Subscription Entity
// ============================================================================

type Type string

const (
	TypeJob        Type = "job"
	TypeDepartment Type = "department"
	TypeOffice     Type = "office"
	TypeEvent      Type = "event"
	TypeAll        Type = "all"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeJob, TypeDepartment, TypeOffice, TypeEvent, TypeAll:
		return true
	}
	return false
}

// Target is what a subscription points at. The value of an "all" target is empty.
type Target struct {
	Type  Type   `json:"type"`
	Value string `json:"value"`
}

// NewTarget validates and normalises a target.
func NewTarget(t Type, value string) (Target, error) {
	t = Type(strings.ToLower(strings.TrimSpace(string(t))))
	value = strings.TrimSpace(value)

	if !t.IsValid() {
		return Target{}, ErrInvalidType().WithDetail("type", string(t))
	}
	if t == TypeAll {
		return Target{Type: TypeAll}, nil
	}
	if value == "" {
		return Target{}, ErrInvalidTarget().WithDetail("type", string(t))
	}
	return Target{Type: t, Value: value}, nil
}

type Subscription struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	Type      Type          `db:"type" json:"type"`
	Value     string        `db:"value" json:"value"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

func (s Subscription) Target() Target {
	return Target{Type: s.Type, Value: s.Value}
}

// LegacySubscription is a row of the old job-only subscribers table.
type LegacySubscription struct {
	UserID kernel.UserID `db:"user_id" json:"user_id"`
	JobID  string        `db:"job_id" json:"job_id"`
}

// ============================================================================
// Repository
// ============================================================================

type Repository interface {
	// FindMatching returns subscriptions equal to any of targets.
	FindMatching(ctx context.Context, targets []Target) ([]Subscription, error)
	// FindWildcardSubscribers returns the users holding an "all"
	// subscription, with role and scope attributes loaded.
	FindWildcardSubscribers(ctx context.Context) ([]*user.User, error)
	FindLegacyByJob(ctx context.Context, jobID string) ([]LegacySubscription, error)
	ListByTarget(ctx context.Context, target Target) ([]Subscription, error)
	ListByUser(ctx context.Context, userID kernel.UserID) ([]Subscription, error)
	// ReplaceSubscribers deletes every subscription on target and recreates
	// one per user in a single transaction.
	ReplaceSubscribers(ctx context.Context, target Target, userIDs []kernel.UserID) error
	// MigrateLegacy copies legacy rows into job subscriptions, skipping
	// duplicates, and returns the number of rows created.
	MigrateLegacy(ctx context.Context) (int64, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("SUBSCRIPTION")

var (
	CodeInvalidType   = ErrRegistry.Register("INVALID_TYPE", errx.TypeValidation, http.StatusBadRequest, "Subscription type must be job, department, office, event or all")
	CodeInvalidTarget = ErrRegistry.Register("INVALID_TARGET", errx.TypeValidation, http.StatusBadRequest, "Subscription value is required for this type")
	CodeUnknownUsers  = ErrRegistry.Register("UNKNOWN_USERS", errx.TypeValidation, http.StatusBadRequest, "Some subscribers do not exist")
)

func ErrInvalidType() *errx.Error {
	return ErrRegistry.New(CodeInvalidType)
}

func ErrInvalidTarget() *errx.Error {
	return ErrRegistry.New(CodeInvalidTarget)
}

func ErrUnknownUsers() *errx.Error {
	return ErrRegistry.New(CodeUnknownUsers)
}
