package event

import (
	"context"
	"net/http"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/ptrx"
)

// Event is a recruiting event such as a job fair. Department and office are
// optional; an event without them is visible to unscoped staff only.
type Event struct {
	ID         kernel.EventID `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Department *string        `db:"department" json:"department,omitempty"`
	OfficeID   *string        `db:"office_id" json:"office_id,omitempty"`
	StartsAt   *time.Time     `db:"starts_at" json:"starts_at,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

func (e *Event) DepartmentName() string {
	return ptrx.Deref(e.Department)
}

func (e *Event) Office() string {
	return ptrx.Deref(e.OfficeID)
}

type Repository interface {
	FindByID(ctx context.Context, id kernel.EventID) (*Event, error)
	List(ctx context.Context, ids access.IDSet) ([]*Event, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("EVENT")

var CodeEventNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Event not found")

func ErrEventNotFound() *errx.Error {
	return ErrRegistry.New(CodeEventNotFound)
}
