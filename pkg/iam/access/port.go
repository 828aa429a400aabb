package access

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// ScopedResource is a job or event reduced to the fields scoping depends on.
// Absent department/office values are empty strings.
type ScopedResource struct {
	ID         string `db:"id"`
	Department string `db:"department"`
	OfficeID   string `db:"office_id"`
}

// Repository is the read model the resolver and the targeting engine share.
type Repository interface {
	ListJobScopes(ctx context.Context) ([]ScopedResource, error)
	ListEventScopes(ctx context.Context) ([]ScopedResource, error)
	ListAssignedJobIDs(ctx context.Context, userID kernel.UserID) ([]string, error)
	ListAssignedEventIDs(ctx context.Context, userID kernel.UserID) ([]string, error)
	HasJobAssignment(ctx context.Context, userID kernel.UserID, jobID string) (bool, error)
	HasEventAssignment(ctx context.Context, userID kernel.UserID, eventID string) (bool, error)
}
