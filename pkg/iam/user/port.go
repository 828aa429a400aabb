package user

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// UserRepository is the read side of the users table.
type UserRepository interface {
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByIDs(ctx context.Context, ids []kernel.UserID) ([]*User, error)
}
