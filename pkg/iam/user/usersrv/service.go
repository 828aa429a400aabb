package usersrv

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/iam/user"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// UserService exposes user lookups to the transport layer.
type UserService struct {
	userRepo user.UserRepository
}

func NewUserService(userRepo user.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id kernel.UserID) (*user.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetPrincipal loads the current role and scope attributes of a user.
// Scope changes take effect on the next request, not on token refresh.
func (s *UserService) GetPrincipal(ctx context.Context, id kernel.UserID) (access.Principal, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return access.Principal{}, err
	}
	return u.Principal()
}

// GetUsers returns the existing users among ids, ordered by name.
func (s *UserService) GetUsers(ctx context.Context, ids []kernel.UserID) ([]user.UserDetailsDTO, error) {
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]user.UserDetailsDTO, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToDTO())
	}
	return out, nil
}
