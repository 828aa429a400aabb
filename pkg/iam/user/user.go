package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/lib/pq"
)

// ============================================================================
// User Entity
// ============================================================================

// User is a staff member of the recruiting team. Scope columns are nullable
// arrays; NULL and '{}' mean the same thing.
type User struct {
	ID                kernel.UserID   `db:"id" json:"id"`
	Email             string          `db:"email" json:"email"`
	Name              string          `db:"name" json:"name"`
	Role              access.RoleKind `db:"role" json:"role"`
	ScopedDepartments pq.StringArray  `db:"scoped_departments" json:"scoped_departments,omitempty"`
	ScopedOffices     pq.StringArray  `db:"scoped_offices" json:"scoped_offices,omitempty"`
	ScopeMode         string          `db:"scope_mode" json:"scope_mode"`
	EventAccess       bool            `db:"event_access" json:"event_access"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// AccessRole converts the stored role columns into the closed role variant.
// An unrecognised role yields ErrInvalidRole so callers fail closed.
func (u *User) AccessRole() (access.Role, error) {
	switch access.RoleKind(strings.ToLower(strings.TrimSpace(string(u.Role)))) {
	case access.RoleKindAdmin:
		return access.Admin{}, nil
	case access.RoleKindHiringManager:
		return access.HiringManager{
			Departments: access.DimensionFromList(u.ScopedDepartments),
			Offices:     access.DimensionFromList(u.ScopedOffices),
			Mode:        access.ParseScopeMode(u.ScopeMode),
		}, nil
	case access.RoleKindReviewer:
		return access.Reviewer{EventAccess: u.EventAccess}, nil
	default:
		return nil, ErrInvalidRole().WithDetail("role", string(u.Role))
	}
}

// Principal returns the user as seen by the access engine.
func (u *User) Principal() (access.Principal, error) {
	role, err := u.AccessRole()
	if err != nil {
		return access.Principal{UserID: u.ID}, err
	}
	return access.Principal{UserID: u.ID, Role: role}, nil
}

func (u *User) IsAdmin() bool {
	return access.RoleKind(strings.ToLower(string(u.Role))) == access.RoleKindAdmin
}

// ============================================================================
// DTOs
// ============================================================================

// UserDetailsDTO is the public shape of a user for other modules.
type UserDetailsDTO struct {
	ID    kernel.UserID   `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  access.RoleKind `json:"role"`
}

func (u *User) ToDTO() UserDetailsDTO {
	return UserDetailsDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeInvalidRole  = ErrRegistry.Register("INVALID_ROLE", errx.TypeAuthorization, http.StatusForbidden, "User role is not recognised")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}
