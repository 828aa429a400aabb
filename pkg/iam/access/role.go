package access

import (
	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// RoleKind is the stored name of a role.
type RoleKind string

const (
	RoleKindAdmin         RoleKind = "admin"
	RoleKindHiringManager RoleKind = "hiring_manager"
	RoleKindReviewer      RoleKind = "reviewer"
)

// Role is a closed set: Admin, HiringManager and Reviewer are the only
// implementations. Code dispatching on a Role uses a type switch and treats
// the default branch as a denial.
type Role interface {
	Kind() RoleKind
	role()
}

// Admin sees everything regardless of any scope attributes.
type Admin struct{}

func (Admin) Kind() RoleKind { return RoleKindAdmin }
func (Admin) role()          {}

// HiringManager is global unless at least one dimension is restricted.
type HiringManager struct {
	Departments Dimension
	Offices     Dimension
	Mode        ScopeMode
}

func (HiringManager) Kind() RoleKind { return RoleKindHiringManager }
func (HiringManager) role()          {}

func (h HiringManager) IsScoped() bool {
	return h.Departments.IsRestricted() || h.Offices.IsRestricted()
}

// Matches is the single department/office test used both when resolving
// accessible resources and when replaying wildcard subscriptions.
//
// Only restricted dimensions take part in the combination: in AND mode every
// restricted dimension must allow its value, in OR mode any one suffices.
// An unscoped manager matches everything.
func (h HiringManager) Matches(department, officeID string) bool {
	var checks []bool
	if h.Departments.IsRestricted() {
		checks = append(checks, h.Departments.Allows(department))
	}
	if h.Offices.IsRestricted() {
		checks = append(checks, h.Offices.Allows(officeID))
	}
	if len(checks) == 0 {
		return true
	}

	if h.Mode == ScopeModeAnd {
		for _, ok := range checks {
			if !ok {
				return false
			}
		}
		return true
	}

	for _, ok := range checks {
		if ok {
			return true
		}
	}
	return false
}

// Reviewer only reaches resources through explicit assignments.
type Reviewer struct {
	EventAccess bool
}

func (Reviewer) Kind() RoleKind { return RoleKindReviewer }
func (Reviewer) role()          {}

// Principal is a user as seen by the scoping engine.
type Principal struct {
	UserID kernel.UserID
	Role   Role
}

// IsUnrestricted reports whether the principal sees every job, event and applicant.
func (p Principal) IsUnrestricted() bool {
	switch r := p.Role.(type) {
	case Admin:
		return true
	case HiringManager:
		return !r.IsScoped()
	default:
		return false
	}
}
