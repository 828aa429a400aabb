package user

import (
	"testing"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_AccessRole(t *testing.T) {
	t.Run("admin ignores scope columns", func(t *testing.T) {
		u := User{Role: "admin", ScopedOffices: pq.StringArray{"office-biloxi"}}
		role, err := u.AccessRole()
		require.NoError(t, err)
		assert.Equal(t, access.Admin{}, role)
	})

	t.Run("hiring manager with null and empty scopes is unscoped", func(t *testing.T) {
		u := User{Role: "hiring_manager", ScopedDepartments: nil, ScopedOffices: pq.StringArray{}}
		role, err := u.AccessRole()
		require.NoError(t, err)
		hm, ok := role.(access.HiringManager)
		require.True(t, ok)
		assert.False(t, hm.IsScoped())
		assert.Equal(t, access.ScopeModeOr, hm.Mode)
	})

	t.Run("hiring manager scoped", func(t *testing.T) {
		u := User{
			Role:              "HIRING_MANAGER",
			ScopedDepartments: pq.StringArray{"Interiors"},
			ScopeMode:         "AND",
		}
		role, err := u.AccessRole()
		require.NoError(t, err)
		hm := role.(access.HiringManager)
		assert.True(t, hm.IsScoped())
		assert.Equal(t, access.ScopeModeAnd, hm.Mode)
		assert.True(t, hm.Matches("Interiors", ""))
	})

	t.Run("reviewer carries event access", func(t *testing.T) {
		u := User{Role: "reviewer", EventAccess: false}
		role, err := u.AccessRole()
		require.NoError(t, err)
		assert.Equal(t, access.Reviewer{EventAccess: false}, role)
	})

	t.Run("unknown role fails closed", func(t *testing.T) {
		u := User{ID: "u-1", Role: "superuser"}
		p, err := u.Principal()
		require.Error(t, err)
		assert.True(t, errx.IsCode(err, CodeInvalidRole))
		assert.Nil(t, p.Role)
		assert.False(t, p.IsUnrestricted())
	})
}
