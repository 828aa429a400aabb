package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionFromList_NullAndEmptyAreUnrestricted(t *testing.T) {
	assert.False(t, DimensionFromList(nil).IsRestricted())
	assert.False(t, DimensionFromList([]string{}).IsRestricted())
	assert.False(t, DimensionFromList([]string{"", "  "}).IsRestricted())

	d := DimensionFromList([]string{" Interiors ", "Design"})
	assert.True(t, d.IsRestricted())
	assert.Equal(t, []string{"Design", "Interiors"}, d.Values())
}

func TestDimension_Allows(t *testing.T) {
	assert.True(t, Unrestricted().Allows(""))
	assert.True(t, Unrestricted().Allows("anything"))

	d := Restricted("Design")
	assert.True(t, d.Allows("Design"))
	assert.False(t, d.Allows("Interiors"))
	assert.False(t, d.Allows(""), "absent value never satisfies a restricted dimension")

	assert.False(t, Restricted().Allows("Design"))
}

func TestParseScopeMode(t *testing.T) {
	assert.Equal(t, ScopeModeAnd, ParseScopeMode("and"))
	assert.Equal(t, ScopeModeAnd, ParseScopeMode(" AND "))
	assert.Equal(t, ScopeModeOr, ParseScopeMode("OR"))
	assert.Equal(t, ScopeModeOr, ParseScopeMode(""))
}

func TestHiringManager_Matches(t *testing.T) {
	both := func(mode ScopeMode) HiringManager {
		return HiringManager{
			Departments: Restricted("Interiors"),
			Offices:     Restricted("office-biloxi"),
			Mode:        mode,
		}
	}
	officeOnly := func(mode ScopeMode) HiringManager {
		return HiringManager{
			Departments: DimensionFromList([]string{}),
			Offices:     Restricted("office-biloxi"),
			Mode:        mode,
		}
	}

	tests := []struct {
		name       string
		hm         HiringManager
		department string
		office     string
		want       bool
	}{
		{"AND both match", both(ScopeModeAnd), "Interiors", "office-biloxi", true},
		{"AND office mismatch", both(ScopeModeAnd), "Interiors", "office-fairhope", false},
		{"OR department alone", both(ScopeModeOr), "Interiors", "office-fairhope", true},
		{"OR office alone", both(ScopeModeOr), "Design", "office-biloxi", true},
		{"OR neither", both(ScopeModeOr), "Design", "office-fairhope", false},
		{"AND missing office", both(ScopeModeAnd), "Interiors", "", false},
		{"empty departments AND any department", officeOnly(ScopeModeAnd), "Whatever", "office-biloxi", true},
		{"empty departments AND office restricts", officeOnly(ScopeModeAnd), "Interiors", "office-fairhope", false},
		{"empty departments OR any department", officeOnly(ScopeModeOr), "Whatever", "office-biloxi", true},
		{"empty departments OR office restricts", officeOnly(ScopeModeOr), "Interiors", "office-fairhope", false},
		{"unscoped matches absent fields", HiringManager{}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.hm.Matches(tt.department, tt.office))
		})
	}
}

func TestPrincipal_IsUnrestricted(t *testing.T) {
	assert.True(t, Principal{Role: Admin{}}.IsUnrestricted())
	assert.True(t, Principal{Role: HiringManager{}}.IsUnrestricted())
	assert.False(t, Principal{Role: HiringManager{Offices: Restricted("o1")}}.IsUnrestricted())
	assert.False(t, Principal{Role: Reviewer{EventAccess: true}}.IsUnrestricted())
	assert.False(t, Principal{}.IsUnrestricted(), "missing role fails closed")
}
