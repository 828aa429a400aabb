package scopes

import (
	"slices"
	"strings"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
)

// ForRole returns the scopes granted to a role. Unknown roles get none.
func ForRole(role access.RoleKind) []string {
	if granted, ok := ScopeGroups[role]; ok {
		return slices.Clone(granted)
	}
	return []string{}
}

// Known reports whether scope is defined. The super scope is known.
func Known(scope string) bool {
	_, ok := ScopeDescriptions[scope]
	return ok
}

// Expand resolves a wildcard into the concrete scopes it covers, sorted.
// Concrete scopes expand to themselves.
func Expand(scope string) []string {
	var prefix string
	switch {
	case scope == ScopeAll:
	case strings.HasSuffix(scope, ":*"):
		prefix = strings.TrimSuffix(scope, "*")
	default:
		return []string{scope}
	}

	var out []string
	for s := range ScopeDescriptions {
		if s == ScopeAll || strings.HasSuffix(s, ":*") {
			continue
		}
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// Grant is a concrete scope with its category and description.
type Grant struct {
	Scope       string `json:"scope"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Describe expands granted into concrete, deduplicated grants sorted by scope.
func Describe(granted []string) []Grant {
	seen := map[string]struct{}{}
	var grants []Grant
	for _, g := range granted {
		for _, s := range Expand(g) {
			if _, dup := seen[s]; dup || !Known(s) {
				continue
			}
			seen[s] = struct{}{}
			grants = append(grants, Grant{Scope: s, Category: categoryOf(s), Description: ScopeDescriptions[s]})
		}
	}
	slices.SortFunc(grants, func(a, b Grant) int { return strings.Compare(a.Scope, b.Scope) })
	return grants
}

func categoryOf(scope string) string {
	for category, members := range ScopeCategories {
		if slices.Contains(members, scope) {
			return category
		}
	}
	return ""
}
