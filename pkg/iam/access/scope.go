package access

import (
	"slices"
	"strings"
)

// ScopeMode is how a scoped user's department and office restrictions combine.
type ScopeMode string

const (
	ScopeModeAnd ScopeMode = "AND"
	ScopeModeOr  ScopeMode = "OR"
)

// ParseScopeMode accepts "and"/"or" in any case. Anything else is OR.
func ParseScopeMode(s string) ScopeMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeModeAnd)) {
		return ScopeModeAnd
	}
	return ScopeModeOr
}

// Dimension is one axis of a hiring manager's scope: either Unrestricted or
// Restricted to a set of values.
type Dimension struct {
	restricted bool
	values     map[string]struct{}
}

func Unrestricted() Dimension {
	return Dimension{}
}

// Restricted builds a restricted dimension. With no values it matches nothing;
// storage never produces that shape, see DimensionFromList.
func Restricted(values ...string) Dimension {
	d := Dimension{restricted: true, values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		d.values[v] = struct{}{}
	}
	return d
}

// DimensionFromList converts a stored scope column into a Dimension.
// A NULL column and an empty list both mean Unrestricted; blank entries are ignored.
func DimensionFromList(list []string) Dimension {
	cleaned := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return Unrestricted()
	}
	return Restricted(cleaned...)
}

func (d Dimension) IsRestricted() bool {
	return d.restricted
}

// Allows reports whether value passes this dimension. An unrestricted
// dimension allows anything; a restricted one never allows an absent value.
func (d Dimension) Allows(value string) bool {
	if !d.restricted {
		return true
	}
	if value == "" {
		return false
	}
	_, ok := d.values[value]
	return ok
}

// Values returns the restricted values sorted, or nil when unrestricted.
func (d Dimension) Values() []string {
	if !d.restricted {
		return nil
	}
	out := make([]string, 0, len(d.values))
	for v := range d.values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
