package access

import "slices"

// IDSet is the result of resolving accessible jobs or events: either every
// identifier (unrestricted) or an explicit, possibly empty, set.
type IDSet struct {
	unrestricted bool
	ids          map[string]struct{}
}

func AllIDs() IDSet {
	return IDSet{unrestricted: true}
}

func IDs(ids ...string) IDSet {
	s := IDSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

func (s IDSet) IsUnrestricted() bool {
	return s.unrestricted
}

// IsEmpty is true only for a restricted set with no members. An unrestricted
// set is never empty.
func (s IDSet) IsEmpty() bool {
	return !s.unrestricted && len(s.ids) == 0
}

func (s IDSet) Contains(id string) bool {
	if id == "" {
		return false
	}
	if s.unrestricted {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s.ids)
}

// Slice returns the members sorted. It is nil for an unrestricted set.
func (s IDSet) Slice() []string {
	if s.unrestricted {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
