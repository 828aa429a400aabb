package access

import (
	"fmt"
	"strings"
)

// Subject is the part of an applicant that access depends on.
// Empty strings stand for NULL links.
type Subject struct {
	JobID   string
	EventID string
}

// Predicate is a boolean expression over applicant links. It can be
// evaluated in memory with Matches or translated into a storage query.
type Predicate interface {
	Matches(s Subject) bool
	String() string
	predicate()
}

// MatchesAll accepts every applicant.
type MatchesAll struct{}

// MatchesNothing rejects every applicant. Storage translations must
// short-circuit it to an empty result without issuing a query.
type MatchesNothing struct{}

// JobIn accepts applicants linked to a job in IDs.
type JobIn struct{ IDs IDSet }

// EventIn accepts applicants linked to an event in IDs.
type EventIn struct{ IDs IDSet }

// GeneralPool accepts applicants with no job.
type GeneralPool struct{}

type And struct{ Terms []Predicate }

type Or struct{ Terms []Predicate }

func (MatchesAll) Matches(Subject) bool     { return true }
func (MatchesNothing) Matches(Subject) bool { return false }
func (p JobIn) Matches(s Subject) bool      { return s.JobID != "" && p.IDs.Contains(s.JobID) }
func (p EventIn) Matches(s Subject) bool    { return s.EventID != "" && p.IDs.Contains(s.EventID) }
func (GeneralPool) Matches(s Subject) bool  { return s.JobID == "" }

func (p And) Matches(s Subject) bool {
	for _, t := range p.Terms {
		if !t.Matches(s) {
			return false
		}
	}
	return true
}

func (p Or) Matches(s Subject) bool {
	for _, t := range p.Terms {
		if t.Matches(s) {
			return true
		}
	}
	return false
}

func (MatchesAll) String() string     { return "TRUE" }
func (MatchesNothing) String() string { return "FALSE" }
func (p JobIn) String() string        { return "job IN " + setString(p.IDs) }
func (p EventIn) String() string      { return "event IN " + setString(p.IDs) }
func (GeneralPool) String() string    { return "job IS NULL" }
func (p And) String() string          { return joinTerms(p.Terms, " AND ") }
func (p Or) String() string           { return joinTerms(p.Terms, " OR ") }

func (MatchesAll) predicate()     {}
func (MatchesNothing) predicate() {}
func (JobIn) predicate()          {}
func (EventIn) predicate()        {}
func (GeneralPool) predicate()    {}
func (And) predicate()            {}
func (Or) predicate()             {}

// NewJobIn returns MatchesNothing for an empty restricted set.
func NewJobIn(ids IDSet) Predicate {
	if ids.IsEmpty() {
		return MatchesNothing{}
	}
	return JobIn{IDs: ids}
}

// NewEventIn returns MatchesNothing for an empty restricted set.
func NewEventIn(ids IDSet) Predicate {
	if ids.IsEmpty() {
		return MatchesNothing{}
	}
	return EventIn{IDs: ids}
}

// AnyOf builds a simplified OR: MatchesNothing terms are dropped, any
// MatchesAll term absorbs the group, and an empty group is MatchesNothing.
func AnyOf(terms ...Predicate) Predicate {
	var kept []Predicate
	for _, t := range terms {
		switch v := t.(type) {
		case MatchesAll:
			return MatchesAll{}
		case MatchesNothing:
			continue
		case Or:
			kept = append(kept, v.Terms...)
		default:
			kept = append(kept, t)
		}
	}
	switch len(kept) {
	case 0:
		return MatchesNothing{}
	case 1:
		return kept[0]
	default:
		return Or{Terms: kept}
	}
}

// AllOf builds a simplified AND: MatchesAll terms are dropped, any
// MatchesNothing term absorbs the group, and an empty group is MatchesAll.
func AllOf(terms ...Predicate) Predicate {
	var kept []Predicate
	for _, t := range terms {
		switch v := t.(type) {
		case MatchesNothing:
			return MatchesNothing{}
		case MatchesAll:
			continue
		case And:
			kept = append(kept, v.Terms...)
		default:
			kept = append(kept, t)
		}
	}
	switch len(kept) {
	case 0:
		return MatchesAll{}
	case 1:
		return kept[0]
	default:
		return And{Terms: kept}
	}
}

// IsNothing reports whether p can never match.
func IsNothing(p Predicate) bool {
	_, ok := p.(MatchesNothing)
	return ok
}

func setString(s IDSet) string {
	if s.IsUnrestricted() {
		return "*"
	}
	return fmt.Sprintf("%v", s.Slice())
}

func joinTerms(terms []Predicate, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
