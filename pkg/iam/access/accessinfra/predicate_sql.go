package accessinfra

import (
	"fmt"
	"strings"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/jmoiron/sqlx"
)

// Columns names the applicant link columns a predicate is rendered against.
type Columns struct {
	JobID   string
	EventID string
}

var ApplicantColumns = Columns{JobID: "a.job_id", EventID: "a.event_id"}

// WhereClause renders p as a SQL boolean expression using ? bind vars.
// Callers rebind the final query for their driver.
//
// When p can never match, ok is false and the caller must return an empty
// result without querying.
func WhereClause(p access.Predicate, cols Columns) (clause string, args []any, ok bool, err error) {
	if access.IsNothing(p) {
		return "", nil, false, nil
	}
	clause, args, err = render(p, cols)
	if err != nil {
		return "", nil, false, err
	}
	return clause, args, true, nil
}

func render(p access.Predicate, cols Columns) (string, []any, error) {
	switch v := p.(type) {
	case access.MatchesAll:
		return "TRUE", nil, nil
	case access.MatchesNothing:
		return "FALSE", nil, nil
	case access.GeneralPool:
		return cols.JobID + " IS NULL", nil, nil
	case access.JobIn:
		return renderIn(cols.JobID, v.IDs)
	case access.EventIn:
		return renderIn(cols.EventID, v.IDs)
	case access.And:
		return renderGroup(v.Terms, " AND ", cols)
	case access.Or:
		return renderGroup(v.Terms, " OR ", cols)
	default:
		return "", nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func renderIn(column string, ids access.IDSet) (string, []any, error) {
	if ids.IsUnrestricted() {
		return column + " IS NOT NULL", nil, nil
	}
	if ids.IsEmpty() {
		return "FALSE", nil, nil
	}
	return sqlx.In(column+" IN (?)", ids.Slice())
}

func renderGroup(terms []access.Predicate, sep string, cols Columns) (string, []any, error) {
	parts := make([]string, 0, len(terms))
	var args []any
	for _, t := range terms {
		clause, termArgs, err := render(t, cols)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, clause)
		args = append(args, termArgs...)
	}
	return "(" + strings.Join(parts, sep) + ")", args, nil
}
