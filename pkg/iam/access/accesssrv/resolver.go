package accesssrv

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
)

// Resolver answers "what may this principal see" for list queries and
// single-resource checks. Lookup failures are returned, never widened.
type Resolver struct {
	repo access.Repository
}

func NewResolver(repo access.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// AccessibleJobIDs returns every job the principal may see.
func (r *Resolver) AccessibleJobIDs(ctx context.Context, p access.Principal) (access.IDSet, error) {
	switch role := p.Role.(type) {
	case access.Admin:
		return access.AllIDs(), nil
	case access.HiringManager:
		if !role.IsScoped() {
			return access.AllIDs(), nil
		}
		jobs, err := r.repo.ListJobScopes(ctx)
		if err != nil {
			return access.IDs(), access.ErrLookupFailed(err).WithDetail("user_id", p.UserID.String())
		}
		return matching(role, jobs), nil
	case access.Reviewer:
		ids, err := r.repo.ListAssignedJobIDs(ctx, p.UserID)
		if err != nil {
			return access.IDs(), access.ErrLookupFailed(err).WithDetail("user_id", p.UserID.String())
		}
		return access.IDs(ids...), nil
	default:
		return access.IDs(), access.ErrUnknownRole()
	}
}

// AccessibleEventIDs returns every event the principal may see. A reviewer
// without event access gets an empty set even when assignments exist.
func (r *Resolver) AccessibleEventIDs(ctx context.Context, p access.Principal) (access.IDSet, error) {
	switch role := p.Role.(type) {
	case access.Admin:
		return access.AllIDs(), nil
	case access.HiringManager:
		if !role.IsScoped() {
			return access.AllIDs(), nil
		}
		events, err := r.repo.ListEventScopes(ctx)
		if err != nil {
			return access.IDs(), access.ErrLookupFailed(err).WithDetail("user_id", p.UserID.String())
		}
		return matching(role, events), nil
	case access.Reviewer:
		if !role.EventAccess {
			return access.IDs(), nil
		}
		ids, err := r.repo.ListAssignedEventIDs(ctx, p.UserID)
		if err != nil {
			return access.IDs(), access.ErrLookupFailed(err).WithDetail("user_id", p.UserID.String())
		}
		return access.IDs(ids...), nil
	default:
		return access.IDs(), access.ErrUnknownRole()
	}
}

// AccessibleApplicantFilter builds the predicate applicant list queries are
// narrowed with.
func (r *Resolver) AccessibleApplicantFilter(ctx context.Context, p access.Principal) (access.Predicate, error) {
	switch p.Role.(type) {
	case access.Admin:
		return access.MatchesAll{}, nil
	case access.HiringManager, access.Reviewer:
	default:
		return access.MatchesNothing{}, access.ErrUnknownRole()
	}

	if p.IsUnrestricted() {
		return access.MatchesAll{}, nil
	}

	jobs, err := r.AccessibleJobIDs(ctx, p)
	if err != nil {
		return access.MatchesNothing{}, err
	}
	events, err := r.AccessibleEventIDs(ctx, p)
	if err != nil {
		return access.MatchesNothing{}, err
	}

	terms := []access.Predicate{access.NewJobIn(jobs), access.NewEventIn(events)}
	if _, ok := p.Role.(access.HiringManager); ok {
		terms = append(terms, access.GeneralPool{})
	}
	return access.AnyOf(terms...), nil
}

// CanAccessJob returns access.ErrAccessDenied when the job is out of reach.
func (r *Resolver) CanAccessJob(ctx context.Context, p access.Principal, jobID string) error {
	ids, err := r.AccessibleJobIDs(ctx, p)
	if err != nil {
		return err
	}
	if !ids.Contains(jobID) {
		return access.ErrAccessDenied().WithDetail("job_id", jobID)
	}
	return nil
}

// CanAccessEvent returns access.ErrAccessDenied when the event is out of reach.
func (r *Resolver) CanAccessEvent(ctx context.Context, p access.Principal, eventID string) error {
	ids, err := r.AccessibleEventIDs(ctx, p)
	if err != nil {
		return err
	}
	if !ids.Contains(eventID) {
		return access.ErrAccessDenied().WithDetail("event_id", eventID)
	}
	return nil
}

// CanAccessApplicant evaluates the applicant filter against one applicant's links.
func (r *Resolver) CanAccessApplicant(ctx context.Context, p access.Principal, applicantID string, s access.Subject) error {
	filter, err := r.AccessibleApplicantFilter(ctx, p)
	if err != nil {
		return err
	}
	if !filter.Matches(s) {
		return access.ErrAccessDenied().WithDetail("applicant_id", applicantID)
	}
	return nil
}

func matching(hm access.HiringManager, resources []access.ScopedResource) access.IDSet {
	ids := make([]string, 0, len(resources))
	for _, res := range resources {
		if hm.Matches(res.Department, res.OfficeID) {
			ids = append(ids, res.ID)
		}
	}
	return access.IDs(ids...)
}
