package notificationsrv

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/iam/user"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/Abraxas-365/talentgate/pkg/notification"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription"
)

// AssignmentChecker answers reviewer assignment lookups.
type AssignmentChecker interface {
	HasJobAssignment(ctx context.Context, userID kernel.UserID, jobID string) (bool, error)
	HasEventAssignment(ctx context.Context, userID kernel.UserID, eventID string) (bool, error)
}

// TargetingEngine decides who is notified about a business event. It runs
// after the triggering write has committed, so it never fails: every step
// logs its own errors and the engine continues with what it has.
type TargetingEngine struct {
	subs        subscription.Repository
	assignments AssignmentChecker
	readLegacy  bool
}

func NewTargetingEngine(subs subscription.Repository, assignments AssignmentChecker, readLegacy bool) *TargetingEngine {
	return &TargetingEngine{
		subs:        subs,
		assignments: assignments,
		readLegacy:  readLegacy,
	}
}

// ResolveTargets returns the deduplicated recipients for tc, minus exclude.
func (e *TargetingEngine) ResolveTargets(ctx context.Context, tc notification.TargetContext, exclude *kernel.UserID) notification.UserSet {
	targets := notification.UserSet{}

	e.step(tc, "direct", func() error { return e.addDirect(ctx, tc, targets) })
	e.step(tc, "wildcard", func() error { return e.addWildcard(ctx, tc, targets) })
	if e.readLegacy {
		e.step(tc, "legacy", func() error { return e.addLegacy(ctx, tc, targets) })
	}

	if exclude != nil {
		targets.Remove(*exclude)
	}
	return targets
}

// step runs fn, logging a returned error or a panic instead of propagating it.
func (e *TargetingEngine) step(tc notification.TargetContext, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logx.WithFields(contextFields(tc)).WithFields(logx.Fields{"step": name}).
				Errorf("Notification targeting step panicked: %v", r)
		}
	}()

	if err := fn(); err != nil {
		logx.WithFields(contextFields(tc)).WithFields(logx.Fields{"step": name, "error": err.Error()}).
			Error("Notification targeting step failed")
	}
}

func (e *TargetingEngine) addDirect(ctx context.Context, tc notification.TargetContext, targets notification.UserSet) error {
	pairs := tc.Targets()
	if len(pairs) == 0 {
		return nil
	}

	subs, err := e.subs.FindMatching(ctx, pairs)
	if err != nil {
		return err
	}
	for _, s := range subs {
		targets.Add(s.UserID)
	}
	return nil
}

func (e *TargetingEngine) addWildcard(ctx context.Context, tc notification.TargetContext, targets notification.UserSet) error {
	subscribers, err := e.subs.FindWildcardSubscribers(ctx)
	if err != nil {
		return err
	}

	for _, u := range subscribers {
		ok, err := e.wildcardMatches(ctx, u, tc)
		if err != nil {
			logx.WithFields(contextFields(tc)).WithFields(logx.Fields{"user_id": u.ID.String(), "error": err.Error()}).
				Warn("Skipping wildcard subscriber")
			continue
		}
		if ok {
			targets.Add(u.ID)
		}
	}
	return nil
}

// wildcardMatches replays the access rules for an "all" subscriber so that
// nobody is notified about something they could not see.
func (e *TargetingEngine) wildcardMatches(ctx context.Context, u *user.User, tc notification.TargetContext) (bool, error) {
	principal, err := u.Principal()
	if err != nil {
		return false, err
	}

	switch role := principal.Role.(type) {
	case access.Admin:
		return true, nil
	case access.HiringManager:
		if !role.IsScoped() {
			return true, nil
		}
		if role.Matches(tc.Department, tc.OfficeID) {
			return true, nil
		}
		return tc.EventID != "" && role.Matches(tc.EventDepartment, tc.EventOfficeID), nil
	case access.Reviewer:
		if tc.JobID != "" {
			ok, err := e.assignments.HasJobAssignment(ctx, u.ID, tc.JobID)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		if role.EventAccess && tc.EventID != "" {
			return e.assignments.HasEventAssignment(ctx, u.ID, tc.EventID)
		}
		return false, nil
	default:
		return false, fmt.Errorf("unhandled role %T", principal.Role)
	}
}

func (e *TargetingEngine) addLegacy(ctx context.Context, tc notification.TargetContext, targets notification.UserSet) error {
	if tc.JobID == "" {
		return nil
	}

	rows, err := e.subs.FindLegacyByJob(ctx, tc.JobID)
	if err != nil {
		return err
	}
	for _, r := range rows {
		targets.Add(r.UserID)
	}
	return nil
}

func contextFields(tc notification.TargetContext) logx.Fields {
	return logx.Fields{
		"job_id":     tc.JobID,
		"department": tc.Department,
		"office_id":  tc.OfficeID,
		"event_id":   tc.EventID,
	}
}
