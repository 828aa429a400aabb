package applicantsrv

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/Abraxas-365/talentgate/pkg/notification"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job"
	"github.com/google/uuid"
)

// ApplicantAccess is the part of the access resolver the applicant service needs.
type ApplicantAccess interface {
	AccessibleApplicantFilter(ctx context.Context, p access.Principal) (access.Predicate, error)
	CanAccessApplicant(ctx context.Context, p access.Principal, applicantID string, s access.Subject) error
	CanAccessJob(ctx context.Context, p access.Principal, jobID string) error
	CanAccessEvent(ctx context.Context, p access.Principal, eventID string) error
}

type ApplicantService struct {
	repo      applicant.Repository
	jobs      job.Repository
	events    event.Repository
	access    ApplicantAccess
	publisher notification.Publisher
}

func NewApplicantService(
	repo applicant.Repository,
	jobs job.Repository,
	events event.Repository,
	resolver ApplicantAccess,
	publisher notification.Publisher,
) *ApplicantService {
	return &ApplicantService{
		repo:      repo,
		jobs:      jobs,
		events:    events,
		access:    resolver,
		publisher: publisher,
	}
}

// ============================================================================
// Requests
// ============================================================================

// CreateApplicantRequest is staff intake. Source must be manual or event.
type CreateApplicantRequest struct {
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	JobID   *kernel.JobID    `json:"job_id,omitempty"`
	EventID *kernel.EventID  `json:"event_id,omitempty"`
	Source  applicant.Source `json:"source"`
}

// ApplyRequest is a public application to a published job.
type ApplyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ChangeStageRequest struct {
	Stage string `json:"stage"`
}

// InterviewRequest schedules or moves an interview.
type InterviewRequest struct {
	At time.Time `json:"at"`
}

// ============================================================================
// Queries
// ============================================================================

func (s *ApplicantService) List(ctx context.Context, p access.Principal, opts applicant.ListOptions) ([]*applicant.Applicant, error) {
	filter, err := s.access.AccessibleApplicantFilter(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter, opts)
}

// Get returns the applicant when the principal may see it. Denial is
// reported with the same error as a missing row.
func (s *ApplicantService) Get(ctx context.Context, p access.Principal, id kernel.ApplicantID) (*applicant.Applicant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanAccessApplicant(ctx, p, id.String(), a.Subject()); err != nil {
		if errx.IsCode(err, access.CodeAccessDenied) {
			return nil, applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
		}
		return nil, err
	}
	return a, nil
}

// ============================================================================
// Commands
// ============================================================================

// Create records a staff-entered applicant. The principal must reach every
// link it sets: the job and the event each on their own. Without a job the
// applicant lands in the general pool, which reviewers cannot file into.
func (s *ApplicantService) Create(ctx context.Context, p access.Principal, req CreateApplicantRequest) (*applicant.Applicant, error) {
	if req.Source == "" {
		req.Source = applicant.SourceManual
	}
	if req.Source == applicant.SourceEvent && (req.EventID == nil || req.EventID.IsEmpty()) {
		return nil, applicant.ErrEventRequired()
	}
	if req.Source != applicant.SourceManual && req.Source != applicant.SourceEvent {
		return nil, applicant.ErrInvalidApplicant().WithDetail("source", string(req.Source))
	}

	a, err := newApplicant(req.Name, req.Email, req.Source)
	if err != nil {
		return nil, err
	}
	if req.JobID != nil && !req.JobID.IsEmpty() {
		a.JobID = req.JobID
	}
	if req.EventID != nil && !req.EventID.IsEmpty() {
		a.EventID = req.EventID
	}

	if err := s.authorizeLinks(ctx, p, a); err != nil {
		return nil, err
	}

	subject, err := s.subjectFor(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"applicant_id": a.ID.String(),
		"source":       string(a.Source),
		"user_id":      p.UserID.String(),
	}).Info("Applicant created")

	actor := p.UserID
	s.publish(ctx, notification.ApplicantCreated(subject, string(a.Source), &actor))
	return a, nil
}

// Apply records a public application. Unpublished jobs look missing.
func (s *ApplicantService) Apply(ctx context.Context, jobID kernel.JobID, req ApplyRequest) (*applicant.Applicant, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !j.Published {
		return nil, job.ErrJobNotPublished().WithDetail("job_id", jobID.String())
	}

	a, err := newApplicant(req.Name, req.Email, applicant.SourcePublic)
	if err != nil {
		return nil, err
	}
	a.JobID = &j.ID

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.publish(ctx, notification.ApplicantCreated(jobSubject(a, j), string(a.Source), nil))
	return a, nil
}

// ChangeStage moves an accessible applicant to a new stage. Moving to the
// current stage is a no-op and notifies nobody.
func (s *ApplicantService) ChangeStage(ctx context.Context, p access.Principal, id kernel.ApplicantID, req ChangeStageRequest) (*applicant.Applicant, error) {
	to, err := applicant.ParseStage(req.Stage)
	if err != nil {
		return nil, err
	}

	a, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	from := a.Stage
	if !a.ChangeStage(to) {
		return a, nil
	}

	if err := s.repo.UpdateStage(ctx, id, to); err != nil {
		return nil, err
	}

	actor := p.UserID
	s.notify(ctx, a, func(subject notification.Subject) notification.Trigger {
		return notification.StageChanged(subject, string(from), string(to), &actor)
	})
	return a, nil
}

// ScheduleInterview books an interview for an accessible applicant.
func (s *ApplicantService) ScheduleInterview(ctx context.Context, p access.Principal, id kernel.ApplicantID, req InterviewRequest) (*applicant.Applicant, error) {
	a, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := a.ScheduleInterview(req.At); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInterview(ctx, id, a.InterviewAt); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{"applicant_id": id.String(), "user_id": p.UserID.String()}).
		Infof("Interview scheduled for %s", a.InterviewAt.Format(time.RFC3339))

	at, actor := *a.InterviewAt, p.UserID
	s.notify(ctx, a, func(subject notification.Subject) notification.Trigger {
		return notification.InterviewScheduled(subject, at, &actor)
	})
	return a, nil
}

// RescheduleInterview moves a booked interview. The same time is a no-op.
func (s *ApplicantService) RescheduleInterview(ctx context.Context, p access.Principal, id kernel.ApplicantID, req InterviewRequest) (*applicant.Applicant, error) {
	a, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	from, changed, err := a.RescheduleInterview(req.At)
	if err != nil {
		return nil, err
	}
	if !changed {
		return a, nil
	}
	if err := s.repo.UpdateInterview(ctx, id, a.InterviewAt); err != nil {
		return nil, err
	}

	to, actor := *a.InterviewAt, p.UserID
	s.notify(ctx, a, func(subject notification.Subject) notification.Trigger {
		return notification.InterviewRescheduled(subject, from, to, &actor)
	})
	return a, nil
}

// CancelInterview clears a booked interview.
func (s *ApplicantService) CancelInterview(ctx context.Context, p access.Principal, id kernel.ApplicantID) (*applicant.Applicant, error) {
	a, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.CancelInterview(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInterview(ctx, id, nil); err != nil {
		return nil, err
	}

	actor := p.UserID
	s.notify(ctx, a, func(subject notification.Subject) notification.Trigger {
		return notification.InterviewCancelled(subject, &actor)
	})
	return a, nil
}

// ============================================================================
// Helpers
// ============================================================================

func newApplicant(name, email string, source applicant.Source) (*applicant.Applicant, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, applicant.ErrInvalidApplicant()
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, applicant.ErrInvalidApplicant().WithDetail("email", email)
	}

	now := time.Now().UTC()
	return &applicant.Applicant{
		ID:        kernel.NewApplicantID(uuid.NewString()),
		Name:      name,
		Email:     strings.ToLower(email),
		Stage:     applicant.StageApplied,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// authorizeLinks checks each link of a new applicant separately. Reaching
// one link never grants the other.
func (s *ApplicantService) authorizeLinks(ctx context.Context, p access.Principal, a *applicant.Applicant) error {
	if a.InGeneralPool() {
		if err := s.access.CanAccessApplicant(ctx, p, a.ID.String(), access.Subject{}); err != nil {
			return err
		}
	} else if err := s.access.CanAccessJob(ctx, p, a.JobID.String()); err != nil {
		return err
	}

	if a.EventID != nil {
		return s.access.CanAccessEvent(ctx, p, a.EventID.String())
	}
	return nil
}

// subjectFor loads the job and event an applicant links to. Department and
// office come from the job when there is one, otherwise from the event. The
// event's own scope is always carried separately.
func (s *ApplicantService) subjectFor(ctx context.Context, a *applicant.Applicant) (notification.Subject, error) {
	subject := notification.Subject{ApplicantID: a.ID, ApplicantName: a.Name}

	if a.EventID != nil {
		ev, err := s.events.FindByID(ctx, *a.EventID)
		if err != nil {
			return subject, err
		}
		subject.Context.EventID = ev.ID.String()
		subject.Context.Department = ev.DepartmentName()
		subject.Context.OfficeID = ev.Office()
		subject.Context.EventDepartment = ev.DepartmentName()
		subject.Context.EventOfficeID = ev.Office()
	}

	if a.JobID != nil {
		j, err := s.jobs.FindByID(ctx, *a.JobID)
		if err != nil {
			return subject, err
		}
		withJob := jobSubject(a, j)
		withJob.Context.EventID = subject.Context.EventID
		withJob.Context.EventDepartment = subject.Context.EventDepartment
		withJob.Context.EventOfficeID = subject.Context.EventOfficeID
		subject = withJob
	}

	return subject, nil
}

func jobSubject(a *applicant.Applicant, j *job.Job) notification.Subject {
	return notification.Subject{
		ApplicantID:   a.ID,
		ApplicantName: a.Name,
		JobTitle:      j.Title,
		Context: notification.TargetContext{
			JobID:      j.ID.String(),
			Department: j.Department,
			OfficeID:   j.Office(),
		},
	}
}

// notify builds a trigger from the applicant's current links and publishes it.
// The write has committed, so a context lookup failure is logged only.
func (s *ApplicantService) notify(ctx context.Context, a *applicant.Applicant, build func(notification.Subject) notification.Trigger) {
	subject, err := s.subjectFor(ctx, a)
	if err != nil {
		logx.WithFields(logx.Fields{"applicant_id": a.ID.String(), "error": err.Error()}).
			Warn("Applicant updated but notification context could not be loaded")
		return
	}
	s.publish(ctx, build(subject))
}

// publish hands the trigger to the post-commit pipeline. The write has
// already committed, so failures are logged only.
func (s *ApplicantService) publish(ctx context.Context, t notification.Trigger) {
	if err := s.publisher.Publish(ctx, t); err != nil {
		logx.WithFields(logx.Fields{
			"type":   string(t.Payload.Type),
			"job_id": t.Context.JobID,
			"error":  err.Error(),
		}).Error("Failed to enqueue notification")
	}
}
