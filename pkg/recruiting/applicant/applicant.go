package applicant

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// ============================================================================
// Stage & Source
// ============================================================================

type Stage string

const (
	StageApplied   Stage = "applied"
	StageScreening Stage = "screening"
	StageInterview Stage = "interview"
	StageOffer     Stage = "offer"
	StageHired     Stage = "hired"
	StageRejected  Stage = "rejected"
)

var stages = []Stage{StageApplied, StageScreening, StageInterview, StageOffer, StageHired, StageRejected}

// ParseStage accepts any casing and rejects unknown stages.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range stages {
		if stage == known {
			return stage, nil
		}
	}
	return "", ErrInvalidStage().WithDetail("stage", s)
}

// Source records how the applicant entered the pipeline.
type Source string

const (
	SourcePublic Source = "public"
	SourceManual Source = "manual"
	SourceEvent  Source = "event"
)

// ============================================================================
// Applicant Entity
// ============================================================================

// Applicant is a candidate record. A nil JobID puts the applicant in the
// general pool.
type Applicant struct {
	ID          kernel.ApplicantID `db:"id" json:"id"`
	JobID       *kernel.JobID      `db:"job_id" json:"job_id,omitempty"`
	EventID     *kernel.EventID    `db:"event_id" json:"event_id,omitempty"`
	Name        string             `db:"name" json:"name"`
	Email       string             `db:"email" json:"email"`
	Stage       Stage              `db:"stage" json:"stage"`
	Source      Source             `db:"source" json:"source"`
	InterviewAt *time.Time         `db:"interview_at" json:"interview_at,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// Subject returns the links access decisions are made on.
func (a *Applicant) Subject() access.Subject {
	var s access.Subject
	if a.JobID != nil {
		s.JobID = a.JobID.String()
	}
	if a.EventID != nil {
		s.EventID = a.EventID.String()
	}
	return s
}

func (a *Applicant) InGeneralPool() bool {
	return a.JobID == nil
}

// ChangeStage moves the applicant and reports whether anything changed.
func (a *Applicant) ChangeStage(to Stage) bool {
	if a.Stage == to {
		return false
	}
	a.Stage = to
	a.UpdatedAt = time.Now().UTC()
	return true
}

// ScheduleInterview books the first interview slot.
func (a *Applicant) ScheduleInterview(at time.Time) error {
	if a.InterviewAt != nil {
		return ErrInterviewScheduled().WithDetail("interview_at", a.InterviewAt.Format(time.RFC3339))
	}
	if err := validInterviewTime(at); err != nil {
		return err
	}
	at = at.UTC()
	a.InterviewAt = &at
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// RescheduleInterview moves the booked slot and returns the previous time.
// changed is false when the new time equals the current one.
func (a *Applicant) RescheduleInterview(to time.Time) (from time.Time, changed bool, err error) {
	if a.InterviewAt == nil {
		return time.Time{}, false, ErrNoInterview()
	}
	if err := validInterviewTime(to); err != nil {
		return time.Time{}, false, err
	}
	from = *a.InterviewAt
	to = to.UTC()
	if from.Equal(to) {
		return from, false, nil
	}
	a.InterviewAt = &to
	a.UpdatedAt = time.Now().UTC()
	return from, true, nil
}

// CancelInterview clears the booked slot and returns it.
func (a *Applicant) CancelInterview() (time.Time, error) {
	if a.InterviewAt == nil {
		return time.Time{}, ErrNoInterview()
	}
	at := *a.InterviewAt
	a.InterviewAt = nil
	a.UpdatedAt = time.Now().UTC()
	return at, nil
}

func validInterviewTime(at time.Time) error {
	if at.IsZero() || !at.After(time.Now()) {
		return ErrInvalidInterview().WithDetail("interview_at", at.Format(time.RFC3339))
	}
	return nil
}

// ============================================================================
// Repository
// ============================================================================

type ListOptions struct {
	Stage  Stage
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, a *Applicant) error
	FindByID(ctx context.Context, id kernel.ApplicantID) (*Applicant, error)
	// List returns applicants matching filter. MatchesNothing yields no rows
	// without querying.
	List(ctx context.Context, filter access.Predicate, opts ListOptions) ([]*Applicant, error)
	UpdateStage(ctx context.Context, id kernel.ApplicantID, stage Stage) error
	// UpdateInterview stores the interview time; nil clears it.
	UpdateInterview(ctx context.Context, id kernel.ApplicantID, at *time.Time) error
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("APPLICANT")

var (
	CodeApplicantNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Applicant not found")
	CodeInvalidStage      = ErrRegistry.Register("INVALID_STAGE", errx.TypeValidation, http.StatusBadRequest, "Unknown applicant stage")
	CodeInvalidApplicant  = ErrRegistry.Register("INVALID_APPLICANT", errx.TypeValidation, http.StatusBadRequest, "Applicant name and email are required")
	CodeEventRequired     = ErrRegistry.Register("EVENT_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Event intake requires an event")
	CodeInvalidInterview  = ErrRegistry.Register("INVALID_INTERVIEW", errx.TypeValidation, http.StatusBadRequest, "Interview time must be in the future")
	CodeInterviewExists   = ErrRegistry.Register("INTERVIEW_SCHEDULED", errx.TypeConflict, http.StatusConflict, "Applicant already has an interview scheduled")
	CodeNoInterview       = ErrRegistry.Register("NO_INTERVIEW", errx.TypeConflict, http.StatusConflict, "Applicant has no interview scheduled")
)

func ErrApplicantNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicantNotFound)
}

func ErrInvalidStage() *errx.Error {
	return ErrRegistry.New(CodeInvalidStage)
}

func ErrInvalidApplicant() *errx.Error {
	return ErrRegistry.New(CodeInvalidApplicant)
}

func ErrEventRequired() *errx.Error {
	return ErrRegistry.New(CodeEventRequired)
}

func ErrInvalidInterview() *errx.Error {
	return ErrRegistry.New(CodeInvalidInterview)
}

func ErrInterviewScheduled() *errx.Error {
	return ErrRegistry.New(CodeInterviewExists)
}

func ErrNoInterview() *errx.Error {
	return ErrRegistry.New(CodeNoInterview)
}
