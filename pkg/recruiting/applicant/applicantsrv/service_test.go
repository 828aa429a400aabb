package applicantsrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/iam/access/accesssrv"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/notification"
	"github.com/Abraxas-365/talentgate/pkg/ptrx"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/applicant"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mocks
// ============================================================================

type MockApplicantRepository struct {
	mock.Mock
}

func (m *MockApplicantRepository) Create(ctx context.Context, a *applicant.Applicant) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockApplicantRepository) FindByID(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*applicant.Applicant)
	return a, args.Error(1)
}

func (m *MockApplicantRepository) List(ctx context.Context, filter access.Predicate, opts applicant.ListOptions) ([]*applicant.Applicant, error) {
	args := m.Called(ctx, filter, opts)
	list, _ := args.Get(0).([]*applicant.Applicant)
	return list, args.Error(1)
}

func (m *MockApplicantRepository) UpdateStage(ctx context.Context, id kernel.ApplicantID, stage applicant.Stage) error {
	return m.Called(ctx, id, stage).Error(0)
}

func (m *MockApplicantRepository) UpdateInterview(ctx context.Context, id kernel.ApplicantID, at *time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, ids access.IDSet) ([]*job.Job, error) {
	args := m.Called(ctx, ids)
	jobs, _ := args.Get(0).([]*job.Job)
	return jobs, args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByID(ctx context.Context, id kernel.EventID) (*event.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*event.Event)
	return e, args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, ids access.IDSet) ([]*event.Event, error) {
	args := m.Called(ctx, ids)
	events, _ := args.Get(0).([]*event.Event)
	return events, args.Error(1)
}

// filterAccess answers applicant checks with a fixed predicate and job and
// event checks with fixed sets.
type filterAccess struct {
	filter access.Predicate
	jobs   access.IDSet
	events access.IDSet
	err    error
}

func (f *filterAccess) AccessibleApplicantFilter(context.Context, access.Principal) (access.Predicate, error) {
	if f.err != nil {
		return access.MatchesNothing{}, f.err
	}
	return f.filter, nil
}

func (f *filterAccess) CanAccessApplicant(_ context.Context, _ access.Principal, id string, s access.Subject) error {
	if f.err != nil {
		return f.err
	}
	if !f.filter.Matches(s) {
		return access.ErrAccessDenied().WithDetail("applicant_id", id)
	}
	return nil
}

func (f *filterAccess) CanAccessJob(_ context.Context, _ access.Principal, jobID string) error {
	if f.err != nil {
		return f.err
	}
	if !f.jobs.Contains(jobID) {
		return access.ErrAccessDenied().WithDetail("job_id", jobID)
	}
	return nil
}

func (f *filterAccess) CanAccessEvent(_ context.Context, _ access.Principal, eventID string) error {
	if f.err != nil {
		return f.err
	}
	if !f.events.Contains(eventID) {
		return access.ErrAccessDenied().WithDetail("event_id", eventID)
	}
	return nil
}

// assignmentRepo backs the real resolver with in-memory scopes and assignments.
type assignmentRepo struct {
	jobScopes   []access.ScopedResource
	eventScopes []access.ScopedResource
	jobs        map[kernel.UserID][]string
	events      map[kernel.UserID][]string
}

func (r *assignmentRepo) ListJobScopes(context.Context) ([]access.ScopedResource, error) {
	return r.jobScopes, nil
}

func (r *assignmentRepo) ListEventScopes(context.Context) ([]access.ScopedResource, error) {
	return r.eventScopes, nil
}

func (r *assignmentRepo) ListAssignedJobIDs(_ context.Context, userID kernel.UserID) ([]string, error) {
	return r.jobs[userID], nil
}

func (r *assignmentRepo) ListAssignedEventIDs(_ context.Context, userID kernel.UserID) ([]string, error) {
	return r.events[userID], nil
}

func (r *assignmentRepo) HasJobAssignment(_ context.Context, userID kernel.UserID, jobID string) (bool, error) {
	return contains(r.jobs[userID], jobID), nil
}

func (r *assignmentRepo) HasEventAssignment(_ context.Context, userID kernel.UserID, eventID string) (bool, error) {
	return contains(r.events[userID], eventID), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type capturePublisher struct {
	triggers []notification.Trigger
	err      error
}

func (c *capturePublisher) Publish(_ context.Context, t notification.Trigger) error {
	c.triggers = append(c.triggers, t)
	return c.err
}

type fixture struct {
	repo      *MockApplicantRepository
	jobs      *MockJobRepository
	events    *MockEventRepository
	publisher *capturePublisher
	access    *filterAccess
	svc       *ApplicantService
}

func newFixture(filter access.Predicate) *fixture {
	f := &fixture{
		repo:      new(MockApplicantRepository),
		jobs:      new(MockJobRepository),
		events:    new(MockEventRepository),
		publisher: &capturePublisher{},
		access:    &filterAccess{filter: filter},
	}
	f.svc = NewApplicantService(f.repo, f.jobs, f.events, f.access, f.publisher)
	return f
}

var (
	reviewerPrincipal = access.Principal{UserID: "rev-1", Role: access.Reviewer{EventAccess: true}}
	managerPrincipal  = access.Principal{UserID: "hm-1", Role: access.HiringManager{
		Departments: access.Restricted("Engineering"),
		Offices:     access.Unrestricted(),
	}}
)

func engineeringJob() *job.Job {
	return &job.Job{ID: "job-1", Title: "Backend Engineer", Department: "Engineering", OfficeID: ptrx.String("office-1"), Published: true}
}

// ============================================================================
// Tests
// ============================================================================

func TestList_UsesAccessFilter(t *testing.T) {
	filter := access.NewJobIn(access.IDs("job-1"))
	f := newFixture(filter)
	opts := applicant.ListOptions{Stage: applicant.StageApplied}
	f.repo.On("List", mock.Anything, filter, opts).Return([]*applicant.Applicant{{ID: "app-1"}}, nil)

	got, err := f.svc.List(context.Background(), reviewerPrincipal, opts)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	f.repo.AssertExpectations(t)
}

func TestList_FilterErrorPropagates(t *testing.T) {
	f := newFixture(nil)
	f.svc.access = &filterAccess{err: access.ErrLookupFailed(errors.New("db down"))}

	_, err := f.svc.List(context.Background(), reviewerPrincipal, applicant.ListOptions{})

	require.Error(t, err)
	f.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestGet_DeniedLooksLikeNotFound(t *testing.T) {
	f := newFixture(access.NewJobIn(access.IDs("job-1")))
	other := kernel.JobID("job-2")
	f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).
		Return(&applicant.Applicant{ID: "app-1", JobID: &other}, nil)
	f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-2")).
		Return(nil, applicant.ErrApplicantNotFound().WithDetail("applicant_id", "app-2"))

	_, denied := f.svc.Get(context.Background(), reviewerPrincipal, "app-1")
	_, missing := f.svc.Get(context.Background(), reviewerPrincipal, "app-2")

	require.Error(t, denied)
	require.Error(t, missing)
	assert.True(t, errx.IsCode(denied, applicant.CodeApplicantNotFound))
	assert.False(t, errx.IsCode(denied, access.CodeAccessDenied))

	d, ok := errx.As(denied)
	require.True(t, ok)
	m, ok := errx.As(missing)
	require.True(t, ok)
	assert.Equal(t, m.Code, d.Code)
	assert.Equal(t, m.Message, d.Message)
	assert.Equal(t, m.HTTPStatus, d.HTTPStatus)
	assert.Equal(t, 404, d.HTTPStatus)
}

func TestGet_LookupFailureIsNotMasked(t *testing.T) {
	f := newFixture(nil)
	f.access.err = access.ErrLookupFailed(errors.New("db down"))
	f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).
		Return(&applicant.Applicant{ID: "app-1"}, nil)

	_, err := f.svc.Get(context.Background(), managerPrincipal, "app-1")

	require.Error(t, err)
	assert.False(t, errx.IsCode(err, applicant.CodeApplicantNotFound))
}

func TestCreate_NotifiesWithJobContextExcludingActor(t *testing.T) {
	f := newFixture(access.AnyOf(access.NewJobIn(access.IDs("job-1")), access.GeneralPool{}))
	f.access.jobs = access.IDs("job-1")
	jobID := kernel.JobID("job-1")
	f.jobs.On("FindByID", mock.Anything, jobID).Return(engineeringJob(), nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*applicant.Applicant")).Return(nil)

	a, err := f.svc.Create(context.Background(), managerPrincipal, CreateApplicantRequest{
		Name:  "Ada Lovelace",
		Email: "Ada@Example.com",
		JobID: &jobID,
	})

	require.NoError(t, err)
	assert.Equal(t, applicant.SourceManual, a.Source)
	assert.Equal(t, applicant.StageApplied, a.Stage)
	assert.Equal(t, "ada@example.com", a.Email)

	require.Len(t, f.publisher.triggers, 1)
	trig := f.publisher.triggers[0]
	assert.Equal(t, notification.TypeApplicantCreated, trig.Payload.Type)
	assert.Equal(t, notification.TargetContext{JobID: "job-1", Department: "Engineering", OfficeID: "office-1"}, trig.Context)
	require.NotNil(t, trig.ExcludeUserID)
	assert.Equal(t, kernel.UserID("hm-1"), *trig.ExcludeUserID)
	assert.Equal(t, "/applicants/"+a.ID.String(), trig.Payload.Link)
}

func TestCreate_ReviewerCannotFileIntoGeneralPool(t *testing.T) {
	f := newFixture(access.NewJobIn(access.IDs("job-1")))

	_, err := f.svc.Create(context.Background(), reviewerPrincipal, CreateApplicantRequest{
		Name:  "Ada",
		Email: "ada@example.com",
	})

	require.Error(t, err)
	assert.True(t, errx.IsCode(err, access.CodeAccessDenied))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.triggers)
}

func TestCreate_EventIntakeWithoutJobUsesEventScope(t *testing.T) {
	f := newFixture(access.AnyOf(access.NewEventIn(access.IDs("ev-1")), access.GeneralPool{}))
	f.access.events = access.IDs("ev-1")
	eventID := kernel.EventID("ev-1")
	f.events.On("FindByID", mock.Anything, eventID).Return(&event.Event{
		ID:         eventID,
		Name:       "Career fair",
		Department: ptrx.String("Sales"),
	}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Create(context.Background(), managerPrincipal, CreateApplicantRequest{
		Name:    "Grace",
		Email:   "grace@example.com",
		EventID: &eventID,
		Source:  applicant.SourceEvent,
	})

	require.NoError(t, err)
	require.Len(t, f.publisher.triggers, 1)
	assert.Equal(t, notification.TargetContext{
		EventID:         "ev-1",
		Department:      "Sales",
		EventDepartment: "Sales",
	}, f.publisher.triggers[0].Context)
}

func TestCreate_LinksAuthorizedIndependently(t *testing.T) {
	repo := &assignmentRepo{
		jobs:   map[kernel.UserID][]string{"rev-1": {"job-1"}},
		events: map[kernel.UserID][]string{"rev-1": {"ev-1"}},
	}
	newService := func() *fixture {
		f := newFixture(nil)
		f.svc = NewApplicantService(f.repo, f.jobs, f.events, accesssrv.NewResolver(repo), f.publisher)
		return f
	}
	jobID := func(id string) *kernel.JobID { v := kernel.JobID(id); return &v }
	eventID := func(id string) *kernel.EventID { v := kernel.EventID(id); return &v }

	denied := []struct {
		name string
		req  CreateApplicantRequest
	}{
		{"assigned event does not open an unassigned job", CreateApplicantRequest{
			JobID: jobID("job-secret"), EventID: eventID("ev-1"), Source: applicant.SourceEvent,
		}},
		{"assigned job does not open an unassigned event", CreateApplicantRequest{
			JobID: jobID("job-1"), EventID: eventID("ev-secret"), Source: applicant.SourceEvent,
		}},
		{"event intake without a job lands in the general pool", CreateApplicantRequest{
			EventID: eventID("ev-1"), Source: applicant.SourceEvent,
		}},
	}
	for _, tt := range denied {
		t.Run(tt.name, func(t *testing.T) {
			f := newService()
			tt.req.Name, tt.req.Email = "Grace", "grace@example.com"

			_, err := f.svc.Create(context.Background(), reviewerPrincipal, tt.req)

			require.Error(t, err)
			assert.True(t, errx.IsCode(err, access.CodeAccessDenied))
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, f.publisher.triggers)
		})
	}

	t.Run("both links reachable", func(t *testing.T) {
		f := newService()
		f.jobs.On("FindByID", mock.Anything, kernel.JobID("job-1")).Return(engineeringJob(), nil)
		f.events.On("FindByID", mock.Anything, kernel.EventID("ev-1")).Return(&event.Event{
			ID:         "ev-1",
			Name:       "Career fair",
			Department: ptrx.String("Sales"),
			OfficeID:   ptrx.String("office-9"),
		}, nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Create(context.Background(), reviewerPrincipal, CreateApplicantRequest{
			Name: "Grace", Email: "grace@example.com",
			JobID: jobID("job-1"), EventID: eventID("ev-1"), Source: applicant.SourceEvent,
		})

		require.NoError(t, err)
		require.Len(t, f.publisher.triggers, 1)
		assert.Equal(t, notification.TargetContext{
			JobID:           "job-1",
			Department:      "Engineering",
			OfficeID:        "office-1",
			EventID:         "ev-1",
			EventDepartment: "Sales",
			EventOfficeID:   "office-9",
		}, f.publisher.triggers[0].Context)
	})
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(access.MatchesAll{})

	tests := []struct {
		name string
		req  CreateApplicantRequest
		code errx.Code
	}{
		{"missing name", CreateApplicantRequest{Email: "a@example.com"}, applicant.CodeInvalidApplicant},
		{"bad email", CreateApplicantRequest{Name: "A", Email: "nope"}, applicant.CodeInvalidApplicant},
		{"event source without event", CreateApplicantRequest{Name: "A", Email: "a@example.com", Source: applicant.SourceEvent}, applicant.CodeEventRequired},
		{"public source", CreateApplicantRequest{Name: "A", Email: "a@example.com", Source: applicant.SourcePublic}, applicant.CodeInvalidApplicant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), managerPrincipal, tt.req)
			require.Error(t, err)
			assert.True(t, errx.IsCode(err, tt.code))
		})
	}
}

func TestApply_PublishedJob(t *testing.T) {
	f := newFixture(access.MatchesNothing{})
	f.jobs.On("FindByID", mock.Anything, kernel.JobID("job-1")).Return(engineeringJob(), nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	a, err := f.svc.Apply(context.Background(), "job-1", ApplyRequest{Name: "Ada", Email: "ada@example.com"})

	require.NoError(t, err)
	assert.Equal(t, applicant.SourcePublic, a.Source)
	require.NotNil(t, a.JobID)
	assert.Equal(t, kernel.JobID("job-1"), *a.JobID)

	require.Len(t, f.publisher.triggers, 1)
	assert.Nil(t, f.publisher.triggers[0].ExcludeUserID)
	assert.Equal(t, "job-1", f.publisher.triggers[0].Context.JobID)
}

func TestApply_UnpublishedJob(t *testing.T) {
	f := newFixture(access.MatchesNothing{})
	j := engineeringJob()
	j.Published = false
	f.jobs.On("FindByID", mock.Anything, kernel.JobID("job-1")).Return(j, nil)

	_, err := f.svc.Apply(context.Background(), "job-1", ApplyRequest{Name: "Ada", Email: "ada@example.com"})

	require.Error(t, err)
	assert.True(t, errx.IsCode(err, job.CodeJobNotPublished))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApply_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(access.MatchesNothing{})
	f.publisher.err = errors.New("queue full")
	f.jobs.On("FindByID", mock.Anything, kernel.JobID("job-1")).Return(engineeringJob(), nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Apply(context.Background(), "job-1", ApplyRequest{Name: "Ada", Email: "ada@example.com"})

	assert.NoError(t, err)
}

func TestChangeStage(t *testing.T) {
	jobID := kernel.JobID("job-1")
	current := func() *applicant.Applicant {
		return &applicant.Applicant{ID: "app-1", JobID: &jobID, Name: "Ada", Stage: applicant.StageScreening}
	}

	t.Run("moves and notifies", func(t *testing.T) {
		f := newFixture(access.NewJobIn(access.IDs("job-1")))
		f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).Return(current(), nil)
		f.repo.On("UpdateStage", mock.Anything, kernel.ApplicantID("app-1"), applicant.StageInterview).Return(nil)
		f.jobs.On("FindByID", mock.Anything, jobID).Return(engineeringJob(), nil)

		a, err := f.svc.ChangeStage(context.Background(), reviewerPrincipal, "app-1", ChangeStageRequest{Stage: "Interview"})

		require.NoError(t, err)
		assert.Equal(t, applicant.StageInterview, a.Stage)
		require.Len(t, f.publisher.triggers, 1)
		trig := f.publisher.triggers[0]
		assert.Equal(t, notification.TypeStageChanged, trig.Payload.Type)
		assert.Contains(t, trig.Payload.Message, "screening")
		assert.Contains(t, trig.Payload.Message, "interview")
		assert.Equal(t, kernel.UserID("rev-1"), *trig.ExcludeUserID)
	})

	t.Run("same stage is a no-op", func(t *testing.T) {
		f := newFixture(access.NewJobIn(access.IDs("job-1")))
		f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).Return(current(), nil)

		_, err := f.svc.ChangeStage(context.Background(), reviewerPrincipal, "app-1", ChangeStageRequest{Stage: "screening"})

		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.triggers)
	})

	t.Run("unknown stage", func(t *testing.T) {
		f := newFixture(access.MatchesAll{})

		_, err := f.svc.ChangeStage(context.Background(), reviewerPrincipal, "app-1", ChangeStageRequest{Stage: "limbo"})

		assert.True(t, errx.IsCode(err, applicant.CodeInvalidStage))
	})

	t.Run("inaccessible applicant", func(t *testing.T) {
		f := newFixture(access.NewJobIn(access.IDs("job-9")))
		f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).Return(current(), nil)

		_, err := f.svc.ChangeStage(context.Background(), reviewerPrincipal, "app-1", ChangeStageRequest{Stage: "offer"})

		assert.True(t, errx.IsCode(err, applicant.CodeApplicantNotFound))
		f.repo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInterviews(t *testing.T) {
	jobID := kernel.JobID("job-1")
	booked := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	current := func(at *time.Time) *applicant.Applicant {
		return &applicant.Applicant{ID: "app-1", JobID: &jobID, Name: "Ada", Stage: applicant.StageInterview, InterviewAt: at}
	}
	setup := func(a *applicant.Applicant) *fixture {
		f := newFixture(access.NewJobIn(access.IDs("job-1")))
		f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).Return(a, nil)
		f.jobs.On("FindByID", mock.Anything, jobID).Return(engineeringJob(), nil)
		return f
	}

	t.Run("schedule stores and notifies", func(t *testing.T) {
		f := setup(current(nil))
		f.repo.On("UpdateInterview", mock.Anything, kernel.ApplicantID("app-1"), mock.MatchedBy(func(at *time.Time) bool {
			return at != nil && at.Equal(booked)
		})).Return(nil)

		a, err := f.svc.ScheduleInterview(context.Background(), reviewerPrincipal, "app-1", InterviewRequest{At: booked})

		require.NoError(t, err)
		require.NotNil(t, a.InterviewAt)
		require.Len(t, f.publisher.triggers, 1)
		trig := f.publisher.triggers[0]
		assert.Equal(t, notification.TypeInterviewScheduled, trig.Payload.Type)
		assert.Equal(t, "job-1", trig.Context.JobID)
		assert.Equal(t, kernel.UserID("rev-1"), *trig.ExcludeUserID)
		f.repo.AssertExpectations(t)
	})

	t.Run("schedule twice conflicts", func(t *testing.T) {
		f := setup(current(&booked))

		_, err := f.svc.ScheduleInterview(context.Background(), reviewerPrincipal, "app-1", InterviewRequest{At: booked.Add(time.Hour)})

		assert.True(t, errx.IsCode(err, applicant.CodeInterviewExists))
		f.repo.AssertNotCalled(t, "UpdateInterview", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.triggers)
	})

	t.Run("schedule in the past", func(t *testing.T) {
		f := setup(current(nil))

		_, err := f.svc.ScheduleInterview(context.Background(), reviewerPrincipal, "app-1", InterviewRequest{At: time.Now().Add(-time.Hour)})

		assert.True(t, errx.IsCode(err, applicant.CodeInvalidInterview))
	})

	t.Run("reschedule notifies with both times", func(t *testing.T) {
		at := booked
		f := setup(current(&at))
		moved := booked.Add(24 * time.Hour)
		f.repo.On("UpdateInterview", mock.Anything, kernel.ApplicantID("app-1"), mock.AnythingOfType("*time.Time")).Return(nil)

		a, err := f.svc.RescheduleInterview(context.Background(), reviewerPrincipal, "app-1", InterviewRequest{At: moved})

		require.NoError(t, err)
		assert.True(t, moved.Equal(*a.InterviewAt))
		require.Len(t, f.publisher.triggers, 1)
		assert.Equal(t, notification.TypeInterviewRescheduled, f.publisher.triggers[0].Payload.Type)
	})

	t.Run("reschedule to the same time is a no-op", func(t *testing.T) {
		at := booked
		f := setup(current(&at))

		_, err := f.svc.RescheduleInterview(context.Background(), reviewerPrincipal, "app-1", InterviewRequest{At: booked})

		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "UpdateInterview", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.triggers)
	})

	t.Run("cancel clears and notifies", func(t *testing.T) {
		at := booked
		f := setup(current(&at))
		f.repo.On("UpdateInterview", mock.Anything, kernel.ApplicantID("app-1"), (*time.Time)(nil)).Return(nil)

		a, err := f.svc.CancelInterview(context.Background(), reviewerPrincipal, "app-1")

		require.NoError(t, err)
		assert.Nil(t, a.InterviewAt)
		require.Len(t, f.publisher.triggers, 1)
		assert.Equal(t, notification.TypeInterviewCancelled, f.publisher.triggers[0].Payload.Type)
		f.repo.AssertExpectations(t)
	})

	t.Run("cancel without an interview", func(t *testing.T) {
		f := setup(current(nil))

		_, err := f.svc.CancelInterview(context.Background(), reviewerPrincipal, "app-1")

		assert.True(t, errx.IsCode(err, applicant.CodeNoInterview))
	})

	t.Run("inaccessible applicant looks missing", func(t *testing.T) {
		f := newFixture(access.NewJobIn(access.IDs("job-9")))
		f.repo.On("FindByID", mock.Anything, kernel.ApplicantID("app-1")).Return(current(nil), nil)

		_, err := f.svc.ScheduleInterview(context.Background(), reviewerPrincipal, "app-1", InterviewRequest{At: booked})

		assert.True(t, errx.IsCode(err, applicant.CodeApplicantNotFound))
		assert.Empty(t, f.publisher.triggers)
	})
}
