package jobsrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if j := args.Get(0); j != nil {
		return j.(*job.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockJobRepository) List(ctx context.Context, ids access.IDSet) ([]*job.Job, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*job.Job), args.Error(1)
}

type setAccess struct{ ids access.IDSet }

func (s setAccess) AccessibleJobIDs(context.Context, access.Principal) (access.IDSet, error) {
	return s.ids, nil
}

func (s setAccess) CanAccessJob(_ context.Context, _ access.Principal, jobID string) error {
	if !s.ids.Contains(jobID) {
		return access.ErrAccessDenied().WithDetail("job_id", jobID)
	}
	return nil
}

func TestListJobs_PassesAccessibleSet(t *testing.T) {
	repo := new(mockJobRepository)
	ids := access.IDs("job-1")
	repo.On("List", mock.Anything, ids).Return([]*job.Job{{ID: "job-1"}}, nil)

	svc := NewJobService(repo, setAccess{ids: ids})
	got, err := svc.ListJobs(context.Background(), access.Principal{UserID: "hm-1", Role: access.HiringManager{}})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestGetJob_DeniedBeforeRead(t *testing.T) {
	repo := new(mockJobRepository)
	svc := NewJobService(repo, setAccess{ids: access.IDs("job-1")})

	_, err := svc.GetJob(context.Background(), access.Principal{UserID: "hm-1"}, "job-2")

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
