package jobsrv

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/job"
)

// JobAccess is the part of the access resolver the job service needs.
type JobAccess interface {
	AccessibleJobIDs(ctx context.Context, p access.Principal) (access.IDSet, error)
	CanAccessJob(ctx context.Context, p access.Principal, jobID string) error
}

type JobService struct {
	repo   job.Repository
	access JobAccess
}

func NewJobService(repo job.Repository, resolver JobAccess) *JobService {
	return &JobService{repo: repo, access: resolver}
}

// ListJobs returns the jobs the principal may see.
func (s *JobService) ListJobs(ctx context.Context, p access.Principal) ([]*job.Job, error) {
	ids, err := s.access.AccessibleJobIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ids)
}

// GetJob checks access before reading so denial and absence look the same.
func (s *JobService) GetJob(ctx context.Context, p access.Principal, id kernel.JobID) (*job.Job, error) {
	if err := s.access.CanAccessJob(ctx, p, id.String()); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
