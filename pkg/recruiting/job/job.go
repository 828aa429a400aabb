package job

import (
	"context"
	"net/http"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/ptrx"
)

// Job is a posting applicants apply to.
type Job struct {
	ID         kernel.JobID `db:"id" json:"id"`
	Title      string       `db:"title" json:"title"`
	Department string       `db:"department" json:"department"`
	OfficeID   *string      `db:"office_id" json:"office_id,omitempty"`
	Published  bool         `db:"published" json:"published"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// Office returns the office id, empty when the job has none.
func (j *Job) Office() string {
	return ptrx.Deref(j.OfficeID)
}

func (j *Job) Subject() access.Subject {
	return access.Subject{JobID: j.ID.String()}
}

type Repository interface {
	FindByID(ctx context.Context, id kernel.JobID) (*Job, error)
	// List returns the jobs in ids. An empty restricted set yields no rows
	// without querying.
	List(ctx context.Context, ids access.IDSet) ([]*Job, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("JOB")

var (
	CodeJobNotFound     = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeJobNotPublished = ErrRegistry.Register("NOT_PUBLISHED", errx.TypeNotFound, http.StatusNotFound, "Job is not accepting applications")
)

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobNotPublished() *errx.Error {
	return ErrRegistry.New(CodeJobNotPublished)
}
