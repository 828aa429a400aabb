package applicant

import (
	"testing"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	stage, err := ParseStage("  Interview ")
	require.NoError(t, err)
	assert.Equal(t, StageInterview, stage)

	_, err = ParseStage("limbo")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, CodeInvalidStage))
}

func TestSubject(t *testing.T) {
	jobID := kernel.JobID("job-1")
	eventID := kernel.EventID("ev-1")

	assert.Equal(t, access.Subject{}, (&Applicant{}).Subject())
	assert.Equal(t, access.Subject{JobID: "job-1", EventID: "ev-1"}, (&Applicant{JobID: &jobID, EventID: &eventID}).Subject())

	general := &Applicant{EventID: &eventID}
	assert.True(t, general.InGeneralPool())
	assert.True(t, access.GeneralPool{}.Matches(general.Subject()))
}

func TestChangeStage(t *testing.T) {
	a := &Applicant{Stage: StageApplied}

	assert.False(t, a.ChangeStage(StageApplied))
	assert.True(t, a.UpdatedAt.IsZero())

	assert.True(t, a.ChangeStage(StageScreening))
	assert.Equal(t, StageScreening, a.Stage)
	assert.False(t, a.UpdatedAt.IsZero())
}

func TestInterviewLifecycle(t *testing.T) {
	a := &Applicant{ID: "app-1", Stage: StageInterview}
	first := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	second := first.Add(2 * time.Hour)

	_, _, err := a.RescheduleInterview(second)
	assert.True(t, errx.IsCode(err, CodeNoInterview))
	_, err = a.CancelInterview()
	assert.True(t, errx.IsCode(err, CodeNoInterview))

	require.NoError(t, a.ScheduleInterview(first))
	require.NotNil(t, a.InterviewAt)
	assert.True(t, first.Equal(*a.InterviewAt))
	assert.Equal(t, time.UTC, a.InterviewAt.Location())

	err = a.ScheduleInterview(second)
	assert.True(t, errx.IsCode(err, CodeInterviewExists))

	from, changed, err := a.RescheduleInterview(first)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, first.Equal(from))

	from, changed, err = a.RescheduleInterview(second)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, first.Equal(from))
	assert.True(t, second.Equal(*a.InterviewAt))

	at, err := a.CancelInterview()
	require.NoError(t, err)
	assert.True(t, second.Equal(at))
	assert.Nil(t, a.InterviewAt)
}

func TestScheduleInterview_RejectsPastAndZero(t *testing.T) {
	for _, at := range []time.Time{{}, time.Now().Add(-time.Minute)} {
		a := &Applicant{ID: "app-1"}
		err := a.ScheduleInterview(at)
		require.Error(t, err)
		assert.True(t, errx.IsCode(err, CodeInvalidInterview))
		assert.Nil(t, a.InterviewAt)
	}
}
