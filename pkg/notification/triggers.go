package notification

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/kernel"
)

// Subject identifies the applicant a trigger is about along with the
// job/event it is linked to.
type Subject struct {
	ApplicantID   kernel.ApplicantID
	ApplicantName string
	JobTitle      string
	Context       TargetContext
}

func (s Subject) link() string {
	return "/applicants/" + s.ApplicantID.String()
}

func (s Subject) where() string {
	if s.JobTitle != "" {
		return " for " + s.JobTitle
	}
	return ""
}

func ApplicantCreated(s Subject, source string, actor *kernel.UserID) Trigger {
	return Trigger{
		Context: s.Context,
		Payload: Payload{
			Type:    TypeApplicantCreated,
			Title:   "New applicant",
			Message: fmt.Sprintf("%s applied%s (%s)", s.ApplicantName, s.where(), source),
			Link:    s.link(),
		},
		ExcludeUserID: actor,
	}
}

func StageChanged(s Subject, from, to string, actor *kernel.UserID) Trigger {
	return Trigger{
		Context: s.Context,
		Payload: Payload{
			Type:    TypeStageChanged,
			Title:   "Stage changed",
			Message: fmt.Sprintf("%s moved from %s to %s%s", s.ApplicantName, from, to, s.where()),
			Link:    s.link(),
		},
		ExcludeUserID: actor,
	}
}

func InterviewScheduled(s Subject, at time.Time, actor *kernel.UserID) Trigger {
	return Trigger{
		Context: s.Context,
		Payload: Payload{
			Type:    TypeInterviewScheduled,
			Title:   "Interview scheduled",
			Message: fmt.Sprintf("Interview with %s%s on %s", s.ApplicantName, s.where(), at.UTC().Format(time.RFC1123)),
			Link:    s.link(),
		},
		ExcludeUserID: actor,
	}
}

func InterviewRescheduled(s Subject, from, to time.Time, actor *kernel.UserID) Trigger {
	return Trigger{
		Context: s.Context,
		Payload: Payload{
			Type:  TypeInterviewRescheduled,
			Title: "Interview rescheduled",
			Message: fmt.Sprintf("Interview with %s%s moved from %s to %s",
				s.ApplicantName, s.where(), from.UTC().Format(time.RFC1123), to.UTC().Format(time.RFC1123)),
			Link: s.link(),
		},
		ExcludeUserID: actor,
	}
}

func InterviewCancelled(s Subject, actor *kernel.UserID) Trigger {
	return Trigger{
		Context: s.Context,
		Payload: Payload{
			Type:    TypeInterviewCancelled,
			Title:   "Interview cancelled",
			Message: fmt.Sprintf("Interview with %s%s was cancelled", s.ApplicantName, s.where()),
			Link:    s.link(),
		},
		ExcludeUserID: actor,
	}
}
