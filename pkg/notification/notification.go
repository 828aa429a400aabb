package notification

import (
	"context"
	"slices"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription"
	"github.com/google/uuid"
)

type Type string

const (
	TypeApplicantCreated     Type = "applicant_created"
	TypeStageChanged         Type = "stage_changed"
	TypeInterviewScheduled   Type = "interview_scheduled"
	TypeInterviewRescheduled Type = "interview_rescheduled"
	TypeInterviewCancelled   Type = "interview_cancelled"
)

// TargetContext describes what a business event is about. Empty fields are
// absent. EventDepartment and EventOfficeID carry the event's own scope when
// it differs from the job's; they feed wildcard replay only.
type TargetContext struct {
	JobID           string `json:"job_id,omitempty"`
	Department      string `json:"department,omitempty"`
	OfficeID        string `json:"office_id,omitempty"`
	EventID         string `json:"event_id,omitempty"`
	EventDepartment string `json:"event_department,omitempty"`
	EventOfficeID   string `json:"event_office_id,omitempty"`
}

// Targets lists the (type, value) pairs present in the context.
func (c TargetContext) Targets() []subscription.Target {
	var targets []subscription.Target
	if c.JobID != "" {
		targets = append(targets, subscription.Target{Type: subscription.TypeJob, Value: c.JobID})
	}
	if c.Department != "" {
		targets = append(targets, subscription.Target{Type: subscription.TypeDepartment, Value: c.Department})
	}
	if c.OfficeID != "" {
		targets = append(targets, subscription.Target{Type: subscription.TypeOffice, Value: c.OfficeID})
	}
	if c.EventID != "" {
		targets = append(targets, subscription.Target{Type: subscription.TypeEvent, Value: c.EventID})
	}
	return targets
}

// Payload is the user-facing content of a notification.
type Payload struct {
	Type    Type   `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

// Notification is one in-app notification row.
type Notification struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	Type      Type          `db:"type" json:"type"`
	Title     string        `db:"title" json:"title"`
	Message   string        `db:"message" json:"message"`
	Link      string        `db:"link" json:"link"`
	Read      bool          `db:"read" json:"read"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// New builds an unread notification for userID.
func New(userID kernel.UserID, p Payload) Notification {
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      p.Type,
		Title:     p.Title,
		Message:   p.Message,
		Link:      p.Link,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
}

// Sink persists notifications.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Trigger is a committed business event waiting to be fanned out.
type Trigger struct {
	Context       TargetContext  `json:"context"`
	Payload       Payload        `json:"payload"`
	ExcludeUserID *kernel.UserID `json:"exclude_user_id,omitempty"`
}

// Publisher hands a trigger to the post-commit pipeline. Callers publish only
// after their write has committed and ignore the fan-out outcome.
type Publisher interface {
	Publish(ctx context.Context, t Trigger) error
}

// UserSet is a deduplicated set of recipients.
type UserSet map[kernel.UserID]struct{}

func (s UserSet) Add(id kernel.UserID) {
	if !id.IsEmpty() {
		s[id] = struct{}{}
	}
}

func (s UserSet) Remove(id kernel.UserID) {
	delete(s, id)
}

func (s UserSet) Has(id kernel.UserID) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the members sorted.
func (s UserSet) Slice() []kernel.UserID {
	out := make([]kernel.UserID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
