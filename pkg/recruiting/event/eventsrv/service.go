package eventsrv

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/iam/access"
	"github.com/Abraxas-365/talentgate/pkg/recruiting/event"
)

type EventAccess interface {
	AccessibleEventIDs(ctx context.Context, p access.Principal) (access.IDSet, error)
}

type EventService struct {
	repo   event.Repository
	access EventAccess
}

func NewEventService(repo event.Repository, resolver EventAccess) *EventService {
	return &EventService{repo: repo, access: resolver}
}

// ListEvents returns the events the principal may see. Reviewers without
// event access always get an empty list.
func (s *EventService) ListEvents(ctx context.Context, p access.Principal) ([]*event.Event, error) {
	ids, err := s.access.AccessibleEventIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ids)
}
