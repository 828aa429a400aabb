package subscriptionsrv

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/iam/user"
	"github.com/Abraxas-365/talentgate/pkg/kernel"
	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/Abraxas-365/talentgate/pkg/notification/subscription"
)

type SubscriptionService struct {
	repo     subscription.Repository
	userRepo user.UserRepository
}

func NewSubscriptionService(repo subscription.Repository, userRepo user.UserRepository) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// SubscribersResponse lists who is subscribed to a target.
type SubscribersResponse struct {
	Target      subscription.Target   `json:"target"`
	Subscribers []user.UserDetailsDTO `json:"subscribers"`
}

// SetSubscribersRequest replaces the subscribers of a target.
type SetSubscribersRequest struct {
	Type    subscription.Type `json:"type"`
	Value   string            `json:"value"`
	UserIDs []kernel.UserID   `json:"user_ids"`
}

func (s *SubscriptionService) ListSubscribers(ctx context.Context, target subscription.Target) (*SubscribersResponse, error) {
	subs, err := s.repo.ListByTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UserID, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.UserID)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &SubscribersResponse{Target: target, Subscribers: make([]user.UserDetailsDTO, 0, len(users))}
	for _, u := range users {
		resp.Subscribers = append(resp.Subscribers, u.ToDTO())
	}
	return resp, nil
}

// SetSubscribers validates every user exists, then replaces the target's
// subscribers in one transaction.
func (s *SubscriptionService) SetSubscribers(ctx context.Context, req SetSubscribersRequest) (*SubscribersResponse, error) {
	target, err := subscription.NewTarget(req.Type, req.Value)
	if err != nil {
		return nil, err
	}

	unique := make([]kernel.UserID, 0, len(req.UserIDs))
	seen := make(map[kernel.UserID]struct{}, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if _, dup := seen[id]; dup || id.IsEmpty() {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.userRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(users) != len(unique) {
		found := make(map[kernel.UserID]struct{}, len(users))
		for _, u := range users {
			found[u.ID] = struct{}{}
		}
		var missing []string
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				missing = append(missing, id.String())
			}
		}
		return nil, subscription.ErrUnknownUsers().WithDetail("user_ids", missing)
	}

	if err := s.repo.ReplaceSubscribers(ctx, target, unique); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"type":        target.Type,
		"value":       target.Value,
		"subscribers": len(unique),
	}).Info("Subscribers replaced")

	resp := &SubscribersResponse{Target: target, Subscribers: make([]user.UserDetailsDTO, 0, len(users))}
	for _, u := range users {
		resp.Subscribers = append(resp.Subscribers, u.ToDTO())
	}
	return resp, nil
}

func (s *SubscriptionService) ListForUser(ctx context.Context, userID kernel.UserID) ([]subscription.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MigrateLegacy moves legacy job subscribers into the subscriptions table.
func (s *SubscriptionService) MigrateLegacy(ctx context.Context) (int64, error) {
	n, err := s.repo.MigrateLegacy(ctx)
	if err != nil {
		return 0, err
	}
	logx.Infof("Migrated %d legacy job subscriptions", n)
	return n, nil
}
