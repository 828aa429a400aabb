package notificationsrv

import (
	"context"

	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/Abraxas-365/talentgate/pkg/notification"
)

// NotificationService resolves recipients and writes one row per recipient.
type NotificationService struct {
	engine *TargetingEngine
	sink   notification.Sink
}

func NewNotificationService(engine *TargetingEngine, sink notification.Sink) *NotificationService {
	return &NotificationService{
		engine: engine,
		sink:   sink,
	}
}

// Notify fans a trigger out and returns how many rows were written. A
// failed row is logged and the remaining recipients are still served.
func (s *NotificationService) Notify(ctx context.Context, t notification.Trigger) int {
	targets := s.engine.ResolveTargets(ctx, t.Context, t.ExcludeUserID)

	delivered := 0
	for _, userID := range targets.Slice() {
		if err := s.sink.Deliver(ctx, notification.New(userID, t.Payload)); err != nil {
			logx.WithFields(logx.Fields{
				"user_id": userID.String(),
				"type":    string(t.Payload.Type),
				"error":   err.Error(),
			}).Error("Failed to deliver notification")
			continue
		}
		delivered++
	}

	logx.WithFields(logx.Fields{
		"type":       string(t.Payload.Type),
		"recipients": len(targets),
		"delivered":  delivered,
	}).Debugf("Notification fan-out finished")

	return delivered
}
