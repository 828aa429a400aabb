package notificationsrv

import (
	"context"
	"encoding/json"

	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/notification"
	"github.com/Abraxas-365/talentgate/pkg/postcommit"
)

// TaskNotify is the post-commit task kind carrying a notification.Trigger.
const TaskNotify = "notification.notify"

// AsyncPublisher publishes triggers onto the post-commit dispatcher.
type AsyncPublisher struct {
	dispatcher *postcommit.Dispatcher
}

// NewAsyncPublisher registers the notify task on d and returns a publisher for it.
func NewAsyncPublisher(d *postcommit.Dispatcher, service *NotificationService) *AsyncPublisher {
	d.Register(TaskNotify, func(ctx context.Context, payload json.RawMessage) error {
		var t notification.Trigger
		if err := json.Unmarshal(payload, &t); err != nil {
			return errx.Wrap(err, "failed to decode notification trigger", errx.TypeInternal)
		}
		service.Notify(ctx, t)
		return nil
	})
	return &AsyncPublisher{dispatcher: d}
}

func (p *AsyncPublisher) Publish(ctx context.Context, t notification.Trigger) error {
	return p.dispatcher.Enqueue(ctx, TaskNotify, t)
}
