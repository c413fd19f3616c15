package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/events"
)

// ChannelPublisher broadcasts a payload on a named channel.
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService logs triage outcomes and fans them out to a pub/sub channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	publisher  ChannelPublisher
	channel    string
}

// NewNotificationService creates the service. A nil publisher or empty channel disables fan-out.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, publisher ChannelPublisher, channel string) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		publisher:  publisher,
		channel:    channel,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTriageCompleted, n.handleCompleted)
	n.dispatcher.Subscribe(events.EventTriageRejected, n.handleRejected)
	n.dispatcher.Subscribe(events.EventTriageAborted, n.handleAborted)
}

func (n *NotificationService) handleCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TriageCompleted", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	return n.fanOut(ctx, event)
}

func (n *NotificationService) handleRejected(ctx context.Context, event events.Event) error {
	n.logger.Info("TriageRejected", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	return n.fanOut(ctx, event)
}

func (n *NotificationService) handleAborted(ctx context.Context, event events.Event) error {
	n.logger.Warn("TriageAborted", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	return n.fanOut(ctx, event)
}

func (n *NotificationService) fanOut(ctx context.Context, event events.Event) error {
	if n.publisher == nil || n.channel == "" {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, n.channel, data)
}
