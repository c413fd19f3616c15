package worker

import (
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/messaging"
	"github.com/spec-kit/triage-service/internal/service"
)

// StartEventWorker registers the notification handlers and, when configured, the Kafka sink
// for every triage outcome event.
func StartEventWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, kafka *messaging.KafkaPublisher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if dispatcher == nil || kafka == nil {
		return
	}
	for _, eventType := range events.TriageEventTypes {
		dispatcher.Subscribe(eventType, kafka.Handle)
	}
}
