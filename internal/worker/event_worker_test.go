package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/service"
)

type countingPublisher struct{ n int }

func (p *countingPublisher) Publish(context.Context, string, []byte) error {
	p.n++
	return nil
}

func TestStartEventWorker_WithoutKafka(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	pub := &countingPublisher{}
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), pub, "ch")

	StartEventWorker(dispatcher, notifications, nil)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTriageRejected}))
	assert.Equal(t, 1, pub.n)
}

func TestStartEventWorker_NilEverything(t *testing.T) {
	assert.NotPanics(t, func() { StartEventWorker(nil, nil, nil) })
}
