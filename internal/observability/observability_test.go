package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "DEBUG", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordTriage(OutcomeCompleted, "refund_request")
	m.RecordTriage(OutcomeCompleted, "refund_request")
	m.RecordTriage(OutcomeClassificationFailed, "")
	m.RecordError("/triage/invoke", "POST", "ORDER_NOT_FOUND")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TriageOutcomes[OutcomeCompleted])
	assert.Equal(t, int64(1), snap.TriageOutcomes[OutcomeClassificationFailed])
	assert.Equal(t, int64(2), snap.IssueTypes["refund_request"])
	assert.Len(t, snap.IssueTypes, 1)
	assert.Equal(t, int64(1), snap.Errors["/triage/invoke|POST|ORDER_NOT_FOUND"])

	snap.TriageOutcomes[OutcomeCompleted] = 99
	assert.Equal(t, int64(2), m.Snapshot().TriageOutcomes[OutcomeCompleted], "snapshot is a copy")

	var nilMetrics *Metrics
	nilMetrics.RecordTriage(OutcomeCompleted, "x")
	assert.Empty(t, nilMetrics.Snapshot().TriageOutcomes)
}

func TestRequestLogger(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/ping|GET|200"])
}
