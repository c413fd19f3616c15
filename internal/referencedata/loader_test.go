package referencedata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
)

type stubOrders struct {
	orders []domain.Order
	err    error
}

func (s stubOrders) ListOrders(context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

func TestLoad_EmbeddedDefaults(t *testing.T) {
	data, err := Load(context.Background(), config.DataConfig{}, nil, zap.NewNop())
	require.NoError(t, err)

	order, ok := data.Directory().FindOrder("ORD1002")
	require.True(t, ok)
	assert.Equal(t, "David Lee", order.CustomerName)

	table := data.Table()
	assert.Equal(t, "refund_request", table.Classify("Hi, my order ORD1002 is late and I want a refund."))
	assert.Contains(t, table.TemplateFor("refund_request"), "{{customer_name}}")
}

func TestLoad_YAMLFiles(t *testing.T) {
	dir := t.TempDir()
	issues := filepath.Join(dir, "issues.yaml")
	require.NoError(t, os.WriteFile(issues, []byte("- keyword: lost\n  issue_type: lost_package\n"), 0o600))

	data, err := Load(context.Background(), config.DataConfig{IssuesPath: issues}, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []domain.IssueRule{{Keyword: "lost", IssueType: "lost_package"}}, data.Rules)
}

func TestLoad_OrderSource(t *testing.T) {
	src := stubOrders{orders: []domain.Order{{OrderID: "ORD7777", CustomerName: "From DB"}}}

	data, err := Load(context.Background(), config.DataConfig{}, src, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, data.Orders, 1)
	assert.Equal(t, "From DB", data.Orders[0].CustomerName)
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	tests := []struct {
		name   string
		cfg    config.DataConfig
		orders OrderSource
	}{
		{name: "missing file", cfg: config.DataConfig{OrdersPath: filepath.Join(dir, "nope.json")}},
		{name: "malformed json", cfg: config.DataConfig{RepliesPath: write("bad.json", `[{"issue_type": `)}},
		{name: "rule without keyword", cfg: config.DataConfig{IssuesPath: write("rules.json", `[{"issue_type":"x"}]`)}},
		{name: "template without body", cfg: config.DataConfig{RepliesPath: write("tpl.json", `[{"issue_type":"x"}]`)}},
		{name: "order without id", cfg: config.DataConfig{OrdersPath: write("orders.json", `[{"customer_name":"x"}]`)}},
		{name: "order source error", orders: stubOrders{err: errors.New("db down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.cfg, tt.orders, zap.NewNop())
			assert.Error(t, err)
		})
	}
}
