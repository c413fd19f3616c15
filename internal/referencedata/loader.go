// Package referencedata loads the order, issue-rule and reply-template collections once at startup.
package referencedata

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/directory"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/rules"
)

//go:embed data/*.json
var defaultFS embed.FS

const (
	defaultOrders  = "data/orders.json"
	defaultIssues  = "data/issues.json"
	defaultReplies = "data/replies.json"
)

// OrderSource supplies orders from an external store instead of a file.
type OrderSource interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// Data is the loaded reference data.
type Data struct {
	Orders    []domain.Order
	Rules     []domain.IssueRule
	Templates []domain.ReplyTemplate
}

// Load reads the three collections concurrently. When orders is non-nil it replaces the orders file.
// Any malformed collection fails the whole load.
func Load(ctx context.Context, cfg config.DataConfig, orders OrderSource, logger *zap.Logger) (*Data, error) {
	data := &Data{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if orders != nil {
			list, err := orders.ListOrders(gctx)
			if err != nil {
				return fmt.Errorf("load orders from store: %w", err)
			}
			data.Orders = list
			return nil
		}
		return decodeInto(cfg.OrdersPath, defaultOrders, &data.Orders)
	})
	g.Go(func() error {
		if err := decodeInto(cfg.IssuesPath, defaultIssues, &data.Rules); err != nil {
			return err
		}
		return validateRules(data.Rules)
	})
	g.Go(func() error {
		if err := decodeInto(cfg.RepliesPath, defaultReplies, &data.Templates); err != nil {
			return err
		}
		return validateTemplates(data.Templates)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("reference data loaded",
		zap.Int("orders", len(data.Orders)),
		zap.Int("issue_rules", len(data.Rules)),
		zap.Int("reply_templates", len(data.Templates)))
	return data, nil
}

// Table builds the rule lookup table.
func (d *Data) Table() *rules.Table {
	return rules.NewTable(d.Rules, d.Templates)
}

// Directory builds the order directory.
func (d *Data) Directory() *directory.Directory {
	return directory.New(d.Orders)
}

// decodeInto parses JSON or YAML from path, or from the embedded default when path is empty.
func decodeInto(path, fallback string, out any) error {
	var (
		raw []byte
		err error
	)
	name := path
	if path == "" {
		name = "embedded " + fallback
		raw, err = defaultFS.ReadFile(fallback)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func validateRules(list []domain.IssueRule) error {
	for i, r := range list {
		if strings.TrimSpace(r.Keyword) == "" || strings.TrimSpace(r.IssueType) == "" {
			return fmt.Errorf("issue rule %d: keyword and issue_type are required", i)
		}
	}
	return nil
}

func validateTemplates(list []domain.ReplyTemplate) error {
	for i, tpl := range list {
		if strings.TrimSpace(tpl.IssueType) == "" || strings.TrimSpace(tpl.Template) == "" {
			return fmt.Errorf("reply template %d: issue_type and template are required", i)
		}
	}
	return nil
}
