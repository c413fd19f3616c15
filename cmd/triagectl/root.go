package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/narrative"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/referencedata"
)

type cli struct {
	cfg    *config.Config
	logger *zap.Logger

	ordersPath  string
	issuesPath  string
	repliesPath string
	logLevel    string

	newGenerator func(ctx context.Context, cfg config.NarrativeConfig) (narrative.Generator, error)
	data         *referencedata.Data
}

func newCLI() *cli {
	return &cli{newGenerator: narrative.New}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "triagectl",
		Short: "Triage support tickets against order and rule reference data",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		Version:           version,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.ordersPath, "orders", "", "orders JSON/YAML file (default: DATA_ORDERS_PATH or embedded)")
	f.StringVar(&c.issuesPath, "issues", "", "issue rules file (default: DATA_ISSUES_PATH or embedded)")
	f.StringVar(&c.repliesPath, "replies", "", "reply templates file (default: DATA_REPLIES_PATH or embedded)")
	f.StringVar(&c.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newInvokeCmd(c),
		newClassifyCmd(c),
		newRulesCmd(c),
		newOrdersCmd(c),
		newHashSecretCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.ordersPath != "" {
		cfg.Data.OrdersPath = c.ordersPath
	}
	if c.issuesPath != "" {
		cfg.Data.IssuesPath = c.issuesPath
	}
	if c.repliesPath != "" {
		cfg.Data.RepliesPath = c.repliesPath
	}
	cfg.Logger.Level = c.logLevel
	cfg.Logger.Format = "console"

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

// referenceData loads the file-backed collections once per invocation.
func (c *cli) referenceData(ctx context.Context) (*referencedata.Data, error) {
	if c.data != nil {
		return c.data, nil
	}
	data, err := referencedata.Load(ctx, c.cfg.Data, nil, c.logger)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	c.data = data
	return data, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
