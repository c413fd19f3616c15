package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/directory"
	"github.com/spec-kit/triage-service/internal/persistence"
	"github.com/spec-kit/triage-service/internal/repository"
)

func newOrdersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Look up and manage reference orders",
	}
	cmd.AddCommand(newOrdersGetCmd(c), newOrdersSearchCmd(c), newOrdersSeedCmd(c))
	return cmd
}

func newOrdersGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <order_id>",
		Short: "Show one order by id (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.referenceData(cmd.Context())
			if err != nil {
				return err
			}
			order, ok := data.Directory().FindOrder(args[0])
			if !ok {
				return fmt.Errorf("order %s not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), order)
		},
	}
}

func newOrdersSearchCmd(c *cli) *cobra.Command {
	var q directory.SearchQuery
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search orders by customer email or free text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if q.CustomerEmail == "" && q.Text == "" {
				return fmt.Errorf("one of --email or --q is required")
			}
			data, err := c.referenceData(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"results": data.Directory().Search(q)})
		},
	}
	cmd.Flags().StringVar(&q.CustomerEmail, "email", "", "customer email (exact, case-insensitive)")
	cmd.Flags().StringVar(&q.Text, "q", "", "text mentioning an order id or customer name")
	return cmd
}

func newOrdersSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Copy the file-backed orders into Postgres (requires POSTGRES_DSN)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if c.cfg.Postgres.DSN == "" {
				return fmt.Errorf("POSTGRES_DSN is required")
			}
			data, err := c.referenceData(ctx)
			if err != nil {
				return err
			}

			pg, err := persistence.NewPostgres(ctx, c.cfg.Postgres, c.logger)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pg.Close()

			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), c.logger); err != nil {
				return err
			}
			written, err := repository.NewOrderRepository(pg.PoolHandle()).Upsert(ctx, data.Orders)
			if err != nil {
				return fmt.Errorf("upsert orders: %w", err)
			}
			c.logger.Info("orders seeded", zap.Int("count", written))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d orders\n", written)
			return nil
		},
	}
}
