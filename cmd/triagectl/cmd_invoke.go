package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/triage"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

type invokeOutput struct {
	RunID          string   `json:"run_id"`
	OrderID        string   `json:"order_id"`
	IssueType      string   `json:"issue_type"`
	Evidence       *string  `json:"evidence"`
	Recommendation *string  `json:"recommendation"`
	Order          any      `json:"order"`
	ReplyText      string   `json:"reply_text"`
	Transcript     []string `json:"transcript,omitempty"`
}

func newInvokeCmd(c *cli) *cobra.Command {
	var (
		ticket  string
		orderID string
		debug   bool
	)
	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run one ticket through the full triage pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			data, err := c.referenceData(ctx)
			if err != nil {
				return err
			}
			gen, err := c.newGenerator(ctx, c.cfg.Narrative)
			if err != nil {
				return fmt.Errorf("init narrative generator: %w", err)
			}

			pipeline := triage.New(triage.Dependencies{
				Rules:                     data.Table(),
				Orders:                    data.Directory(),
				Narrative:                 gen,
				Logger:                    c.logger,
				NarrativeTimeout:          c.cfg.Narrative.Timeout(),
				DegradeOnNarrativeFailure: c.cfg.Narrative.Degrade(),
			})
			svc := service.NewTriageService(service.TriageDependencies{
				Pipeline:   pipeline,
				Dispatcher: events.NewInMemoryDispatcher(c.logger),
				Logger:     c.logger,
			})

			input := service.TriageInput{TicketText: ticket}
			if cmd.Flags().Changed("order-id") {
				input.OrderID = &orderID
			}
			result, err := svc.Triage(ctx, input)
			if err != nil {
				return describeError(err)
			}

			out := invokeOutput{
				RunID:          result.RunID,
				OrderID:        result.OrderID,
				IssueType:      result.IssueType,
				Evidence:       result.Evidence,
				Recommendation: result.Recommendation,
				Order:          result.Order,
				ReplyText:      result.ReplyText,
			}
			if debug {
				for _, m := range result.Transcript {
					out.Transcript = append(out.Transcript, fmt.Sprintf("[%s] %s", m.Role, m.Text))
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ticket, "ticket", "", "ticket text (required)")
	f.StringVar(&orderID, "order-id", "", "explicit order id; overrides any id in the ticket text")
	f.BoolVar(&debug, "debug", false, "include the run transcript")
	_ = cmd.MarkFlagRequired("ticket")
	return cmd
}

// describeError renders a domain error as "CODE: message", followed by its cause when one is wrapped.
func describeError(err error) error {
	de := apperrors.ToDomainError(err)
	if de.Err != nil {
		return fmt.Errorf("%s: %s: %w", de.Code, de.Message, de.Err)
	}
	return fmt.Errorf("%s: %s", de.Code, de.Message)
}
