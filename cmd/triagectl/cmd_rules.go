package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newClassifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <ticket text>",
		Short: "Classify ticket text with the keyword rules only",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.referenceData(cmd.Context())
			if err != nil {
				return err
			}
			match := data.Table().Match(strings.Join(args, " "))
			return writeJSON(cmd.OutOrStdout(), match)
		},
	}
}

func newRulesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List issue rules in evaluation order and their reply templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.referenceData(cmd.Context())
			if err != nil {
				return err
			}
			table := data.Table()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tKEYWORD\tISSUE TYPE")
			for i, r := range table.Rules() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, r.Keyword, r.IssueType)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "ISSUE TYPE\tTEMPLATE")
			for _, t := range table.Templates() {
				fmt.Fprintf(w, "%s\t%s\n", t.IssueType, t.Template)
			}
			return w.Flush()
		},
	}
}
