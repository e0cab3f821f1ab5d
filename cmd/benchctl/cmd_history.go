package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultHistoryPageSize = 20

func newHistoryCommand(a *app) *cobra.Command {
	var (
		page       int
		size       int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past benchmark jobs known to the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 0 {
				return fmt.Errorf("--page must not be negative, got %d", page)
			}
			if size < 1 {
				return fmt.Errorf("--size must be positive, got %d", size)
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			p, err := orch.History(cmd.Context(), page, size)
			if err != nil {
				return fmt.Errorf("fetching history: %w", err)
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(w, p)
			}
			if len(p.Content) == 0 {
				fmt.Fprintln(w, "No jobs.") //nolint:errcheck
				return nil
			}
			t := &table{header: []string{"JOB", "STATUS", "PURCHASE", "MODELS", "QUESTIONS", "CREATED"}}
			for _, j := range p.Content {
				names := make([]string, 0, len(j.Models))
				for _, m := range j.Models {
					names = append(names, m.String())
				}
				t.add(
					j.JobID,
					string(j.Status),
					strconv.FormatInt(j.PurchaseID, 10),
					truncateName(strings.Join(names, ","), 48),
					strconv.Itoa(j.QuestionCount),
					j.CreatedAt.Local().Format(time.DateTime),
				)
			}
			t.write(w)
			fmt.Fprintf(w, "\npage %d of %d (%d jobs)\n", p.Page+1, max(p.TotalPages, 1), p.TotalElements) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&size, "size", defaultHistoryPageSize, "Page size")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the page as JSON")
	return cmd
}
