package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mangashelf/internal/history"
	"mangashelf/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded comparison runs",
	}
	cmd.AddCommand(newHistoryListCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(repo *history.Repo) error {
				runs, total, err := repo.List(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				if total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.RunsTable(runs, total))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Runs to skip")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(repo *history.Repo) error {
				run, err := repo.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Run %s\nLibrary:   %s (%d entries)\nReference: %s (%d entries)\n\n",
					run.ID, run.LibrarySource, run.LibraryCount, run.ReferenceSource, run.ReferenceCount)
				fmt.Fprint(w, report.Format(run.Matches, run.StartedAt.Local()))
				return nil
			})
		},
	}
}
