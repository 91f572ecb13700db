package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mangashelf/internal/history"
	"mangashelf/internal/report"
	"mangashelf/internal/workflow"
)

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var (
		libraryPath   string
		referencePath string
		reportPath    string
		exclusive     bool
		noHistory     bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Find library titles that also appear in the reference list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("exclusive") {
				exclusive = cfg.Compare.ExclusiveReferences
			}

			comparer := &workflow.Comparer{LogCollisions: cfg.Compare.LogCollisions}
			if cfg.Database.Enabled && !noHistory {
				db, err := openHistory(cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				comparer.History = history.NewRepo(db)
			}

			out, err := comparer.Compare(cmd.Context(), workflow.CompareInput{
				LibraryPath:   orDefault(libraryPath, cfg.Paths.Library),
				ReferencePath: orDefault(referencePath, cfg.Paths.Reference),
				Exclusive:     exclusive,
				Source:        "cli",
			})
			if out == nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Found %d matching titles\n", out.Run.MatchCount)
			if out.Run.MatchCount > 0 {
				fmt.Fprintln(w, report.Table(out.Run.Matches))
			}
			if err != nil {
				logrus.WithError(err).Error("[compare] run not stored in history")
			}

			dest := orDefault(reportPath, cfg.Paths.Report)
			if err := report.Save(dest, out.Run.Matches, out.Run.StartedAt); err != nil {
				return err
			}
			fmt.Fprintf(w, "Report saved to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "Library text file (default from config)")
	cmd.Flags().StringVarP(&referencePath, "reference", "r", "", "Reference CSV file (default from config)")
	cmd.Flags().StringVarP(&reportPath, "report", "o", "", "Report output path (default from config)")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "Let each reference entry match at most one library entry")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
