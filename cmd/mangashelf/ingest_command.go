package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mangashelf/internal/archive"
	"mangashelf/internal/ingest"
	"mangashelf/internal/workflow"
	"mangashelf/pkg/models"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		exportPath  string
		libraryPath string
		archiveDir  string
		language    string
		noArchive   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Append the titles of a JSON export to the library file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			parser, err := ingest.NewParser()
			if err != nil {
				return err
			}
			if language != "" {
				parser.Language = language
			}

			ingester := &workflow.Ingester{Parser: parser}
			if !noArchive {
				ingester.Archiver = archive.New(orDefault(archiveDir, cfg.Paths.ArchiveDir))
			}

			var bar *progressbar.ProgressBar
			if isatty.IsTerminal(os.Stdout.Fd()) {
				ingester.OnEntry = func(n int, _ models.TitleRecord) {
					if bar == nil {
						bar = progressbar.Default(-1, "appending")
					}
					_ = bar.Add(1)
				}
			}

			out, err := ingester.Ingest(cmd.Context(), workflow.IngestInput{
				ExportPath:  orDefault(exportPath, cfg.Paths.Export),
				LibraryPath: orDefault(libraryPath, cfg.Paths.Library),
			})
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Records) == 0 {
				fmt.Fprintln(w, "No new manga entries found to add.")
				return nil
			}
			fmt.Fprintf(w, "Added %d new entries to the library\n", len(out.Records))
			for _, p := range out.Archived {
				fmt.Fprintf(w, "Archived %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportPath, "export", "e", "", "JSON export file (default from config)")
	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "Library text file (default from config)")
	cmd.Flags().StringVar(&archiveDir, "archive-dir", "", "Archive directory (default from config)")
	cmd.Flags().StringVar(&language, "language", "", "Preferred title language (default en)")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Leave the export file in place")
	return cmd
}
