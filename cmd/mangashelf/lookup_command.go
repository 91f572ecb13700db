package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"mangashelf/internal/compare"
	"mangashelf/internal/library"
	"mangashelf/internal/reference"
	"mangashelf/pkg/models"
)

type lookupIndexes struct {
	library   *compare.Index
	reference *compare.Index
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var libraryPath, referencePath string

	cmd := &cobra.Command{
		Use:   "lookup [title...]",
		Short: "Show which library and reference entries answer to a title",
		Long: "Normalizes each title and lists the library and reference entries\n" +
			"sharing its key. Without arguments an interactive prompt is started.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lib, err := library.Load(orDefault(libraryPath, cfg.Paths.Library))
			if err != nil {
				return err
			}
			ref, err := reference.Load(orDefault(referencePath, cfg.Paths.Reference))
			if err != nil {
				return err
			}
			idx := lookupIndexes{library: compare.BuildIndex(lib), reference: compare.BuildIndex(ref)}

			w := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, title := range args {
					printLookup(w, idx, title)
				}
				return nil
			}
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return errors.New("lookup needs a title argument when stdin is not a terminal")
			}
			return lookupShell(w, idx)
		},
	}

	cmd.Flags().StringVarP(&libraryPath, "library", "l", "", "Library text file (default from config)")
	cmd.Flags().StringVarP(&referencePath, "reference", "r", "", "Reference CSV file (default from config)")
	return cmd
}

func lookupShell(w io.Writer, idx lookupIndexes) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := lookupHistoryPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(w, "%d library keys, %d reference keys. Empty line or Ctrl-D quits.\n",
		idx.library.Len(), idx.reference.Len())
	for {
		input, err := line.Prompt("title> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read prompt: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return nil
		}
		line.AppendHistory(input)
		printLookup(w, idx, input)
	}
}

func printLookup(w io.Writer, idx lookupIndexes, title string) {
	key := compare.Normalize(title)
	fmt.Fprintf(w, "key: %q\n", key)
	printRecords(w, "library", idx.library.Records(key))
	printRecords(w, "reference", idx.reference.Records(key))
}

func printRecords(w io.Writer, label string, recs []models.TitleRecord) {
	if len(recs) == 0 {
		fmt.Fprintf(w, "  %s: no entries\n", label)
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, r := range recs {
		fmt.Fprintf(w, "    - %s", r.MainTitle)
		if len(r.Aliases) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(r.Aliases, ", "))
		}
		fmt.Fprintln(w)
	}
}

func lookupHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mangashelf_lookup_history"
	}
	return filepath.Join(home, ".mangashelf", "lookup_history")
}
