package report

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mangashelf/pkg/models"
)

// Table renders a compact console summary of the matches.
func Table(views []models.MatchView) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Library", "Reference", "Aliases"})

	for i, v := range views {
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			v.LibraryTitle,
			v.ReferenceTitle,
			strings.Join(v.Aliases, "\n"),
		})
	}
	tw.AppendFooter(table.Row{"", "", "Total", strconv.Itoa(len(views))})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, WidthMax: 40},
		{Number: 3, WidthMax: 40},
		{Number: 4, WidthMax: 50},
	})
	return tw.Render()
}

// RunsTable lists stored comparison runs, newest first.
func RunsTable(runs []models.Run, total int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Started", "Library", "Reference", "Matches"})

	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format(timestampLayout),
			r.LibrarySource,
			r.ReferenceSource,
			strconv.Itoa(r.MatchCount),
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "Total", strconv.Itoa(total)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 30},
		{Number: 4, WidthMax: 30},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}
