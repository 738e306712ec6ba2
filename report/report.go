package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"shakeup-scraper/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats
const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

var header = table.Row{"Competition", "Shakeup (all)", "Shakeup (top 10%)", "Spearman", "Entries"}

// Render writes results in the given format
func Render(w io.Writer, results []models.ShakeupResult, format string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	for _, r := range results {
		t.AppendRow(table.Row{
			r.CompetitionName,
			FormatFloat(r.ShakeupAll),
			FormatFloat(r.ShakeupTop10Pct),
			FormatFloat(r.RankCorrelation),
			r.Entries,
		})
	}

	switch format {
	case FormatTable, "":
		t.SetStyle(table.StyleLight)
		t.Render()
	case FormatCSV:
		t.RenderCSV()
	case FormatMarkdown:
		t.RenderMarkdown()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// RenderRecord writes a single result as a key/value record
func RenderRecord(w io.Writer, r models.ShakeupResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	for i, value := range []any{
		r.CompetitionName,
		FormatFloat(r.ShakeupAll),
		FormatFloat(r.ShakeupTop10Pct),
		FormatFloat(r.RankCorrelation),
		r.Entries,
	} {
		t.AppendRow(table.Row{header[i], value})
	}
	t.Render()
}

// FormatFloat prints statistics with 6 significant digits and NaN as "NaN"
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
