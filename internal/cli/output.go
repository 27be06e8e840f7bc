package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// emit writes v as indented JSON in --json mode and calls human otherwise.
func (a *app) emit(v any, human func(w io.Writer)) error {
	if a.flags.jsonMode {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(a.stdout)
	return nil
}

// renderTable writes rows under header. numeric lists the 1-based columns
// to right-align.
func renderTable(w io.Writer, header table.Row, rows []table.Row, numeric ...int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	if len(numeric) > 0 {
		configs := make([]table.ColumnConfig, 0, len(numeric))
		for _, n := range numeric {
			configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
		}
		tw.SetColumnConfigs(configs)
	}
	tw.Render()
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
}

// formatMoney renders amount in the settings currency.
func formatMoney(amount float64, currency string) string {
	if sym, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// truncate shortens s to n runes for table cells.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
