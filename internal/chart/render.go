package chart

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"EquityScout/internal/model"
)

var (
	up     = color.New(color.FgGreen)
	down   = color.New(color.FgRed)
	header = color.New(color.Bold)
)

// RenderCandles writes a colored OHLCV table for a series: up-bars green,
// down-bars red.
func RenderCandles(w io.Writer, s model.Series) {
	header.Fprintf(w, "%s  (%d bars)\n", s.Symbol, s.Len())
	header.Fprintf(w, "%-12s %10s %10s %10s %10s %14s\n", "date", "open", "high", "low", "close", "volume")
	for _, b := range s.Bars {
		c := up
		if b.Close < b.Open {
			c = down
		}
		c.Fprintf(w, "%-12s %10.2f %10.2f %10.2f %10.2f %14.0f\n",
			b.Date.Format("2006-01-02"), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
}

// RenderScanRows writes scan results as a table: the fixed bar columns plus
// the requested indicator columns, in the given order. Absent indicator
// values render as "-".
func RenderScanRows(w io.Writer, rows []model.ScanRow, indicators []string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	header.Fprintf(w, "%-8s %-12s %10s %14s", "symbol", "date", "close", "volume")
	for _, name := range indicators {
		header.Fprintf(w, " %12s", name)
	}
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintf(w, "%-8s %-12s %10.2f %14.0f", r.Symbol, r.Date.Format("2006-01-02"), r.Close, r.Volume)
		for _, name := range indicators {
			if v, ok := r.Indicator(name); ok {
				fmt.Fprintf(w, " %12.2f", v)
			} else {
				fmt.Fprintf(w, " %12s", "-")
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d matches\n", len(rows))
}

// IndicatorColumns returns the union of indicator names present across rows,
// sorted for stable output.
func IndicatorColumns(rows []model.ScanRow) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range rows {
		for name := range r.Indicators {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
