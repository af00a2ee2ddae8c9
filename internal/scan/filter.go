// Package scan implements the screening engine: a composable set of boolean
// filters evaluated against the latest row of every locally stored symbol,
// with the indicator columns each filter needs computed per symbol.
package scan

import (
	"fmt"

	"EquityScout/internal/indicator"
	"EquityScout/internal/model"
)

// ColumnSpec names one derived indicator column and how to compute it from a
// single symbol's series. Build returns a column aligned to the series index;
// the engine keeps only the last value. Build must be a pure function of the
// series it is given, so window computations can never cross symbols.
type ColumnSpec struct {
	Name  string
	Build func(s model.Series) []float64
}

// Filter is one screening criterion. Columns declares the indicator columns
// the predicate reads; the engine unions declarations across the active
// filter set and computes each column exactly once. Match reports whether the
// reduced row passes. Filters are immutable once constructed and must be
// stateless across scans.
type Filter interface {
	Name() string
	Columns() []ColumnSpec
	Match(row model.ScanRow) bool
}

// unionColumns merges the column requests of a filter set, deduplicated by
// column name, preserving first-appearance order.
func unionColumns(filters []Filter) []ColumnSpec {
	seen := make(map[string]bool)
	var specs []ColumnSpec
	for _, f := range filters {
		for _, spec := range f.Columns() {
			if seen[spec.Name] {
				continue
			}
			seen[spec.Name] = true
			specs = append(specs, spec)
		}
	}
	return specs
}

func smaColumn(period int) ColumnSpec {
	return ColumnSpec{
		Name: fmt.Sprintf("sma_%d", period),
		Build: func(s model.Series) []float64 {
			return indicator.RollingMean(s.Closes(), period)
		},
	}
}

func smaShiftedColumn(period, shift int, name string) ColumnSpec {
	return ColumnSpec{
		Name: name,
		Build: func(s model.Series) []float64 {
			return indicator.Shift(indicator.RollingMean(s.Closes(), period), shift)
		},
	}
}

func avgVolumeColumn(period int) ColumnSpec {
	return ColumnSpec{
		Name: fmt.Sprintf("avg_volume_%d", period),
		Build: func(s model.Series) []float64 {
			return indicator.RollingMean(s.Volumes(), period)
		},
	}
}

func rvolColumn(period int) ColumnSpec {
	return ColumnSpec{
		Name: fmt.Sprintf("rvol_%d", period),
		Build: func(s model.Series) []float64 {
			return indicator.RVOL(s.Volumes(), period)
		},
	}
}

func adrColumn(period int) ColumnSpec {
	return ColumnSpec{
		Name: fmt.Sprintf("adr_%d", period),
		Build: func(s model.Series) []float64 {
			return indicator.ADR(s.Highs(), s.Lows(), period)
		},
	}
}

func prevHighColumn() ColumnSpec {
	return ColumnSpec{
		Name: "prev_high",
		Build: func(s model.Series) []float64 {
			return indicator.Shift(s.Highs(), 1)
		},
	}
}

func rollingHighColumn(period int) ColumnSpec {
	return ColumnSpec{
		Name: fmt.Sprintf("high_%d", period),
		Build: func(s model.Series) []float64 {
			return indicator.RollingMax(s.Highs(), period)
		},
	}
}

func rollingLowColumn(period int) ColumnSpec {
	return ColumnSpec{
		Name: fmt.Sprintf("low_%d", period),
		Build: func(s model.Series) []float64 {
			return indicator.RollingMin(s.Lows(), period)
		},
	}
}
