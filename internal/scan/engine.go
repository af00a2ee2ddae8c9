package scan

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"EquityScout/internal/model"
	"EquityScout/internal/store"
)

// Engine runs a filter set against every symbol in storage. The scan is a
// synchronous computation over an immutable snapshot: all data is loaded up
// front, indicators are computed strictly per symbol, and each series is
// reduced to its most recent row before the predicates run.
type Engine struct {
	store store.Store
	log   zerolog.Logger
}

// NewEngine creates an Engine reading from the given store.
func NewEngine(st store.Store, log zerolog.Logger) *Engine {
	return &Engine{store: st, log: log.With().Str("component", "engine").Logger()}
}

// Scan evaluates the filter set and returns the matching rows, ordered
// ascending by symbol. An empty or unreadable storage location yields an
// empty result, not an error; a symbol that fails to load is skipped and
// logged. A symbol whose history is too short for a requested window gets a
// null for that indicator and is excluded by any filter referencing it.
func (e *Engine) Scan(filters []Filter) ([]model.ScanRow, error) {
	symbols, err := e.store.List()
	if err != nil {
		e.log.Warn().Err(err).Msg("storage unreadable, returning empty result")
		return nil, nil
	}
	sort.Strings(symbols)

	specs := unionColumns(filters)
	e.log.Debug().Int("symbols", len(symbols)).Int("filters", len(filters)).
		Int("columns", len(specs)).Msg("scan started")

	var rows []model.ScanRow
	for _, symbol := range symbols {
		series, err := e.store.Load(symbol)
		if err != nil {
			e.log.Warn().Str("symbol", symbol).Err(err).Msg("skipping symbol")
			continue
		}
		series.Sort()
		row, ok := e.reduce(symbol, series, specs)
		if !ok {
			continue
		}
		if matchAll(filters, row) {
			rows = append(rows, row)
		}
	}

	e.log.Debug().Int("matches", len(rows)).Msg("scan finished")
	return rows, nil
}

// Universe returns the number of symbols currently in storage.
func (e *Engine) Universe() int {
	symbols, err := e.store.List()
	if err != nil {
		return 0
	}
	return len(symbols)
}

// reduce computes the requested columns over one symbol's series and collapses
// it to the latest row. Columns whose last value is null are left absent.
func (e *Engine) reduce(symbol string, series model.Series, specs []ColumnSpec) (model.ScanRow, bool) {
	last, ok := series.Last()
	if !ok {
		return model.ScanRow{}, false
	}
	row := model.NewScanRow(symbol, last)
	for _, spec := range specs {
		col := spec.Build(series)
		if len(col) != series.Len() {
			e.log.Warn().Str("symbol", symbol).Str("column", spec.Name).
				Msg("column misaligned with series, dropping")
			continue
		}
		if v := col[len(col)-1]; !math.IsNaN(v) {
			row.Indicators[spec.Name] = v
		}
	}
	return row, true
}

func matchAll(filters []Filter, row model.ScanRow) bool {
	for _, f := range filters {
		if !f.Match(row) {
			return false
		}
	}
	return true
}
