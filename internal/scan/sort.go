package scan

import (
	"sort"

	"EquityScout/internal/model"
)

// SortRows orders scan results for presentation. Symbol and date sort
// ascending; close, volume, and indicator columns sort descending (largest
// first). Rows missing the requested indicator sort last. The default and the
// fallback for an unknown key is ascending by symbol.
func SortRows(rows []model.ScanRow, key string) {
	switch key {
	case "", "symbol":
		sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	case "date":
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Date.Equal(rows[j].Date) {
				return rows[i].Symbol < rows[j].Symbol
			}
			return rows[i].Date.Before(rows[j].Date)
		})
	case "close":
		sortDesc(rows, func(r model.ScanRow) (float64, bool) { return r.Close, true })
	case "volume":
		sortDesc(rows, func(r model.ScanRow) (float64, bool) { return r.Volume, true })
	default:
		sortDesc(rows, func(r model.ScanRow) (float64, bool) { return r.Indicator(key) })
	}
}

func sortDesc(rows []model.ScanRow, value func(model.ScanRow) (float64, bool)) {
	sort.Slice(rows, func(i, j int) bool {
		vi, oki := value(rows[i])
		vj, okj := value(rows[j])
		if oki != okj {
			return oki
		}
		if vi != vj {
			return vi > vj
		}
		return rows[i].Symbol < rows[j].Symbol
	})
}
