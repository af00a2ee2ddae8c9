// Package store persists daily history as one columnar file per symbol.
package store

import (
	"errors"

	"EquityScout/internal/model"
)

// ErrNotFound is returned by Load when no data exists for a symbol.
var ErrNotFound = errors.New("symbol not found")

// Store is the persistence contract for per-symbol daily series.
type Store interface {
	// Load returns the stored series for a symbol, or ErrNotFound.
	Load(symbol string) (model.Series, error)
	// Save overwrites the stored series for the series' symbol. Idempotent.
	Save(series model.Series) error
	// List returns the symbols present in storage, sorted ascending. A
	// storage location that does not exist yet lists as empty.
	List() ([]string, error)
}
