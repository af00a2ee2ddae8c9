package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"EquityScout/internal/model"
)

const dateLayout = "2006-01-02"

var header = []string{"date", "open", "high", "low", "close", "volume"}

// CSVStore keeps one CSV file per symbol under a data directory. The symbol
// identifier is the upper-cased file stem.
type CSVStore struct {
	dir string
}

// NewCSVStore creates the data directory if needed and returns the store.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

func (s *CSVStore) path(symbol string) string {
	return filepath.Join(s.dir, strings.ToUpper(symbol)+".csv")
}

// Save writes the series to its symbol's file, replacing any previous data.
func (s *CSVStore) Save(series model.Series) error {
	if series.Symbol == "" {
		return fmt.Errorf("save: empty symbol")
	}
	f, err := os.Create(s.path(series.Symbol))
	if err != nil {
		return fmt.Errorf("save %s: %w", series.Symbol, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("save %s: write header: %w", series.Symbol, err)
	}
	for _, b := range series.Bars {
		rec := []string{
			b.Date.Format(dateLayout),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("save %s: write row: %w", series.Symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("save %s: flush: %w", series.Symbol, err)
	}
	return nil
}

// Load reads a symbol's file back into a series, sorted ascending by date.
func (s *CSVStore) Load(symbol string) (model.Series, error) {
	symbol = strings.ToUpper(symbol)
	f, err := os.Open(s.path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return model.Series{}, fmt.Errorf("load %s: %w", symbol, ErrNotFound)
		}
		return model.Series{}, fmt.Errorf("load %s: %w", symbol, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return model.Series{}, fmt.Errorf("load %s: parse csv: %w", symbol, err)
	}

	series := model.Series{Symbol: symbol}
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "date" {
			continue
		}
		if len(rec) < 6 {
			return model.Series{}, fmt.Errorf("load %s: row %d has %d columns", symbol, i, len(rec))
		}
		bar, err := parseBar(rec)
		if err != nil {
			return model.Series{}, fmt.Errorf("load %s: row %d: %w", symbol, i, err)
		}
		series.Bars = append(series.Bars, bar)
	}
	series.Sort()
	return series, nil
}

func parseBar(rec []string) (model.Bar, error) {
	date, err := time.Parse(dateLayout, rec[0])
	if err != nil {
		return model.Bar{}, fmt.Errorf("bad date %q: %w", rec[0], err)
	}
	vals := make([]float64, 5)
	for i, field := range rec[1:6] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("bad %s %q: %w", header[i+1], field, err)
		}
		vals[i] = v
	}
	return model.Bar{
		Date:   date,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// List returns the symbols present in the data directory, sorted ascending.
func (s *CSVStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list data dir: %w", err)
	}
	var symbols []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		symbols = append(symbols, strings.ToUpper(strings.TrimSuffix(e.Name(), ".csv")))
	}
	sort.Strings(symbols)
	return symbols, nil
}
