package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"EquityScout/internal/model"
	"EquityScout/internal/store"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]model.Series
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]model.Series)}
}

func (m *memStore) Load(symbol string) (model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[strings.ToUpper(symbol)]
	if !ok {
		return model.Series{}, store.ErrNotFound
	}
	return s, nil
}

func (m *memStore) Save(s model.Series) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[strings.ToUpper(s.Symbol)] = s
	return nil
}

func (m *memStore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var symbols []string
	for s := range m.data {
		symbols = append(symbols, s)
	}
	return symbols, nil
}

// flakyFetcher fails for the symbols in bad and serves synthetic data for the
// rest.
type flakyFetcher struct {
	bad map[string]error
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchDailyHistory(_ context.Context, symbol string, _ time.Time) (model.Series, error) {
	if err, ok := f.bad[symbol]; ok {
		return model.Series{}, err
	}
	return GenerateBars(symbol, 100, 10), nil
}

func TestSync_ResultsInInputOrder(t *testing.T) {
	st := newMemStore()
	s := NewSyncer(&MockFetcher{Data: map[string]model.Series{
		"AAPL": GenerateBars("AAPL", 180, 5),
		"MSFT": GenerateBars("MSFT", 400, 7),
	}}, st, 3, zerolog.Nop())

	results := s.Sync(context.Background(), []string{"aapl", "msft"}, time.Time{})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Symbol != "AAPL" || results[1].Symbol != "MSFT" {
		t.Errorf("results out of order: %v, %v", results[0].Symbol, results[1].Symbol)
	}
	if results[0].Bars != 5 || results[1].Bars != 7 {
		t.Errorf("bar counts: got %d, %d", results[0].Bars, results[1].Bars)
	}
	if _, err := st.Load("AAPL"); err != nil {
		t.Errorf("AAPL not saved: %v", err)
	}
}

func TestSync_FailureIsolation(t *testing.T) {
	boom := errors.New("rate limited")
	st := newMemStore()
	s := NewSyncer(&flakyFetcher{bad: map[string]error{"BAD": boom}}, st, 2, zerolog.Nop())

	results := s.Sync(context.Background(), []string{"GOOD", "BAD", "ALSO"}, time.Time{})

	var failed, succeeded int
	for _, r := range results {
		if r.Err != nil {
			failed++
			if !errors.Is(r.Err, boom) {
				t.Errorf("%s: unexpected error %v", r.Symbol, r.Err)
			}
		} else {
			succeeded++
		}
	}
	if failed != 1 || succeeded != 2 {
		t.Errorf("expected 1 failure and 2 successes, got %d/%d", failed, succeeded)
	}
	if _, err := st.Load("BAD"); !errors.Is(err, store.ErrNotFound) {
		t.Error("failed symbol must not be saved")
	}
	if _, err := st.Load("GOOD"); err != nil {
		t.Errorf("GOOD not saved: %v", err)
	}
}

func TestSync_EmptySeriesNotSaved(t *testing.T) {
	st := newMemStore()
	s := NewSyncer(&MockFetcher{}, st, 1, zerolog.Nop())

	results := s.Sync(context.Background(), []string{"NODATA"}, time.Time{})
	if results[0].Err != nil {
		t.Fatalf("empty data is not an error: %v", results[0].Err)
	}
	if results[0].Bars != 0 {
		t.Errorf("expected 0 bars, got %d", results[0].Bars)
	}
	if _, err := st.Load("NODATA"); !errors.Is(err, store.ErrNotFound) {
		t.Error("empty series must not create a file")
	}
}

func TestSync_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := newMemStore()
	s := NewSyncer(&MockFetcher{Data: map[string]model.Series{}}, st, 2, zerolog.Nop())

	results := s.Sync(ctx, []string{"AAA", "BBB", "CCC"}, time.Time{})
	if len(results) != 3 {
		t.Fatalf("expected a result per symbol, got %d", len(results))
	}
	for _, r := range results {
		if r.Err == nil {
			continue // a worker may have grabbed a job before the cancel won the race
		}
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: got %v, want context.Canceled", r.Symbol, r.Err)
		}
	}
}

func TestSync_MoreWorkersThanSymbols(t *testing.T) {
	st := newMemStore()
	s := NewSyncer(&flakyFetcher{}, st, 16, zerolog.Nop())

	results := s.Sync(context.Background(), []string{"ONE"}, time.Time{})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %v", results)
	}
}
