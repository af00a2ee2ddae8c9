// Package fetch retrieves daily history from the remote price provider and
// syncs it into local storage.
package fetch

import (
	"context"
	"time"

	"EquityScout/internal/model"
)

// Fetcher defines the interface for fetching daily history.
type Fetcher interface {
	// FetchDailyHistory returns the daily series for a symbol from start
	// onward, sorted ascending by date. An empty series with a nil error
	// means the provider has no data for the symbol.
	FetchDailyHistory(ctx context.Context, symbol string, start time.Time) (model.Series, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Data map[string]model.Series
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyHistory(_ context.Context, symbol string, _ time.Time) (model.Series, error) {
	if m.Err != nil {
		return model.Series{}, m.Err
	}
	if s, ok := m.Data[symbol]; ok {
		return s, nil
	}
	return model.Series{Symbol: symbol}, nil
}

// GenerateBars produces a synthetic daily series around a base price, useful
// for mocks and fixtures.
func GenerateBars(symbol string, basePrice float64, count int) model.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return model.Series{Symbol: symbol, Bars: bars}
}
