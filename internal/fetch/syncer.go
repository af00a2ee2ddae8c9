package fetch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"EquityScout/internal/store"
)

// SyncResult reports the outcome of one symbol's sync.
type SyncResult struct {
	Symbol string
	Bars   int
	Err    error
}

// Syncer fetches daily history for many symbols with a bounded worker pool
// and saves each series into the store. Failures are collected per symbol;
// one symbol failing never aborts its siblings.
type Syncer struct {
	fetcher Fetcher
	store   store.Store
	workers int
	log     zerolog.Logger
}

// NewSyncer creates a Syncer. workers <= 0 falls back to 4.
func NewSyncer(f Fetcher, st store.Store, workers int, log zerolog.Logger) *Syncer {
	if workers <= 0 {
		workers = 4
	}
	return &Syncer{
		fetcher: f,
		store:   st,
		workers: workers,
		log:     log.With().Str("component", "syncer").Logger(),
	}
}

// Sync fetches and saves every symbol, returning one result per symbol in
// input order. Symbols are upper-cased before fetching.
func (s *Syncer) Sync(ctx context.Context, symbols []string, start time.Time) []SyncResult {
	results := make([]SyncResult, len(symbols))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.syncOne(ctx, strings.ToUpper(symbols[i]), start)
			}
		}()
	}

	for i := range symbols {
		select {
		case <-ctx.Done():
			for j := i; j < len(symbols); j++ {
				results[j] = SyncResult{Symbol: strings.ToUpper(symbols[j]), Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (s *Syncer) syncOne(ctx context.Context, symbol string, start time.Time) SyncResult {
	series, err := s.fetcher.FetchDailyHistory(ctx, symbol, start)
	if err != nil {
		s.log.Warn().Str("symbol", symbol).Err(err).Msg("fetch failed")
		return SyncResult{Symbol: symbol, Err: err}
	}
	if series.Len() == 0 {
		s.log.Warn().Str("symbol", symbol).Msg("no data returned")
		return SyncResult{Symbol: symbol, Bars: 0}
	}
	if err := s.store.Save(series); err != nil {
		s.log.Warn().Str("symbol", symbol).Err(err).Msg("save failed")
		return SyncResult{Symbol: symbol, Err: err}
	}
	s.log.Info().Str("symbol", symbol).Int("bars", series.Len()).Msg("synced")
	return SyncResult{Symbol: symbol, Bars: series.Len()}
}
