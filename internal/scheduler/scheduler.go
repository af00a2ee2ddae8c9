// Package scheduler runs the daemon mode: cron-driven watchlist syncs and
// recipe scans.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"EquityScout/internal/fetch"
	"EquityScout/internal/recorder"
	"EquityScout/internal/scan"
)

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Syncer   *fetch.Syncer
	Engine   *scan.Engine
	Recorder recorder.Recorder
	Recipe   scan.Recipe

	watchlist []string
	startDate time.Time
	ctx       context.Context
	log       zerolog.Logger
}

// NewScheduler creates a Scheduler. The watchlist is synced on the sync cron;
// the recipe is scanned on the scan cron.
func NewScheduler(ctx context.Context, syncer *fetch.Syncer, engine *scan.Engine, rec recorder.Recorder,
	recipe scan.Recipe, watchlist []string, startDate time.Time, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Syncer:    syncer,
		Engine:    engine,
		Recorder:  rec,
		Recipe:    recipe,
		watchlist: watchlist,
		startDate: startDate,
		ctx:       ctx,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the sync and scan tasks.
func (s *Scheduler) RegisterAll(syncCron, scanCron string) error {
	if _, err := s.Cron.AddFunc(syncCron, s.syncTask); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) syncTask() {
	if len(s.watchlist) == 0 {
		s.log.Warn().Msg("watchlist empty, nothing to sync")
		return
	}
	results := s.Syncer.Sync(s.ctx, s.watchlist, s.startDate)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.log.Info().Int("symbols", len(results)).Int("failed", failed).Msg("scheduled sync done")
}

func (s *Scheduler) scanTask() {
	filters := s.Recipe.Filters()
	rows, err := s.Engine.Scan(filters)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled scan failed")
		return
	}
	scan.SortRows(rows, s.Recipe.Sort)

	rec := &recorder.ScanRecord{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Filters:   s.Recipe.Summary(),
		Universe:  s.Engine.Universe(),
		Matches:   rows,
	}
	if err := s.Recorder.RecordScan(rec); err != nil {
		s.log.Error().Err(err).Msg("record scan failed")
	}

	for _, r := range rows {
		s.log.Info().Str("symbol", r.Symbol).Float64("close", r.Close).Msg("match")
	}
	s.log.Info().Str("run_id", rec.RunID).Int("matches", len(rows)).Msg("scheduled scan done")
}
