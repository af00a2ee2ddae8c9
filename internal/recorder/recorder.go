package recorder

import (
	"time"

	"EquityScout/internal/model"
)

// ScanRecord holds everything worth keeping about one scan run.
type ScanRecord struct {
	RunID     string
	Timestamp time.Time
	Filters   string // human-readable filter summary
	Universe  int    // symbols considered
	Matches   []model.ScanRow
}

// Recorder persists scan-run history for later analysis.
type Recorder interface {
	RecordScan(rec *ScanRecord) error
	Close() error
}
