package model

import "time"

// ScanRow is the latest bar of one symbol augmented with whichever indicator
// columns the active filter set requested. The indicator schema is not fixed:
// a column that was not requested, or whose window could not be filled, is
// simply absent from the map.
type ScanRow struct {
	Symbol     string
	Date       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	Indicators map[string]float64
}

// NewScanRow builds a ScanRow from a symbol's last bar.
func NewScanRow(symbol string, bar Bar) ScanRow {
	return ScanRow{
		Symbol:     symbol,
		Date:       bar.Date,
		Open:       bar.Open,
		High:       bar.High,
		Low:        bar.Low,
		Close:      bar.Close,
		Volume:     bar.Volume,
		Indicators: make(map[string]float64),
	}
}

// Indicator returns the named indicator value and whether it is present.
func (r ScanRow) Indicator(name string) (float64, bool) {
	v, ok := r.Indicators[name]
	return v, ok
}
