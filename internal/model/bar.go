package model

import (
	"fmt"
	"sort"
	"time"
)

// Bar represents a single daily OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the basic OHLCV invariants for a single bar.
func (b Bar) Validate() error {
	if b.High < b.Open || b.High < b.Close || b.High < b.Low {
		return fmt.Errorf("high %.4f below open/close/low", b.High)
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("low %.4f above open/close", b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("negative volume %.0f", b.Volume)
	}
	return nil
}

// Series holds the ordered daily history for one symbol.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of bars in the series.
func (s Series) Len() int { return len(s.Bars) }

// Sort orders the bars ascending by date.
func (s *Series) Sort() {
	sort.Slice(s.Bars, func(i, j int) bool { return s.Bars[i].Date.Before(s.Bars[j].Date) })
}

// Last returns the most recent bar, or false when the series is empty.
func (s Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Validate checks per-bar invariants and that dates strictly increase.
func (s Series) Validate() error {
	for i, b := range s.Bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s bar %d (%s): %w", s.Symbol, i, b.Date.Format("2006-01-02"), err)
		}
		if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%s bar %d: date %s not after %s",
				s.Symbol, i, b.Date.Format("2006-01-02"), s.Bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Opens extracts the open column.
func (s Series) Opens() []float64 { return extract(s.Bars, func(b Bar) float64 { return b.Open }) }

// Highs extracts the high column.
func (s Series) Highs() []float64 { return extract(s.Bars, func(b Bar) float64 { return b.High }) }

// Lows extracts the low column.
func (s Series) Lows() []float64 { return extract(s.Bars, func(b Bar) float64 { return b.Low }) }

// Closes extracts the close column.
func (s Series) Closes() []float64 { return extract(s.Bars, func(b Bar) float64 { return b.Close }) }

// Volumes extracts the volume column.
func (s Series) Volumes() []float64 { return extract(s.Bars, func(b Bar) float64 { return b.Volume }) }

func extract(bars []Bar, f func(Bar) float64) []float64 {
	vals := make([]float64, len(bars))
	for i, b := range bars {
		vals[i] = f(b)
	}
	return vals
}
