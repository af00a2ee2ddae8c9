// Package chart prepares OHLCV series for presentation: interval resampling,
// lookback windowing, and terminal rendering.
package chart

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"EquityScout/internal/model"
)

// Interval is a resampling bucket size.
type Interval int

const (
	Daily Interval = iota
	Weekly
	Monthly
)

// ParseInterval parses "1d", "1w", or "1mo". Empty means Daily.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1d", "d", "daily":
		return Daily, nil
	case "1w", "w", "weekly":
		return Weekly, nil
	case "1mo", "mo", "monthly":
		return Monthly, nil
	}
	return Daily, fmt.Errorf("unknown interval %q (want 1d, 1w, or 1mo)", s)
}

// bucket maps a date to the first day of its interval bucket.
func (iv Interval) bucket(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	switch iv {
	case Weekly:
		// Monday of the ISO week.
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Resample aggregates a daily series into interval buckets: open is the first
// bar's open, high the max, low the min, close the last bar's close, volume
// the sum. The input must be sorted ascending; buckets come out in order.
func Resample(s model.Series, iv Interval) model.Series {
	if iv == Daily || s.Len() == 0 {
		return s
	}
	out := model.Series{Symbol: s.Symbol}
	var cur model.Bar
	var curBucket time.Time
	open := false
	for _, b := range s.Bars {
		bk := iv.bucket(b.Date)
		if !open || !bk.Equal(curBucket) {
			if open {
				out.Bars = append(out.Bars, cur)
			}
			cur = model.Bar{Date: bk, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			curBucket = bk
			open = true
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	if open {
		out.Bars = append(out.Bars, cur)
	}
	return out
}

// Period is an elapsed-time lookback window.
type Period struct {
	Years  int
	Months int
	Days   int
}

// ParsePeriod parses lookback strings such as "1y", "6mo", "90d", "2w".
// Empty means one year.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Period{Years: 1}, nil
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Period{}, fmt.Errorf("bad period %q", s)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return Period{}, fmt.Errorf("bad period %q: %w", s, err)
	}
	switch s[i:] {
	case "y":
		return Period{Years: n}, nil
	case "mo", "m":
		return Period{Months: n}, nil
	case "w":
		return Period{Days: 7 * n}, nil
	case "d":
		return Period{Days: n}, nil
	}
	return Period{}, fmt.Errorf("bad period unit in %q (want y, mo, w, or d)", s)
}

// Lookback keeps the bars within the elapsed-time window ending at the
// series' last bar date. Anchoring on the data rather than wall-clock now
// keeps the cut deterministic.
func Lookback(s model.Series, p Period) model.Series {
	last, ok := s.Last()
	if !ok {
		return s
	}
	cutoff := last.Date.AddDate(-p.Years, -p.Months, -p.Days)
	out := model.Series{Symbol: s.Symbol}
	for _, b := range s.Bars {
		if !b.Date.Before(cutoff) {
			out.Bars = append(out.Bars, b)
		}
	}
	return out
}
