package scan

import (
	"fmt"

	"EquityScout/internal/model"
)

// DefaultPeriod is the window used by the volume and range filters unless a
// period is set explicitly.
const DefaultPeriod = 20

// MinPrice keeps rows whose latest close is at or above Min.
type MinPrice struct {
	Min float64
}

func (f MinPrice) Name() string          { return "min_price" }
func (f MinPrice) Columns() []ColumnSpec { return nil }
func (f MinPrice) Match(row model.ScanRow) bool {
	return row.Close >= f.Min
}

// MinVolume keeps rows whose latest volume is at or above Min.
type MinVolume struct {
	Min float64
}

func (f MinVolume) Name() string          { return "min_volume" }
func (f MinVolume) Columns() []ColumnSpec { return nil }
func (f MinVolume) Match(row model.ScanRow) bool {
	return row.Volume >= f.Min
}

// MinRVol keeps rows whose relative volume (volume over its trailing mean)
// is at or above Min. Period defaults to DefaultPeriod.
type MinRVol struct {
	Min    float64
	Period int
}

func (f MinRVol) Name() string { return "min_relative_volume" }

func (f MinRVol) period() int {
	if f.Period > 0 {
		return f.Period
	}
	return DefaultPeriod
}

func (f MinRVol) Columns() []ColumnSpec {
	return []ColumnSpec{avgVolumeColumn(f.period()), rvolColumn(f.period())}
}

func (f MinRVol) Match(row model.ScanRow) bool {
	rvol, ok := row.Indicator(fmt.Sprintf("rvol_%d", f.period()))
	return ok && rvol >= f.Min
}

// MinADR keeps rows whose average daily range percentage is at or above Min.
// Period defaults to DefaultPeriod.
type MinADR struct {
	Min    float64
	Period int
}

func (f MinADR) Name() string { return "min_adr" }

func (f MinADR) period() int {
	if f.Period > 0 {
		return f.Period
	}
	return DefaultPeriod
}

func (f MinADR) Columns() []ColumnSpec {
	return []ColumnSpec{adrColumn(f.period())}
}

func (f MinADR) Match(row model.ScanRow) bool {
	adr, ok := row.Indicator(fmt.Sprintf("adr_%d", f.period()))
	return ok && adr >= f.Min
}

// GapUp keeps rows that opened above the previous day's high by at least
// ThresholdPct percent.
type GapUp struct {
	ThresholdPct float64
}

func (f GapUp) Name() string { return "gap_up" }

func (f GapUp) Columns() []ColumnSpec {
	return []ColumnSpec{prevHighColumn()}
}

func (f GapUp) Match(row model.ScanRow) bool {
	prevHigh, ok := row.Indicator("prev_high")
	return ok && row.Open > prevHigh*(1+f.ThresholdPct/100)
}

// TrendTemplate applies the Minervini-style long-term uptrend template:
//
//	close > sma_50 > sma_150 > sma_200
//	sma_200 above its value 20 sessions ago (trending up over ~1 month)
//	close at least 25% above the 52-week low
//	close within 25% of the 52-week high
//
// A symbol with fewer than 252 sessions of history (or fewer than 220 for the
// shifted average) has null template columns and therefore never matches.
type TrendTemplate struct{}

func (f TrendTemplate) Name() string { return "trend_template" }

func (f TrendTemplate) Columns() []ColumnSpec {
	return []ColumnSpec{
		smaColumn(50),
		smaColumn(150),
		smaColumn(200),
		smaShiftedColumn(200, 20, "sma_200_1m_ago"),
		rollingLowColumn(252),
		rollingHighColumn(252),
	}
}

func (f TrendTemplate) Match(row model.ScanRow) bool {
	sma50, ok := row.Indicator("sma_50")
	if !ok {
		return false
	}
	sma150, ok := row.Indicator("sma_150")
	if !ok {
		return false
	}
	sma200, ok := row.Indicator("sma_200")
	if !ok {
		return false
	}
	sma200Prev, ok := row.Indicator("sma_200_1m_ago")
	if !ok {
		return false
	}
	low252, ok := row.Indicator("low_252")
	if !ok {
		return false
	}
	high252, ok := row.Indicator("high_252")
	if !ok {
		return false
	}
	return row.Close > sma50 &&
		sma50 > sma150 &&
		sma150 > sma200 &&
		sma200 > sma200Prev &&
		row.Close > low252*1.25 &&
		row.Close > high252*0.75
}
