package scan

import (
	"testing"

	"EquityScout/internal/model"
)

func rowWith(indicators map[string]float64) model.ScanRow {
	row := model.ScanRow{
		Symbol:     "TEST",
		Open:       100,
		High:       104,
		Low:        98,
		Close:      102,
		Volume:     500000,
		Indicators: indicators,
	}
	if row.Indicators == nil {
		row.Indicators = map[string]float64{}
	}
	return row
}

func TestMinPrice(t *testing.T) {
	row := rowWith(nil)
	if !(MinPrice{Min: 100}).Match(row) {
		t.Error("close 102 should pass min price 100")
	}
	if (MinPrice{Min: 150}).Match(row) {
		t.Error("close 102 should fail min price 150")
	}
}

func TestMinVolume(t *testing.T) {
	row := rowWith(nil)
	if !(MinVolume{Min: 500000}).Match(row) {
		t.Error("equal volume should pass (>=)")
	}
	if (MinVolume{Min: 500001}).Match(row) {
		t.Error("volume below threshold should fail")
	}
}

func TestMinRVol(t *testing.T) {
	if !(MinRVol{Min: 1.5}).Match(rowWith(map[string]float64{"rvol_20": 2.0})) {
		t.Error("rvol 2.0 should pass threshold 1.5")
	}
	if (MinRVol{Min: 1.5}).Match(rowWith(map[string]float64{"rvol_20": 1.2})) {
		t.Error("rvol 1.2 should fail threshold 1.5")
	}
	if (MinRVol{Min: 1.5}).Match(rowWith(nil)) {
		t.Error("missing rvol must fail, not match")
	}
}

func TestMinRVol_CustomPeriod(t *testing.T) {
	f := MinRVol{Min: 1.0, Period: 50}
	cols := f.Columns()
	if cols[1].Name != "rvol_50" {
		t.Errorf("expected rvol_50 column, got %s", cols[1].Name)
	}
	if !f.Match(rowWith(map[string]float64{"rvol_50": 1.1})) {
		t.Error("rvol_50 1.1 should pass threshold 1.0")
	}
}

func TestMinADR(t *testing.T) {
	if !(MinADR{Min: 3}).Match(rowWith(map[string]float64{"adr_20": 4.5})) {
		t.Error("adr 4.5 should pass threshold 3")
	}
	if (MinADR{Min: 3}).Match(rowWith(nil)) {
		t.Error("missing adr must fail")
	}
}

func TestGapUp(t *testing.T) {
	f := GapUp{ThresholdPct: 5}
	pass := rowWith(map[string]float64{"prev_high": 11.0})
	pass.Open = 11.6
	if !f.Match(pass) {
		t.Error("open 11.6 over prev high 11.0 should pass 5% threshold")
	}
	fail := rowWith(map[string]float64{"prev_high": 11.0})
	fail.Open = 11.2
	if f.Match(fail) {
		t.Error("open 11.2 over prev high 11.0 should fail 5% threshold")
	}
	if f.Match(rowWith(nil)) {
		t.Error("missing prev_high must fail")
	}
}

func TestTrendTemplate(t *testing.T) {
	passing := map[string]float64{
		"sma_50":        95,
		"sma_150":       90,
		"sma_200":       85,
		"sma_200_1m_ago": 80,
		"low_252":       60,
		"high_252":      110,
	}
	row := rowWith(passing)
	if !(TrendTemplate{}).Match(row) {
		t.Error("aligned uptrend row should pass the template")
	}

	cases := []struct {
		name   string
		mutate func(map[string]float64)
	}{
		{"sma order broken", func(m map[string]float64) { m["sma_150"] = 96 }},
		{"sma200 not rising", func(m map[string]float64) { m["sma_200_1m_ago"] = 85 }},
		{"too close to 52w low", func(m map[string]float64) { m["low_252"] = 90 }},
		{"too far from 52w high", func(m map[string]float64) { m["high_252"] = 200 }},
	}
	for _, tc := range cases {
		m := make(map[string]float64, len(passing))
		for k, v := range passing {
			m[k] = v
		}
		tc.mutate(m)
		if (TrendTemplate{}).Match(rowWith(m)) {
			t.Errorf("%s: row should fail the template", tc.name)
		}
	}

	for _, name := range []string{"sma_50", "sma_150", "sma_200", "sma_200_1m_ago", "low_252", "high_252"} {
		m := make(map[string]float64, len(passing))
		for k, v := range passing {
			m[k] = v
		}
		delete(m, name)
		if (TrendTemplate{}).Match(rowWith(m)) {
			t.Errorf("missing %s: row must fail the template", name)
		}
	}
}

func TestUnionColumns_Deduplicates(t *testing.T) {
	// MinRVol and a second MinRVol with the same period must not request the
	// same columns twice; TrendTemplate adds its own.
	filters := []Filter{MinRVol{Min: 1}, MinRVol{Min: 2}, TrendTemplate{}}
	specs := unionColumns(filters)
	seen := make(map[string]int)
	for _, s := range specs {
		seen[s.Name]++
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("column %s requested %d times", name, n)
		}
	}
	if seen["rvol_20"] != 1 || seen["sma_200"] != 1 {
		t.Errorf("expected rvol_20 and sma_200 in the union, got %v", seen)
	}
}
