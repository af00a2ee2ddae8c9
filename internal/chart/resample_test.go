package chart

import (
	"testing"
	"time"

	"EquityScout/internal/model"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// A Thursday-to-Tuesday run crossing a weekend, so weekly resampling has to
// split it into two buckets.
func weekSpanSeries() model.Series {
	return model.Series{Symbol: "WK", Bars: []model.Bar{
		{Date: d(2024, 1, 4), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100}, // Thu
		{Date: d(2024, 1, 5), Open: 11, High: 14, Low: 10, Close: 13, Volume: 200}, // Fri
		{Date: d(2024, 1, 8), Open: 13, High: 15, Low: 12, Close: 14, Volume: 300}, // Mon
		{Date: d(2024, 1, 9), Open: 14, High: 16, Low: 13, Close: 15, Volume: 400}, // Tue
	}}
}

func TestResample_Weekly(t *testing.T) {
	got := Resample(weekSpanSeries(), Weekly)
	if len(got.Bars) != 2 {
		t.Fatalf("expected 2 weekly bars, got %d", len(got.Bars))
	}

	w1 := got.Bars[0]
	if !w1.Date.Equal(d(2024, 1, 1)) {
		t.Errorf("week 1 date: got %v, want Monday 2024-01-01", w1.Date)
	}
	if w1.Open != 10 || w1.High != 14 || w1.Low != 9 || w1.Close != 13 || w1.Volume != 300 {
		t.Errorf("week 1 aggregate wrong: %+v", w1)
	}

	w2 := got.Bars[1]
	if !w2.Date.Equal(d(2024, 1, 8)) {
		t.Errorf("week 2 date: got %v, want Monday 2024-01-08", w2.Date)
	}
	if w2.Open != 13 || w2.High != 16 || w2.Low != 12 || w2.Close != 15 || w2.Volume != 700 {
		t.Errorf("week 2 aggregate wrong: %+v", w2)
	}
}

func TestResample_Monthly(t *testing.T) {
	s := model.Series{Symbol: "MO", Bars: []model.Bar{
		{Date: d(2024, 1, 15), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Date: d(2024, 1, 31), Open: 11, High: 13, Low: 10, Close: 12, Volume: 100},
		{Date: d(2024, 2, 1), Open: 12, High: 14, Low: 11, Close: 13, Volume: 100},
	}}
	got := Resample(s, Monthly)
	if len(got.Bars) != 2 {
		t.Fatalf("expected 2 monthly bars, got %d", len(got.Bars))
	}
	if !got.Bars[0].Date.Equal(d(2024, 1, 1)) || !got.Bars[1].Date.Equal(d(2024, 2, 1)) {
		t.Errorf("bucket dates: got %v, %v", got.Bars[0].Date, got.Bars[1].Date)
	}
	jan := got.Bars[0]
	if jan.Open != 10 || jan.Close != 12 || jan.High != 13 || jan.Low != 9 || jan.Volume != 200 {
		t.Errorf("january aggregate wrong: %+v", jan)
	}
}

func TestResample_DailyIsIdentity(t *testing.T) {
	s := weekSpanSeries()
	got := Resample(s, Daily)
	if len(got.Bars) != len(s.Bars) {
		t.Fatalf("daily resample must not change bar count: got %d", len(got.Bars))
	}
}

func TestLookback_AnchoredAtLastBar(t *testing.T) {
	s := model.Series{Symbol: "LB", Bars: []model.Bar{
		{Date: d(2023, 6, 1), Close: 1},
		{Date: d(2023, 12, 14), Close: 2},
		{Date: d(2023, 12, 16), Close: 3},
		{Date: d(2024, 1, 15), Close: 4},
	}}
	got := Lookback(s, Period{Days: 30})
	// Cutoff is 2023-12-16 (30 days before the last bar), inclusive.
	if len(got.Bars) != 2 {
		t.Fatalf("expected 2 bars in the window, got %d", len(got.Bars))
	}
	if got.Bars[0].Close != 3 || got.Bars[1].Close != 4 {
		t.Errorf("wrong bars kept: %+v", got.Bars)
	}
}

func TestLookback_EmptySeries(t *testing.T) {
	got := Lookback(model.Series{Symbol: "E"}, Period{Years: 1})
	if got.Len() != 0 {
		t.Errorf("expected empty series, got %d bars", got.Len())
	}
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in   string
		want Interval
		ok   bool
	}{
		{"", Daily, true},
		{"1d", Daily, true},
		{"1w", Weekly, true},
		{"1mo", Monthly, true},
		{"Weekly", Weekly, true},
		{"1h", Daily, false},
	}
	for _, tc := range cases {
		got, err := ParseInterval(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("%q: error = %v, wanted ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"", Period{Years: 1}, true},
		{"1y", Period{Years: 1}, true},
		{"6mo", Period{Months: 6}, true},
		{"90d", Period{Days: 90}, true},
		{"2w", Period{Days: 14}, true},
		{"y", Period{}, false},
		{"10x", Period{}, false},
	}
	for _, tc := range cases {
		got, err := ParsePeriod(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("%q: error = %v, wanted ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.in, got, tc.want)
		}
	}
}
