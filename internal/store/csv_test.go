package store

import (
	"errors"
	"testing"
	"time"

	"EquityScout/internal/model"
)

func sampleSeries(symbol string) model.Series {
	day0 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return model.Series{Symbol: symbol, Bars: []model.Bar{
		{Date: day0, Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 120000},
		{Date: day0.AddDate(0, 0, 1), Open: 10.5, High: 12, Low: 10.25, Close: 11.75, Volume: 340000},
	}}
}

func TestCSVStore_Roundtrip(t *testing.T) {
	st, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	want := sampleSeries("AAPL")
	if err := st.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.Load("aapl") // case-insensitive lookup
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("symbol: got %q, want AAPL", got.Symbol)
	}
	if got.Len() != want.Len() {
		t.Fatalf("bars: got %d, want %d", got.Len(), want.Len())
	}
	for i := range want.Bars {
		if got.Bars[i] != want.Bars[i] {
			t.Errorf("bar %d: got %+v, want %+v", i, got.Bars[i], want.Bars[i])
		}
	}
}

func TestCSVStore_SaveIsIdempotentOverwrite(t *testing.T) {
	st, _ := NewCSVStore(t.TempDir())
	s := sampleSeries("MSFT")
	if err := st.Save(s); err != nil {
		t.Fatalf("first save: %v", err)
	}
	s.Bars = s.Bars[:1]
	if err := st.Save(s); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := st.Load("MSFT")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("expected overwrite to win: got %d bars, want 1", got.Len())
	}
}

func TestCSVStore_LoadMissing(t *testing.T) {
	st, _ := NewCSVStore(t.TempDir())
	_, err := st.Load("NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCSVStore_List(t *testing.T) {
	st, _ := NewCSVStore(t.TempDir())
	for _, sym := range []string{"msft", "AAPL", "tsla"} {
		if err := st.Save(sampleSeries(sym)); err != nil {
			t.Fatalf("save %s: %v", sym, err)
		}
	}
	symbols, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"AAPL", "MSFT", "TSLA"}
	if len(symbols) != len(want) {
		t.Fatalf("got %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbol %d: got %q, want %q", i, symbols[i], want[i])
		}
	}
}

func TestCSVStore_ListMissingDirIsEmpty(t *testing.T) {
	st := &CSVStore{dir: t.TempDir() + "/does-not-exist"}
	symbols, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(symbols) != 0 {
		t.Errorf("expected empty list, got %v", symbols)
	}
}
