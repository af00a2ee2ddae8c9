package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"EquityScout/internal/model"
)

const defaultTiingoBaseURL = "https://api.tiingo.com/tiingo/daily"

// TiingoFetcher implements Fetcher against the Tiingo daily-prices CSV
// endpoint.
type TiingoFetcher struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewTiingoFetcher creates a Tiingo fetcher. A missing API key is a
// configuration error. baseURL is overridable for tests; empty means the
// public endpoint.
func NewTiingoFetcher(apiKey, baseURL, proxyURL string) (*TiingoFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tiingo api key is required (set TIINGO_API_KEY)")
	}
	if baseURL == "" {
		baseURL = defaultTiingoBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TiingoFetcher{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (f *TiingoFetcher) Name() string { return "tiingo" }

// FetchDailyHistory fetches daily bars in CSV format from start onward. An
// empty response body means the provider has no data; that is returned as an
// empty series, not an error.
func (f *TiingoFetcher) FetchDailyHistory(ctx context.Context, symbol string, start time.Time) (model.Series, error) {
	u := fmt.Sprintf("%s/%s/prices?startDate=%s&resampleFreq=daily&format=csv",
		f.baseURL, url.PathEscape(strings.ToLower(symbol)), start.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Series{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Series{}, fmt.Errorf("tiingo fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Series{}, fmt.Errorf("tiingo read body %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Series{}, fmt.Errorf("tiingo %s: status %d: %s", symbol, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return model.Series{Symbol: strings.ToUpper(symbol)}, nil
	}

	series, err := parseTiingoCSV(strings.ToUpper(symbol), body)
	if err != nil {
		return model.Series{}, fmt.Errorf("tiingo decode %s: %w", symbol, err)
	}
	series.Sort()
	return series, nil
}

// parseTiingoCSV decodes Tiingo's daily CSV, locating the OHLCV columns by
// header name so extra columns (adjusted prices, dividends, splits) are
// ignored.
func parseTiingoCSV(symbol string, body []byte) (model.Series, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	records, err := r.ReadAll()
	if err != nil {
		return model.Series{}, err
	}
	if len(records) < 2 {
		return model.Series{Symbol: symbol}, nil
	}

	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := idx[col]; !ok {
			return model.Series{}, fmt.Errorf("missing column %q", col)
		}
	}

	series := model.Series{Symbol: symbol}
	for n, rec := range records[1:] {
		date, err := time.Parse("2006-01-02", rec[idx["date"]])
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: bad date %q: %w", n+1, rec[idx["date"]], err)
		}
		get := func(col string) (float64, error) {
			return strconv.ParseFloat(rec[idx[col]], 64)
		}
		open, err := get("open")
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: %w", n+1, err)
		}
		high, err := get("high")
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: %w", n+1, err)
		}
		low, err := get("low")
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: %w", n+1, err)
		}
		cls, err := get("close")
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: %w", n+1, err)
		}
		vol, err := get("volume")
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: %w", n+1, err)
		}
		series.Bars = append(series.Bars, model.Bar{
			Date: date, Open: open, High: high, Low: low, Close: cls, Volume: vol,
		})
	}
	return series, nil
}
