package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/config"
	"github.com/akverma/signalrunner/pkg/httputil"
	"github.com/akverma/signalrunner/pkg/logger"
)

// timeframeLeg pairs a bar interval with the history range fetched for it
type timeframeLeg struct {
	Interval string
	Range    string
}

// defaultLegs are the timeframes every strategy evaluation sees
var defaultLegs = []timeframeLeg{
	{Interval: "5m", Range: "7d"},
	{Interval: "15m", Range: "14d"},
	{Interval: "30m", Range: "30d"},
	{Interval: "1h", Range: "60d"},
	{Interval: "1d", Range: "6mo"},
}

// YahooProvider fetches bars from the Yahoo Finance chart API.
// SSOT: all market data retrieval goes through this client.
type YahooProvider struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	legs       []timeframeLeg
}

// NewYahooProvider creates a provider from config
func NewYahooProvider(cfg *config.Config, log *logger.Logger) *YahooProvider {
	client := httputil.New(log, cfg.Provider.Timeout).
		WithRetry(cfg.Provider.MaxRetries, 1*time.Second).
		WithRateLimit(cfg.Provider.RatePerSec, cfg.Provider.RateBurst)

	return &YahooProvider{
		httpClient: client,
		logger:     log,
		baseURL:    cfg.Provider.BaseURL,
		legs:       defaultLegs,
	}
}

// chartResponse mirrors the subset of the chart API payload we consume
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchMultiTimeframe returns every configured timeframe leg for one
// symbol, annotated with the requested indicator columns. A failed leg is
// omitted from the view; a symbol with no data at all yields an empty view.
func (p *YahooProvider) FetchMultiTimeframe(ctx context.Context, symbol string, indicators []string) (contracts.MultiTimeframeView, error) {
	view := make(contracts.MultiTimeframeView, len(p.legs))

	for _, leg := range p.legs {
		ds, err := p.fetchBars(ctx, symbol, leg.Interval, leg.Range)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"symbol":    symbol,
				"timeframe": leg.Interval,
				"error":     err.Error(),
			}).Warn("Timeframe leg failed, omitting")
			continue
		}

		AttachIndicators(ds, indicators)
		view[leg.Interval] = ds
	}

	return view, nil
}

// FetchDailyHistory returns roughly the last `days` daily bars
func (p *YahooProvider) FetchDailyHistory(ctx context.Context, symbol string, days int) (*contracts.TimeframeDataset, error) {
	if days < 30 {
		days = 30
	}
	// A little extra history for rolling windows.
	rangeStr := fmt.Sprintf("%dd", days+5)

	return p.fetchBars(ctx, symbol, "1d", rangeStr)
}

// FetchLatestPrice returns the most recent traded price from 1m bars
func (p *YahooProvider) FetchLatestPrice(ctx context.Context, symbol string) (float64, error) {
	ds, err := p.fetchBars(ctx, symbol, "1m", "1d")
	if err != nil {
		return 0, err
	}

	last, ok := ds.Last()
	if !ok {
		return 0, fmt.Errorf("no price data for %s", symbol)
	}

	return last.Close, nil
}

// fetchBars calls the chart endpoint and converts the payload to a dataset
func (p *YahooProvider) fetchBars(ctx context.Context, symbol, interval, rangeStr string) (*contracts.TimeframeDataset, error) {
	params := url.Values{}
	params.Set("interval", interval)
	params.Set("range", rangeStr)

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.baseURL, url.PathEscape(symbol), params.Encode())

	resp, err := p.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload chartResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart payload: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)",
			payload.Chart.Error.Code, payload.Chart.Error.Description)
	}

	ds := &contracts.TimeframeDataset{
		Symbol:    symbol,
		Timeframe: interval,
	}

	// No data is an empty dataset, not an error.
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return ds, nil
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	for i, ts := range result.Timestamp {
		bar, ok := barAt(quote.Open, quote.High, quote.Low, quote.Close, quote.Volume, i)
		if !ok {
			continue // rows with null OHLC are dropped, matching provider gaps
		}
		bar.Timestamp = time.Unix(ts, 0).UTC()
		ds.Bars = append(ds.Bars, bar)
	}

	return ds, nil
}

// barAt assembles one bar from the column-oriented payload
func barAt(open, high, low, close, volume []*float64, i int) (contracts.Bar, bool) {
	get := func(col []*float64) (float64, bool) {
		if i >= len(col) || col[i] == nil {
			return 0, false
		}
		return *col[i], true
	}

	o, ok1 := get(open)
	h, ok2 := get(high)
	l, ok3 := get(low)
	c, ok4 := get(close)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return contracts.Bar{}, false
	}

	v, _ := get(volume) // volume may be null on illiquid bars

	return contracts.Bar{Open: o, High: h, Low: l, Close: c, Volume: v}, true
}
