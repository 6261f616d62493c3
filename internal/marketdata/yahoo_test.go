package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/pkg/config"
	"github.com/akverma/signalrunner/pkg/logger"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *YahooProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Provider.BaseURL = srv.URL
	cfg.Provider.Timeout = 5 * time.Second
	cfg.Provider.MaxRetries = 0
	cfg.Provider.RatePerSec = 100
	cfg.Provider.RateBurst = 100

	return NewYahooProvider(cfg, logger.NewNop())
}

const chartPayload = `{
  "chart": {
    "result": [{
      "timestamp": [1767340800, 1767341100, 1767341400],
      "indicators": {
        "quote": [{
          "open":   [100.0, 101.0, null],
          "high":   [101.5, 102.0, 103.0],
          "low":    [99.5, 100.5, 101.0],
          "close":  [101.0, 101.8, 102.5],
          "volume": [10000, 12000, null]
        }]
      }
    }],
    "error": null
  }
}`

func TestFetchDailyHistory_ParsesBars(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/RELIANCE.NS")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartPayload)
	})

	ds, err := p.FetchDailyHistory(context.Background(), "RELIANCE.NS", 60)
	require.NoError(t, err)

	// The third row has a null open and is dropped.
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 101.0, ds.Bars[0].Close)
	assert.Equal(t, 12000.0, ds.Bars[1].Volume)
	assert.Equal(t, "1d", ds.Timeframe)
}

func TestFetchLatestPrice(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload)
	})

	price, err := p.FetchLatestPrice(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, 101.8, price)
}

func TestFetchBars_EmptyResultIsNotAnError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	})

	ds, err := p.FetchDailyHistory(context.Background(), "NODATA.NS", 60)
	require.NoError(t, err)
	assert.True(t, ds.Empty())
}

func TestFetchBars_APIErrorIsSurfaced(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	})

	_, err := p.FetchDailyHistory(context.Background(), "BAD.NS", 60)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestFetchMultiTimeframe_OmitsFailedLegs(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		// The 15m leg fails hard; every other leg succeeds.
		if r.URL.Query().Get("interval") == "15m" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, chartPayload)
	})

	view, err := p.FetchMultiTimeframe(context.Background(), "RELIANCE.NS", nil)
	require.NoError(t, err)

	assert.NotContains(t, view, "15m")
	for _, tf := range []string{"5m", "30m", "1h", "1d"} {
		assert.Contains(t, view, tf)
	}
}

func TestFetchMultiTimeframe_AttachesRequestedIndicators(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload)
	})

	view, err := p.FetchMultiTimeframe(context.Background(), "RELIANCE.NS", []string{IndicatorATR})
	require.NoError(t, err)

	ds, ok := view.Get("5m")
	require.True(t, ok)
	_, ok = ds.Indicator(IndicatorATR)
	assert.True(t, ok)
}
