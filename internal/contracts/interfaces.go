package contracts

import "context"

// DataProvider is the market-data boundary. Implementations return an
// empty view (not an error) when no data exists and omit a timeframe
// entirely if that leg fails.
type DataProvider interface {
	// FetchMultiTimeframe returns bars plus the requested indicator
	// columns for every configured timeframe of one symbol.
	FetchMultiTimeframe(ctx context.Context, symbol string, indicators []string) (MultiTimeframeView, error)

	// FetchDailyHistory returns roughly the last `days` daily bars.
	FetchDailyHistory(ctx context.Context, symbol string, days int) (*TimeframeDataset, error)

	// FetchLatestPrice returns the most recent traded price.
	FetchLatestPrice(ctx context.Context, symbol string) (float64, error)
}

// Notifier is the chat notification boundary. Best-effort: callers log
// and swallow failures, they never roll a run back over them.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// SignalSink is the spreadsheet-like append boundary for final signals.
type SignalSink interface {
	AppendSignals(ctx context.Context, signals []Signal) error
}
