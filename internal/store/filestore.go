package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Artifact file names under the output directory. The schema of each is
// stable; downstream tooling reads them directly.
const (
	signalsFile     = "live_signals.json"
	watchlistFile   = "final_watchlist.json"
	tradeLogFile    = "trade_log.csv"
	strategyLogDir  = "strategy_logs"
	heartbeatFile   = "last_heartbeat.json"
	dailyNoticeFile = "last_daily_notice.json"
	eodSummaryFile  = "last_eod_summary.json"
)

// noTradesMarker is the single-element snapshot written when a run ends
// with no qualifying signals.
type noTradesMarker struct {
	Message string `json:"Message"`
}

// FileStore persists run artifacts as flat files.
// SSOT: every artifact path is resolved here and nowhere else.
type FileStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string, log *logger.Logger) *FileStore {
	return &FileStore{dir: dir, logger: log}
}

// path resolves a file name inside the output directory
func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveSignals writes the latest run snapshot (overwrite semantics). An
// empty signal set is persisted as the "no trades" marker so the snapshot
// always reflects the most recent run.
func (s *FileStore) SaveSignals(signals []contracts.Signal) error {
	if len(signals) == 0 {
		return s.writeJSON(signalsFile, []noTradesMarker{{Message: "No trades found"}})
	}

	rounded := make([]contracts.Signal, len(signals))
	copy(rounded, signals)
	for i := range rounded {
		rounded[i].RoundPrices()
	}

	return s.writeJSON(signalsFile, rounded)
}

// LoadSignals reads the latest snapshot. The "no trades" marker loads as
// an empty set.
func (s *FileStore) LoadSignals() ([]contracts.Signal, error) {
	data, err := os.ReadFile(s.path(signalsFile))
	if err != nil {
		return nil, fmt.Errorf("read signals snapshot: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode signals snapshot: %w", err)
	}

	signals := make([]contracts.Signal, 0, len(raw))
	for _, item := range raw {
		var sig contracts.Signal
		if err := json.Unmarshal(item, &sig); err != nil {
			return nil, fmt.Errorf("decode signal: %w", err)
		}
		if sig.Symbol == "" {
			continue // marker element
		}
		signals = append(signals, sig)
	}
	return signals, nil
}

// SaveWatchlist writes the most recent watchlist snapshot
func (s *FileStore) SaveWatchlist(watchlist contracts.Watchlist) error {
	return s.writeJSON(watchlistFile, watchlist)
}

// LoadWatchlist reads the most recent watchlist snapshot
func (s *FileStore) LoadWatchlist() (contracts.Watchlist, error) {
	data, err := os.ReadFile(s.path(watchlistFile))
	if err != nil {
		return nil, fmt.Errorf("read watchlist snapshot: %w", err)
	}

	var watchlist contracts.Watchlist
	if err := json.Unmarshal(data, &watchlist); err != nil {
		return nil, fmt.Errorf("decode watchlist snapshot: %w", err)
	}
	return watchlist, nil
}

// heartbeatState is the heartbeat sentinel schema
type heartbeatState struct {
	Timestamp int64 `json:"timestamp"`
}

// CanSendHeartbeat reports whether at least interval has passed since the
// last recorded heartbeat. A missing or unreadable sentinel allows sending.
func (s *FileStore) CanSendHeartbeat(interval time.Duration, now time.Time) bool {
	data, err := os.ReadFile(s.path(heartbeatFile))
	if err != nil {
		return true
	}

	var state heartbeatState
	if err := json.Unmarshal(data, &state); err != nil {
		return true
	}

	return now.Sub(time.Unix(state.Timestamp, 0)) >= interval
}

// MarkHeartbeat records that a heartbeat was sent at now
func (s *FileStore) MarkHeartbeat(now time.Time) error {
	return s.writeJSON(heartbeatFile, heartbeatState{Timestamp: now.Unix()})
}

// dailyNoticeState is the daily-notice sentinel schema
type dailyNoticeState struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// DailyNoticeSentOn reports whether the closed-market notice already went
// out on the given date.
func (s *FileStore) DailyNoticeSentOn(date string) bool {
	data, err := os.ReadFile(s.path(dailyNoticeFile))
	if err != nil {
		return false
	}

	var state dailyNoticeState
	if err := json.Unmarshal(data, &state); err != nil {
		return false
	}
	return state.Date == date
}

// MarkDailyNotice records the date of the last closed-market notice
func (s *FileStore) MarkDailyNotice(date string) error {
	return s.writeJSON(dailyNoticeFile, dailyNoticeState{Date: date})
}

// EODSummarySentOn reports whether the end-of-day summary already went
// out on the given date.
func (s *FileStore) EODSummarySentOn(date string) bool {
	data, err := os.ReadFile(s.path(eodSummaryFile))
	if err != nil {
		return false
	}

	var state dailyNoticeState
	if err := json.Unmarshal(data, &state); err != nil {
		return false
	}
	return state.Date == date
}

// MarkEODSummary records the date of the last end-of-day summary
func (s *FileStore) MarkEODSummary(date string) error {
	return s.writeJSON(eodSummaryFile, dailyNoticeState{Date: date})
}

// writeJSON writes v as indented JSON, creating the directory if needed
func (s *FileStore) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
