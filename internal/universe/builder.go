package universe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/logger"
)

// DefaultPool is the candidate pool used when no pool_stocks.json exists
var DefaultPool = []string{
	"RELIANCE.NS", "INFY.NS", "TCS.NS", "HDFCBANK.NS", "ICICIBANK.NS",
	"BHARTIARTL.NS", "SBIN.NS", "ICICIGI.NS", "ITC.NS", "LT.NS",
}

// Builder assembles the run watchlist: the configured core symbols first,
// then the scorer's dynamic picks, duplicates removed.
type Builder struct {
	scorer    *Scorer
	configDir string
	logger    *logger.Logger
}

// NewBuilder creates a watchlist builder
func NewBuilder(scorer *Scorer, configDir string, log *logger.Logger) *Builder {
	return &Builder{
		scorer:    scorer,
		configDir: configDir,
		logger:    log,
	}
}

// Build returns the watchlist for one run. poolOverride, when non-empty,
// replaces the configured candidate pool (used by the trigger surface).
func (b *Builder) Build(ctx context.Context, poolOverride []string) (contracts.Watchlist, error) {
	core := b.loadSymbolFile("core_stocks.json", nil)

	pool := poolOverride
	if len(pool) == 0 {
		pool = b.loadSymbolFile("pool_stocks.json", DefaultPool)
	}

	dynamic := b.scorer.Select(ctx, pool)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("watchlist build canceled: %w", err)
	}

	watchlist := make(contracts.Watchlist, 0, len(core)+len(dynamic))
	seen := make(map[string]struct{}, len(core)+len(dynamic))
	for _, symbol := range append(append([]string{}, core...), dynamic...) {
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		watchlist = append(watchlist, symbol)
	}

	b.logger.WithFields(map[string]interface{}{
		"core":    len(core),
		"dynamic": len(dynamic),
		"total":   len(watchlist),
	}).Info("Watchlist built")

	return watchlist, nil
}

// loadSymbolFile reads a JSON string array from the config dir, falling
// back to `fallback` when the file is missing or malformed.
func (b *Builder) loadSymbolFile(name string, fallback []string) []string {
	path := filepath.Join(b.configDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		b.logger.WithFields(map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		}).Warn("Malformed symbol file, using fallback")
		return fallback
	}
	if len(symbols) == 0 {
		return fallback
	}

	return symbols
}
