package universe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/logger"
)

func writeSymbolFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func builderWith(t *testing.T, dir string, histories map[string]*contracts.TimeframeDataset) *Builder {
	t.Helper()
	provider := &stubHistoryProvider{histories: histories}
	scorer := NewScorer(provider, testUniverseCfg(), logger.NewNop())
	return NewBuilder(scorer, dir, logger.NewNop())
}

func TestBuilder_CoreSymbolsComeFirst(t *testing.T) {
	dir := t.TempDir()
	writeSymbolFile(t, dir, "core_stocks.json", `["CORE1.NS", "CORE2.NS"]`)
	writeSymbolFile(t, dir, "pool_stocks.json", `["HOT.NS"]`)

	b := builderWith(t, dir, map[string]*contracts.TimeframeDataset{
		"HOT.NS": spikedHistory("HOT.NS", 6, 8),
	})

	watchlist, err := b.Build(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, contracts.Watchlist{"CORE1.NS", "CORE2.NS", "HOT.NS"}, watchlist)
}

func TestBuilder_DeduplicatesCoreAndDynamic(t *testing.T) {
	dir := t.TempDir()
	writeSymbolFile(t, dir, "core_stocks.json", `["HOT.NS"]`)
	writeSymbolFile(t, dir, "pool_stocks.json", `["HOT.NS"]`)

	b := builderWith(t, dir, map[string]*contracts.TimeframeDataset{
		"HOT.NS": spikedHistory("HOT.NS", 6, 8),
	})

	watchlist, err := b.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, contracts.Watchlist{"HOT.NS"}, watchlist)
}

func TestBuilder_PoolOverrideReplacesConfiguredPool(t *testing.T) {
	dir := t.TempDir()
	writeSymbolFile(t, dir, "pool_stocks.json", `["IGNORED.NS"]`)

	b := builderWith(t, dir, map[string]*contracts.TimeframeDataset{
		"OVERRIDE.NS": spikedHistory("OVERRIDE.NS", 6, 8),
	})

	watchlist, err := b.Build(context.Background(), []string{"OVERRIDE.NS"})
	require.NoError(t, err)
	assert.Equal(t, contracts.Watchlist{"OVERRIDE.NS"}, watchlist)
}

func TestBuilder_MissingFilesFallBackToDefaults(t *testing.T) {
	// Empty config dir: no core set, the shipped default pool feeds the
	// scorer, and the date-seeded fallback sample fills the watchlist.
	b := builderWith(t, t.TempDir(), nil)

	watchlist, err := b.Build(context.Background(), nil)
	require.NoError(t, err)

	require.NotEmpty(t, watchlist)
	for _, symbol := range watchlist {
		assert.Contains(t, DefaultPool, symbol)
	}
}

func TestBuilder_MalformedPoolFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeSymbolFile(t, dir, "pool_stocks.json", `{"not": "an array"}`)

	b := builderWith(t, dir, nil)

	watchlist, err := b.Build(context.Background(), nil)
	require.NoError(t, err)
	for _, symbol := range watchlist {
		assert.Contains(t, DefaultPool, symbol)
	}
}
