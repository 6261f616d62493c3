package universe

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/strategyconfig"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Scorer ranks a candidate pool by short-term activity and picks the top
// N symbols for the day's watchlist.
type Scorer struct {
	provider contracts.DataProvider
	cfg      strategyconfig.Universe
	logger   *logger.Logger
	now      func() time.Time
}

// candidateScore holds the per-symbol scoring breakdown
type candidateScore struct {
	Symbol   string
	Score    float64
	VolRatio float64
	MovePct  float64
	Near52W  bool
}

// NewScorer creates a new Scorer
func NewScorer(provider contracts.DataProvider, cfg strategyconfig.Universe, log *logger.Logger) *Scorer {
	return &Scorer{
		provider: provider,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the clock, for tests
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Select scans the pool and returns up to TopN symbols ordered by score.
// A symbol scores when its latest volume spikes above the trailing average,
// its day-over-day move exceeds the threshold, or it trades near its
// 52-week high/low. Symbols that fail data retrieval are skipped. When
// nothing scores, a random sample seeded by the run date keeps the
// selection deterministic within one calendar day.
func (s *Scorer) Select(ctx context.Context, pool []string) []string {
	scored := make([]candidateScore, 0, len(pool))

	for _, symbol := range pool {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		cs, ok := s.scoreSymbol(ctx, symbol)
		if !ok {
			continue
		}
		if cs.Score > 0 {
			scored = append(scored, cs)
		}
	}

	if len(scored) == 0 {
		s.logger.Warn("No candidate scored above zero, falling back to random sample")
		return s.fallbackSample(pool)
	}

	// Descending by score; sort.SliceStable keeps first-seen order on ties.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	n := s.cfg.TopN
	if n > len(scored) {
		n = len(scored)
	}

	selected := make([]string, 0, n)
	for _, cs := range scored[:n] {
		s.logger.WithFields(map[string]interface{}{
			"symbol":    cs.Symbol,
			"score":     cs.Score,
			"vol_ratio": cs.VolRatio,
			"move_pct":  cs.MovePct,
			"near_52w":  cs.Near52W,
		}).Debug("Candidate selected")
		selected = append(selected, cs.Symbol)
	}

	return selected
}

// scoreSymbol fetches daily history and accumulates the activity score
func (s *Scorer) scoreSymbol(ctx context.Context, symbol string) (candidateScore, bool) {
	cs := candidateScore{Symbol: symbol}

	ds, err := s.provider.FetchDailyHistory(ctx, symbol, s.cfg.LookbackDays)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Candidate skipped, data retrieval failed")
		return cs, false
	}
	if ds.Len() < 10 {
		return cs, false
	}

	bars := ds.Bars
	latest := bars[len(bars)-1]
	prevClose := bars[len(bars)-2].Close

	avgVol := trailingAvgVolume(bars, 20)
	cs.VolRatio = latest.Volume / (avgVol + 1e-9)

	if prevClose != 0 {
		cs.MovePct = (latest.Close - prevClose) / prevClose * 100
	}

	// Volume spike component, active only above the multiplier threshold.
	if cs.VolRatio >= s.cfg.VolMultiplier {
		cs.Score += (cs.VolRatio-s.cfg.VolMultiplier)*2.0 + 1.0
	}

	// Price move component, scaled by how far it exceeds the threshold.
	if math.Abs(cs.MovePct) >= s.cfg.PriceMovePct {
		cs.Score += math.Abs(cs.MovePct) / s.cfg.PriceMovePct
	}

	// Fixed bonus near the 52-week high or low.
	if s.cfg.Use52W {
		cs.Near52W = near52WeekHighLow(bars, s.cfg.Pct52W)
		if cs.Near52W {
			cs.Score += 0.8
		}
	}

	return cs, true
}

// fallbackSample returns exactly TopN pool symbols (or the whole pool when
// smaller), shuffled with a seed derived from the run date so one calendar
// day always produces the same picks.
func (s *Scorer) fallbackSample(pool []string) []string {
	if len(pool) == 0 {
		return nil
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)

	day := s.now().Format("20060102")
	var seed int64
	for _, c := range day {
		seed = seed*10 + int64(c-'0')
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := s.cfg.TopN
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// trailingAvgVolume averages volume over the last `window` bars, or all
// bars when fewer exist.
func trailingAvgVolume(bars []contracts.Bar, window int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if window > len(bars) {
		window = len(bars)
	}

	var sum float64
	for _, b := range bars[len(bars)-window:] {
		sum += b.Volume
	}
	return sum / float64(window)
}

// near52WeekHighLow reports whether the latest close sits within
// pctThreshold percent of the high or low over the trailing year (capped
// at the available history).
func near52WeekHighLow(bars []contracts.Bar, pctThreshold float64) bool {
	if len(bars) == 0 {
		return false
	}

	tail := bars
	if len(tail) > 252 {
		tail = tail[len(tail)-252:]
	}

	high := tail[0].Close
	low := tail[0].Close
	for _, b := range tail {
		if b.Close > high {
			high = b.Close
		}
		if b.Close < low {
			low = b.Close
		}
	}
	if high <= 0 || low <= 0 {
		return false
	}

	close := bars[len(bars)-1].Close
	pctFromHigh := (high - close) / high * 100
	pctFromLow := (close - low) / low * 100

	return pctFromHigh <= pctThreshold || pctFromLow <= pctThreshold
}
