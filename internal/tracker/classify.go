package tracker

import (
	"math"

	"github.com/akverma/signalrunner/internal/contracts"
)

// Trade status values written into the trade log Result column.
const (
	StatusOpen      = "Open"
	StatusTargetHit = "Target Hit"
	StatusStopHit   = "Stop Hit"
)

// Classify resolves a position's status and PnL percentage from the live
// price. Target and stop hits are priced at their level, not at the live
// print, so a gap through a level still books the level. Open positions
// mark to the live price. Favorable moves are positive for both sides;
// the percentage is rounded to 2 decimals.
func Classify(side contracts.Side, entry, target, stop, live float64) (string, float64) {
	if entry == 0 {
		return StatusOpen, 0
	}

	var status string
	var exit float64

	switch side {
	case contracts.SideBuy:
		switch {
		case live >= target:
			status, exit = StatusTargetHit, target
		case live <= stop:
			status, exit = StatusStopHit, stop
		default:
			status, exit = StatusOpen, live
		}
	case contracts.SideSell:
		switch {
		case live <= target:
			status, exit = StatusTargetHit, target
		case live >= stop:
			status, exit = StatusStopHit, stop
		default:
			status, exit = StatusOpen, live
		}
	default:
		return StatusOpen, 0
	}

	pnl := (exit - entry) / entry * 100
	if side == contracts.SideSell {
		pnl = -pnl
	}
	return status, round2(pnl)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
