package contracts

import "time"

// Bar is one OHLCV observation. Immutable once produced.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// TimeframeDataset is an ordered bar sequence for one symbol and one
// timeframe, oldest first, with derived indicator columns aligned by index.
// Supplied fresh per run; consumers must not mutate it in place.
type TimeframeDataset struct {
	Symbol     string
	Timeframe  string
	Bars       []Bar
	Indicators map[string][]float64
}

// Len returns the number of bars
func (d *TimeframeDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Bars)
}

// Empty reports whether the dataset holds no bars
func (d *TimeframeDataset) Empty() bool {
	return d.Len() == 0
}

// Last returns the most recent bar
func (d *TimeframeDataset) Last() (Bar, bool) {
	if d.Len() == 0 {
		return Bar{}, false
	}
	return d.Bars[len(d.Bars)-1], true
}

// Indicator returns the named derived column, aligned with Bars
func (d *TimeframeDataset) Indicator(name string) ([]float64, bool) {
	if d == nil || d.Indicators == nil {
		return nil, false
	}
	col, ok := d.Indicators[name]
	if !ok || len(col) != len(d.Bars) {
		return nil, false
	}
	return col, true
}

// IndicatorAt returns the indicator value at bar index i
func (d *TimeframeDataset) IndicatorAt(name string, i int) (float64, bool) {
	col, ok := d.Indicator(name)
	if !ok || i < 0 || i >= len(col) {
		return 0, false
	}
	return col[i], true
}

// MultiTimeframeView maps timeframe labels ("5m", "1h", "1d", ...) to
// datasets for one symbol. A timeframe whose fetch failed is simply absent.
type MultiTimeframeView map[string]*TimeframeDataset

// Get returns the dataset for a timeframe label
func (v MultiTimeframeView) Get(label string) (*TimeframeDataset, bool) {
	ds, ok := v[label]
	if !ok || ds.Empty() {
		return nil, false
	}
	return ds, true
}

// Empty reports whether no timeframe carries any bars
func (v MultiTimeframeView) Empty() bool {
	for _, ds := range v {
		if !ds.Empty() {
			return false
		}
	}
	return true
}
