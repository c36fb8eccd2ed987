package model

import "time"

// Signal is one triggered reversal heuristic.
type Signal struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail"`
}

// AnalysisResult is the scored output for one symbol.
// HighestPrice and DropPercent are filled from the tracker when the symbol is tracked.
type AnalysisResult struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Probability float64   `json:"probability"` // 0-100
	Signals     []Signal  `json:"signals"`
	Timeframe   string    `json:"timeframe,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`

	HighestPrice float64 `json:"highest_price,omitempty"`
	DropPercent  float64 `json:"drop_percent,omitempty"`
}

// SignalNames returns just the signal names, for the tracker's compact state.
func (r *AnalysisResult) SignalNames() []string {
	names := make([]string, len(r.Signals))
	for i, s := range r.Signals {
		names[i] = s.Name
	}
	return names
}
