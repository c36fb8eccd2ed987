package model

import "time"

// TrackEvent is emitted by the tracker when a symbol changes state.
type TrackEvent string

const (
	EventNone               TrackEvent = ""
	EventNewHigh            TrackEvent = "NEW_HIGH"
	EventExhaustion         TrackEvent = "UPTREND_EXHAUSTION"
	EventDowntrendConfirmed TrackEvent = "DOWNTREND_CONFIRMED"
)

// TrackedSymbol is the per-symbol monitoring state.
// HighestPrice only moves up; a strictly higher price resets the three
// downtrend flags and starts a new episode.
type TrackedSymbol struct {
	Symbol             string    `json:"symbol"`
	LastPrice          float64   `json:"last_price"`
	HighestPrice       float64   `json:"highest_price"`
	LastUpdate         time.Time `json:"last_update"`
	Signals            []string  `json:"signals,omitempty"`
	Downtrend          bool      `json:"downtrend"`
	DowntrendConfirmed bool      `json:"downtrend_confirmed"`
	DowntrendNotified  bool      `json:"downtrend_notified"`
}

// DropPercent returns how far LastPrice sits below HighestPrice, in percent.
func (t *TrackedSymbol) DropPercent() float64 {
	if t.HighestPrice <= 0 {
		return 0
	}
	return (t.HighestPrice - t.LastPrice) / t.HighestPrice * 100
}
