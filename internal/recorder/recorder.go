package recorder

import (
	"time"

	"PeakSentinel/internal/model"
)

// ScanRecord summarizes one completed scan cycle.
type ScanRecord struct {
	SymbolsScanned int
	SignalsFired   int
	AlertsSent     int
	Duration       time.Duration
}

// AlertRecord is one tracker event that produced a notification.
type AlertRecord struct {
	Symbol       string
	Event        model.TrackEvent
	Price        float64
	HighestPrice float64
	DropPercent  float64
	Probability  float64
}

// Recorder persists scan and alert history for later analysis.
type Recorder interface {
	RecordScan(rec *ScanRecord) error
	RecordAlert(rec *AlertRecord) error
	Close() error
}
