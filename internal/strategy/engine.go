package strategy

import (
	"time"

	"PeakSentinel/internal/model"
)

// Name identifies this strategy in file paths and notifications.
const Name = "reversal"

// Engine applies the six reversal checks with configured thresholds.
type Engine struct {
	RSIOverbought    float64
	VolumeSpikeRatio float64
}

// New creates an Engine, substituting defaults for non-positive thresholds.
func New(rsiOverbought, volumeSpikeRatio float64) *Engine {
	if rsiOverbought <= 0 {
		rsiOverbought = 70
	}
	if volumeSpikeRatio <= 0 {
		volumeSpikeRatio = 2.0
	}
	return &Engine{RSIOverbought: rsiOverbought, VolumeSpikeRatio: volumeSpikeRatio}
}

// Evaluate runs every check against the indicator set and aggregates the
// triggered signals into a reversal probability.
func (e *Engine) Evaluate(symbol, timeframe string, ind *model.IndicatorSet) *model.AnalysisResult {
	checks := []func(*model.IndicatorSet) (model.Signal, bool){
		e.checkRSIOverbought,
		e.checkBollingerCeiling,
		e.checkMACDBearishCross,
		e.checkDeathCross,
		e.checkMA200Breakdown,
		e.checkVolumeExhaustion,
	}

	var signals []model.Signal
	for _, check := range checks {
		if sig, ok := check(ind); ok {
			signals = append(signals, sig)
		}
	}

	return &model.AnalysisResult{
		Symbol:      symbol,
		Price:       ind.LastClose,
		Probability: probability(signals),
		Signals:     signals,
		Timeframe:   timeframe,
		Timestamp:   time.Now(),
	}
}

// probability maps triggered signals to a 0-100 score: the mean weight,
// amplified 15% per signal beyond the first, capped at 100.
func probability(signals []model.Signal) float64 {
	if len(signals) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range signals {
		sum += s.Weight
	}
	mean := sum / float64(len(signals))
	p := mean * (1 + 0.15*float64(len(signals)-1)) * 100
	if p > 100 {
		p = 100
	}
	return p
}
