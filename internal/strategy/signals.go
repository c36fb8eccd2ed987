package strategy

import (
	"fmt"
	"math"

	"PeakSentinel/internal/model"
)

// checkRSIOverbought fires when RSI(14) exceeds the overbought threshold.
// Weight scales linearly from 0.50 at the threshold to 1.00 at RSI 90.
func (e *Engine) checkRSIOverbought(ind *model.IndicatorSet) (model.Signal, bool) {
	if ind.RSI14 <= e.RSIOverbought {
		return model.Signal{}, false
	}
	span := 90.0 - e.RSIOverbought
	if span <= 0 {
		span = 20.0
	}
	weight := 0.50 + 0.50*(ind.RSI14-e.RSIOverbought)/span
	if weight > 1.0 {
		weight = 1.0
	}
	return model.Signal{
		Name:   "rsi_overbought",
		Weight: weight,
		Detail: fmt.Sprintf("RSI=%.1f above %.0f", ind.RSI14, e.RSIOverbought),
	}, true
}

// checkBollingerCeiling fires when price presses into the upper Bollinger band
// (ratio >= 0.98). Weight scales from 0.40 at 0.98 to 0.90 at ratio 1.03.
func (e *Engine) checkBollingerCeiling(ind *model.IndicatorSet) (model.Signal, bool) {
	if ind.BollingerUpper <= 0 {
		return model.Signal{}, false
	}
	ratio := ind.LastClose / ind.BollingerUpper
	if ratio < 0.98 {
		return model.Signal{}, false
	}
	weight := 0.40 + 0.50*(ratio-0.98)/0.05
	if weight > 0.90 {
		weight = 0.90
	}
	return model.Signal{
		Name:   "bollinger_ceiling",
		Weight: weight,
		Detail: fmt.Sprintf("price at %.1f%% of upper band", ratio*100),
	}, true
}

// checkMACDBearishCross fires at 0.80 when the histogram crossed below zero on
// this candle, or at 0.50 when DIF still sits above DEA but the histogram is
// shrinking toward a cross.
func (e *Engine) checkMACDBearishCross(ind *model.IndicatorSet) (model.Signal, bool) {
	if ind.PrevMACDHist >= 0 && ind.MACDHist < 0 {
		return model.Signal{
			Name:   "macd_bearish_cross",
			Weight: 0.80,
			Detail: fmt.Sprintf("histogram crossed below zero (%.4f)", ind.MACDHist),
		}, true
	}
	if ind.MACDHist > 0 && ind.PrevMACDHist > 0 && ind.MACDHist < ind.PrevMACDHist*0.5 {
		return model.Signal{
			Name:   "macd_bearish_cross",
			Weight: 0.50,
			Detail: "histogram shrinking, cross imminent",
		}, true
	}
	return model.Signal{}, false
}

// checkDeathCross fires at 0.70 when SMA20 crossed below SMA50 on this candle.
func (e *Engine) checkDeathCross(ind *model.IndicatorSet) (model.Signal, bool) {
	if ind.PrevSMA20 >= ind.PrevSMA50 && ind.SMA20 < ind.SMA50 {
		return model.Signal{
			Name:   "ma_death_cross",
			Weight: 0.70,
			Detail: fmt.Sprintf("SMA20 %.4f below SMA50 %.4f", ind.SMA20, ind.SMA50),
		}, true
	}
	return model.Signal{}, false
}

// checkMA200Breakdown fires at 0.60 when the close crossed below SMA200 on
// this candle.
func (e *Engine) checkMA200Breakdown(ind *model.IndicatorSet) (model.Signal, bool) {
	if ind.PrevClose >= ind.PrevSMA200 && ind.LastClose < ind.SMA200 {
		return model.Signal{
			Name:   "ma200_breakdown",
			Weight: 0.60,
			Detail: fmt.Sprintf("close %.4f below SMA200 %.4f", ind.LastClose, ind.SMA200),
		}, true
	}
	return model.Signal{}, false
}

// checkVolumeExhaustion fires at 0.60 when volume spikes past the configured
// multiple of the 20-candle average while the close barely moves. Heavy churn
// with no price progress reads as distribution at the top.
func (e *Engine) checkVolumeExhaustion(ind *model.IndicatorSet) (model.Signal, bool) {
	if ind.AvgVolume20 <= 0 || ind.PrevClose == 0 {
		return model.Signal{}, false
	}
	volRatio := ind.LastVolume / ind.AvgVolume20
	priceChange := math.Abs(ind.LastClose-ind.PrevClose) / ind.PrevClose * 100
	if volRatio > e.VolumeSpikeRatio && priceChange < 0.5 {
		return model.Signal{
			Name:   "volume_exhaustion",
			Weight: 0.60,
			Detail: fmt.Sprintf("volume %.1fx average, price moved %.2f%%", volRatio, priceChange),
		}, true
	}
	return model.Signal{}, false
}
