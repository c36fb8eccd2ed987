package calculator

import (
	"errors"
	"log"

	"PeakSentinel/internal/model"
)

// BuildIndicatorSet computes every indicator the strategy evaluates from a
// candle series. A single indicator failing degrades to a neutral default
// instead of aborting the whole set.
func BuildIndicatorSet(candles []model.Candle) (*model.IndicatorSet, error) {
	if len(candles) < 2 {
		return nil, errors.New("need at least two candles")
	}

	closes := extractCloses(candles)
	volumes := extractVolumes(candles)
	prevCloses := closes[:len(closes)-1]
	last := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	ind := &model.IndicatorSet{
		LastClose:  last.Close,
		PrevClose:  prev.Close,
		LastVolume: last.Volume,
	}

	// RSI14
	if rsi, err := CalculateRSI(candles, 14); err != nil {
		log.Printf("[WARN] RSI calculation failed: %v, defaulting to 50", err)
		ind.RSI14 = 50
	} else {
		ind.RSI14 = rsi
	}

	// MACD 12/26/9. Zeroed values read as no cross.
	if macdLine, signalLine, hist, err := CalculateMACD(closes, 12, 26, 9); err != nil {
		log.Printf("[WARN] MACD calculation failed: %v, leaving zeroed", err)
	} else {
		ind.MACD = macdLine[len(macdLine)-1]
		ind.MACDSignal = signalLine[len(signalLine)-1]
		ind.MACDHist = hist[len(hist)-1]
		if len(hist) >= 2 {
			ind.PrevMACDHist = hist[len(hist)-2]
		}
	}

	// SMA20
	if ma, err := CalculateSMA(closes, 20); err != nil {
		log.Printf("[WARN] SMA20 calculation failed: %v, using last close", err)
		ind.SMA20 = last.Close
	} else {
		ind.SMA20 = ma
	}

	// SMA50
	if ma, err := CalculateSMA(closes, 50); err != nil {
		log.Printf("[WARN] SMA50 calculation failed: %v, using last close", err)
		ind.SMA50 = last.Close
	} else {
		ind.SMA50 = ma
	}

	// SMA200
	if ma, err := CalculateSMA(closes, 200); err != nil {
		log.Printf("[WARN] SMA200 calculation failed: %v, using last close", err)
		ind.SMA200 = last.Close
	} else {
		ind.SMA200 = ma
	}

	// Previous-candle SMAs for cross detection. On short history they fall
	// back to the current value, which reads as no cross.
	if ma, err := CalculateSMA(prevCloses, 20); err != nil {
		ind.PrevSMA20 = ind.SMA20
	} else {
		ind.PrevSMA20 = ma
	}
	if ma, err := CalculateSMA(prevCloses, 50); err != nil {
		ind.PrevSMA50 = ind.SMA50
	} else {
		ind.PrevSMA50 = ma
	}
	if ma, err := CalculateSMA(prevCloses, 200); err != nil {
		ind.PrevSMA200 = ind.SMA200
	} else {
		ind.PrevSMA200 = ma
	}

	// Bollinger 20/2.0. Zeroed bands are skipped by the strategy.
	if upper, middle, lower, err := CalculateBollinger(closes, 20, 2.0); err != nil {
		log.Printf("[WARN] Bollinger calculation failed: %v, leaving zeroed", err)
	} else {
		ind.BollingerUpper = upper
		ind.BollingerMiddle = middle
		ind.BollingerLower = lower
	}

	// 20-candle volume average
	if avg, err := CalculateAvgVolume(volumes, 20); err != nil {
		log.Printf("[WARN] Volume average calculation failed: %v, using last volume", err)
		ind.AvgVolume20 = last.Volume
	} else {
		ind.AvgVolume20 = avg
	}

	return ind, nil
}
