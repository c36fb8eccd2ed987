package calculator

import (
	"math"
	"testing"
	"time"

	"PeakSentinel/internal/model"
)

func makeCandles(closes []float64, volume float64) []model.Candle {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{
			Time:      base.Add(time.Duration(i) * 15 * time.Minute),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    volume,
			CloseTime: base.Add(time.Duration(i+1) * 15 * time.Minute),
		}
	}
	return candles
}

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}

	sma, err := CalculateSMA(prices, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 3 {
		t.Errorf("expected 3, got %.4f", sma)
	}

	sma, err = CalculateSMA(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 4 {
		t.Errorf("expected SMA over last 3 values to be 4, got %.4f", sma)
	}

	if _, err = CalculateSMA(prices, 6); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err = CalculateSMA(prices, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateEMA(t *testing.T) {
	prices := []float64{10, 20, 30}

	// Period 1 means multiplier 1: series follows prices exactly.
	ema, err := CalculateEMA(prices, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range prices {
		if ema[i] != prices[i] {
			t.Errorf("period-1 EMA[%d]: expected %.1f, got %.4f", i, prices[i], ema[i])
		}
	}

	// Seeded with the first value, multiplier 2/(3+1) = 0.5.
	ema, err = CalculateEMA([]float64{10, 20}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ema[0] != 10 {
		t.Errorf("expected seed 10, got %.4f", ema[0])
	}
	if ema[1] != 15 {
		t.Errorf("expected 15, got %.4f", ema[1])
	}

	if _, err = CalculateEMA(nil, 3); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestCalculateRSI(t *testing.T) {
	// Constant closes: no losses, RSI pegs at 100.
	flat := makeCandles([]float64{5, 5, 5, 5, 5, 5}, 1000)
	rsi, err := CalculateRSI(flat, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected 100 for lossless series, got %.2f", rsi)
	}

	// Strictly falling closes: no gains, RSI 0.
	falling := makeCandles([]float64{10, 9, 8, 7, 6, 5}, 1000)
	rsi, err = CalculateRSI(falling, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 0 {
		t.Errorf("expected 0 for gainless series, got %.2f", rsi)
	}

	// Insufficient data defaults to neutral 50 without error.
	rsi, err = CalculateRSI(flat[:3], 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50 {
		t.Errorf("expected neutral 50, got %.2f", rsi)
	}

	// Mixed series stays strictly inside the bounds.
	mixed := makeCandles([]float64{10, 11, 10.5, 11.2, 10.8, 11.5, 11.1, 11.8}, 1000)
	rsi, err = CalculateRSI(mixed, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi <= 0 || rsi >= 100 {
		t.Errorf("expected RSI inside (0, 100), got %.2f", rsi)
	}

	if _, err = CalculateRSI(flat, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateMACD(t *testing.T) {
	rising := make([]float64, 50)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}

	macdLine, signalLine, hist, err := CalculateMACD(rising, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(macdLine) != 50 || len(signalLine) != 50 || len(hist) != 50 {
		t.Fatalf("expected full-length series, got %d/%d/%d", len(macdLine), len(signalLine), len(hist))
	}
	last := len(rising) - 1
	if macdLine[last] <= 0 {
		t.Errorf("expected positive MACD for rising series, got %.4f", macdLine[last])
	}
	if math.Abs(hist[last]-(macdLine[last]-signalLine[last])) > 1e-12 {
		t.Errorf("histogram must equal line minus signal, got %.6f", hist[last])
	}

	if _, _, _, err = CalculateMACD(rising, 26, 12, 9); err == nil {
		t.Error("expected error when fast period >= slow period")
	}
	if _, _, _, err = CalculateMACD(rising[:10], 12, 26, 9); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, _, _, err = CalculateMACD(rising, 0, 26, 9); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateBollinger(t *testing.T) {
	// Mean 5, population stddev 2: bands at 9 and 1 with mult 2.
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	upper, middle, lower, err := CalculateBollinger(closes, 8, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if middle != 5 {
		t.Errorf("expected middle 5, got %.4f", middle)
	}
	if upper != 9 {
		t.Errorf("expected upper 9, got %.4f", upper)
	}
	if lower != 1 {
		t.Errorf("expected lower 1, got %.4f", lower)
	}

	// Constant closes collapse the bands onto the price.
	upper, middle, lower, err = CalculateBollinger([]float64{7, 7, 7, 7}, 4, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upper != 7 || middle != 7 || lower != 7 {
		t.Errorf("expected collapsed bands at 7, got %.2f/%.2f/%.2f", upper, middle, lower)
	}

	if _, _, _, err = CalculateBollinger(closes[:3], 8, 2.0); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestCalculateAvgVolume(t *testing.T) {
	avg, err := CalculateAvgVolume([]float64{1000, 2000, 3000}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != 2500 {
		t.Errorf("expected 2500, got %.1f", avg)
	}

	if _, err = CalculateAvgVolume([]float64{1000}, 2); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestBuildIndicatorSet_FullSeries(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.1
	}
	candles := makeCandles(closes, 1000)

	ind, err := BuildIndicatorSet(candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ind.LastClose != closes[249] || ind.PrevClose != closes[248] {
		t.Errorf("close anchors wrong: last=%.2f prev=%.2f", ind.LastClose, ind.PrevClose)
	}
	if ind.RSI14 <= 0 || ind.RSI14 > 100 {
		t.Errorf("RSI out of range: %.2f", ind.RSI14)
	}
	if !(ind.BollingerUpper >= ind.BollingerMiddle && ind.BollingerMiddle >= ind.BollingerLower) {
		t.Errorf("bands out of order: %.2f/%.2f/%.2f", ind.BollingerUpper, ind.BollingerMiddle, ind.BollingerLower)
	}
	// Rising series keeps every SMA below the last close.
	if ind.SMA20 >= ind.LastClose || ind.SMA50 >= ind.SMA20 || ind.SMA200 >= ind.SMA50 {
		t.Errorf("SMA ordering wrong for rising series: %.2f/%.2f/%.2f", ind.SMA20, ind.SMA50, ind.SMA200)
	}
	if ind.PrevSMA20 == 0 || ind.PrevSMA50 == 0 || ind.PrevSMA200 == 0 {
		t.Error("previous SMAs not populated")
	}
	// One step back on a rising series, every previous SMA sits lower.
	if ind.PrevSMA200 >= ind.SMA200 {
		t.Errorf("previous SMA200 should trail current: %.2f vs %.2f", ind.PrevSMA200, ind.SMA200)
	}
	if ind.AvgVolume20 != 1000 {
		t.Errorf("expected constant volume average 1000, got %.1f", ind.AvgVolume20)
	}
}

func TestBuildIndicatorSet_ShortSeries(t *testing.T) {
	candles := makeCandles([]float64{100, 101}, 500)

	ind, err := BuildIndicatorSet(candles)
	if err != nil {
		t.Fatalf("short series must degrade, not fail: %v", err)
	}
	if ind.RSI14 != 50 {
		t.Errorf("expected neutral RSI 50, got %.2f", ind.RSI14)
	}
	if ind.SMA20 != 101 || ind.SMA200 != 101 {
		t.Errorf("expected SMAs to fall back to last close, got %.2f/%.2f", ind.SMA20, ind.SMA200)
	}
	if ind.PrevSMA20 != ind.SMA20 || ind.PrevSMA200 != ind.SMA200 {
		t.Errorf("previous SMAs should fall back to current, got %.2f/%.2f", ind.PrevSMA20, ind.PrevSMA200)
	}
	if ind.BollingerUpper != 0 {
		t.Errorf("expected zeroed bands on short series, got %.2f", ind.BollingerUpper)
	}
	if ind.MACDHist != 0 || ind.PrevMACDHist != 0 {
		t.Error("expected zeroed MACD on short series")
	}
	if ind.AvgVolume20 != 500 {
		t.Errorf("expected volume fallback to last volume, got %.1f", ind.AvgVolume20)
	}

	if _, err = BuildIndicatorSet(candles[:1]); err == nil {
		t.Error("expected error below two candles")
	}
}
