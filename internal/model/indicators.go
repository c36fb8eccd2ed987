package model

// IndicatorSet holds all computed technical indicators for one symbol/timeframe.
// Previous-candle values are kept where the strategy checks for crosses.
type IndicatorSet struct {
	LastClose  float64
	PrevClose  float64
	LastVolume float64

	RSI14 float64

	MACD         float64
	MACDSignal   float64
	MACDHist     float64
	PrevMACDHist float64

	SMA20      float64
	SMA50      float64
	SMA200     float64
	PrevSMA20  float64
	PrevSMA50  float64
	PrevSMA200 float64

	BollingerUpper  float64
	BollingerMiddle float64
	BollingerLower  float64

	AvgVolume20 float64
}
