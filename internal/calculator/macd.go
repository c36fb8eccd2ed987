package calculator

import "errors"

// CalculateMACD computes the MACD line (fast EMA - slow EMA), its signal line
// (EMA of the MACD line) and the histogram (line - signal) over the given closes.
func CalculateMACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (macdLine, signalLine, histogram []float64, err error) {
	if fastPeriod <= 0 || slowPeriod <= 0 || signalPeriod <= 0 {
		return nil, nil, nil, errors.New("periods must be positive")
	}
	if fastPeriod >= slowPeriod {
		return nil, nil, nil, errors.New("fast period must be shorter than slow period")
	}
	if len(closes) < slowPeriod+signalPeriod {
		return nil, nil, nil, errors.New("not enough data for MACD calculation")
	}

	emaFast, err := CalculateEMA(closes, fastPeriod)
	if err != nil {
		return nil, nil, nil, err
	}
	emaSlow, err := CalculateEMA(closes, slowPeriod)
	if err != nil {
		return nil, nil, nil, err
	}

	macdLine = make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}
	signalLine, err = CalculateEMA(macdLine, signalPeriod)
	if err != nil {
		return nil, nil, nil, err
	}
	histogram = make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}
	return macdLine, signalLine, histogram, nil
}
