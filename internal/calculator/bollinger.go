package calculator

import (
	"errors"
	"math"
)

// CalculateBollinger computes Bollinger Bands over the most recent `period` closes:
// middle is the SMA, upper/lower sit `mult` standard deviations away.
func CalculateBollinger(closes []float64, period int, mult float64) (upper, middle, lower float64, err error) {
	if period <= 0 {
		return 0, 0, 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, 0, 0, errors.New("not enough data for Bollinger calculation")
	}

	middle, err = CalculateSMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}

	variance := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		diff := closes[i] - middle
		variance += diff * diff
	}
	sd := math.Sqrt(variance / float64(period))

	upper = middle + mult*sd
	lower = middle - mult*sd
	return upper, middle, lower, nil
}
