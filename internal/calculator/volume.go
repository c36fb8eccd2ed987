package calculator

import "errors"

// CalculateAvgVolume returns the average volume over the most recent `period` candles.
func CalculateAvgVolume(volumes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(volumes) < period {
		return 0, errors.New("not enough data for volume average")
	}

	sum := 0.0
	for i := len(volumes) - period; i < len(volumes); i++ {
		sum += volumes[i]
	}
	return sum / float64(period), nil
}
