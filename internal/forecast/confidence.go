package forecast

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// ConfidenceFloor and ConfidenceCeiling bound every confidence score.
	ConfidenceFloor   = 0.70
	ConfidenceCeiling = 0.95

	// RecentDays is how many trailing observations feed the estimate.
	RecentDays = 7

	// DefaultConfidenceDivisor scales the standard deviation. A deviation
	// of 10 degrees C is already extreme, so 15 keeps typical weather well
	// inside the clamp range.
	DefaultConfidenceDivisor = 15
)

// ConfidenceEstimator maps recent temperature variability to a bounded
// confidence score via 1 - sigma/divisor, clamped to
// [ConfidenceFloor, ConfidenceCeiling]. The score is a stability
// heuristic, not a statistically calibrated probability.
type ConfidenceEstimator struct {
	divisor float64
}

// NewConfidenceEstimator creates an estimator with the given scaling
// divisor. Non-positive divisors fall back to the default.
func NewConfidenceEstimator(divisor float64) ConfidenceEstimator {
	if divisor <= 0 {
		divisor = DefaultConfidenceDivisor
	}
	return ConfidenceEstimator{divisor: divisor}
}

// Estimate computes the confidence score from the trailing RecentDays
// values of temps, or all of temps if fewer are supplied. temps must be
// non-empty.
func (e ConfidenceEstimator) Estimate(temps []float64) float64 {
	if len(temps) > RecentDays {
		temps = temps[len(temps)-RecentDays:]
	}

	sigma := stat.PopStdDev(temps, nil)

	confidence := 1 - sigma/e.divisor
	if confidence < ConfidenceFloor {
		return ConfidenceFloor
	}
	if confidence > ConfidenceCeiling {
		return ConfidenceCeiling
	}
	return confidence
}
