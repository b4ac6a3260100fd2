package scoring

import "math"

// clampScore rounds v to the nearest integer and clamps it into [0, 100].
// NaN maps to 0 so no metric can leak an invalid value to the aggregator.
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// clamp01 clamps v into [0, 1]
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
