package audio

import "math"

// SilenceFloor is the minimum RMS used before converting to decibels, so
// digital silence maps to -100 dB instead of -Inf.
const SilenceFloor = 1e-5

// RMS returns the root-mean-square amplitude of samples
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// ToDB converts an RMS amplitude into dBFS using the silence floor
func ToDB(rms float64) float64 {
	return 20 * math.Log10(math.Max(rms, SilenceFloor))
}

// SegmentDB is the loudness of a slice of samples in dBFS.
// Every metric measures loudness through this function.
func SegmentDB(samples []float64) float64 {
	return ToDB(RMS(samples))
}

// ZeroCrossingRate returns the fraction of adjacent sample pairs that change sign
func ZeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

// WindowDB computes SegmentDB over consecutive non-overlapping windows of
// size samples. A trailing partial window is dropped.
func WindowDB(samples []float64, size int) []float64 {
	if size <= 0 || len(samples) < size {
		return nil
	}
	out := make([]float64, 0, len(samples)/size)
	for start := 0; start+size <= len(samples); start += size {
		out = append(out, SegmentDB(samples[start:start+size]))
	}
	return out
}
