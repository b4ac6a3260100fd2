package audio

import (
	"errors"
	"math"
)

var (
	// ErrEmptyBuffer is returned when a buffer carries no samples
	ErrEmptyBuffer = errors.New("audio buffer is empty")
	// ErrInvalidSampleRate is returned for zero or negative sample rates
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// Buffer is a decoded mono PCM buffer with samples normalized into [-1, 1].
// Buffers are treated as immutable once captured.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// NewBuffer creates a buffer and validates it
func NewBuffer(samples []float64, sampleRate int) (Buffer, error) {
	b := Buffer{Samples: samples, SampleRate: sampleRate}
	if err := b.Validate(); err != nil {
		return Buffer{}, err
	}
	return b, nil
}

// Validate rejects buffers no score can be computed for
func (b Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if len(b.Samples) == 0 {
		return ErrEmptyBuffer
	}
	return nil
}

// Len returns the number of samples
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the buffer length in seconds
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Slice returns the samples in [from, to) as a new Buffer sharing storage.
// Bounds are clamped to the buffer.
func (b Buffer) Slice(from, to int) Buffer {
	if from < 0 {
		from = 0
	}
	if to > len(b.Samples) {
		to = len(b.Samples)
	}
	if from > to {
		from = to
	}
	return Buffer{Samples: b.Samples[from:to], SampleRate: b.SampleRate}
}

// Split cuts the buffer at its midpoint into two halves
func (b Buffer) Split() (Buffer, Buffer) {
	mid := len(b.Samples) / 2
	return b.Slice(0, mid), b.Slice(mid, len(b.Samples))
}

// SamplesFor converts a duration in seconds into a sample count at the
// buffer's rate, never less than one.
func (b Buffer) SamplesFor(seconds float64) int {
	return SamplesFor(b.SampleRate, seconds)
}

// SamplesFor converts seconds into a sample count at sampleRate, never less than one
func SamplesFor(sampleRate int, seconds float64) int {
	n := int(math.Round(float64(sampleRate) * seconds))
	if n < 1 {
		return 1
	}
	return n
}
