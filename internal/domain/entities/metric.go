package entities

import (
	"fmt"
	"strings"
)

// MetricID identifies one of the five scoring metrics
type MetricID int

const (
	MetricVolume MetricID = iota
	MetricSpeechRate
	MetricAcceleration
	MetricResponseLatency
	MetricPauseManagement

	// MetricCount is the number of metrics; the set is closed
	MetricCount = 5
)

// AllMetrics lists every metric in id order
var AllMetrics = [MetricCount]MetricID{
	MetricVolume,
	MetricSpeechRate,
	MetricAcceleration,
	MetricResponseLatency,
	MetricPauseManagement,
}

// FeedbackOrder is the order improvement hints are emitted in
var FeedbackOrder = [MetricCount]MetricID{
	MetricVolume,
	MetricSpeechRate,
	MetricPauseManagement,
	MetricResponseLatency,
	MetricAcceleration,
}

var metricKeys = [MetricCount]string{
	"volume",
	"speechRate",
	"acceleration",
	"responseLatency",
	"pauseManagement",
}

// Key returns the stable camelCase key used in JSON payloads
func (m MetricID) Key() string {
	if !m.IsValid() {
		return fmt.Sprintf("metric(%d)", int(m))
	}
	return metricKeys[m]
}

// String implements fmt.Stringer
func (m MetricID) String() string {
	return m.Key()
}

// IsValid reports whether m is one of the five known metrics
func (m MetricID) IsValid() bool {
	return m >= 0 && int(m) < MetricCount
}

// MarshalText encodes the metric as its key
func (m MetricID) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, ErrUnknownMetric
	}
	return []byte(m.Key()), nil
}

// UnmarshalText accepts any alias understood by ParseMetricID
func (m *MetricID) UnmarshalText(text []byte) error {
	id, err := ParseMetricID(string(text))
	if err != nil {
		return err
	}
	*m = id
	return nil
}

// ParseMetricID maps external metric names onto a MetricID. Matching ignores
// case, spaces, dashes and underscores.
func ParseMetricID(name string) (MetricID, error) {
	switch normalizeName(name) {
	case "volume", "loudness":
		return MetricVolume, nil
	case "speechrate", "rate", "pace", "speakingrate", "speed":
		return MetricSpeechRate, nil
	case "acceleration", "dynamics":
		return MetricAcceleration, nil
	case "responselatency", "latency", "responsetime", "reactiontime":
		return MetricResponseLatency, nil
	case "pausemanagement", "pauses", "pause", "fluency":
		return MetricPauseManagement, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SpeechRateMethod selects the speech-rate estimator
type SpeechRateMethod string

const (
	MethodEnergyPeaks         SpeechRateMethod = "energy_peaks"
	MethodZeroCrossingRate    SpeechRateMethod = "zero_crossing_rate"
	MethodRemoteTranscription SpeechRateMethod = "remote_transcription"
)

// ParseSpeechRateMethod maps a configured method name onto a SpeechRateMethod
func ParseSpeechRateMethod(s string) (SpeechRateMethod, error) {
	switch normalizeName(s) {
	case "", "energypeaks", "energy", "peaks":
		return MethodEnergyPeaks, nil
	case "zerocrossingrate", "zcr", "zerocrossing":
		return MethodZeroCrossingRate, nil
	case "remotetranscription", "transcription", "remote", "stt", "whisper", "assemblyai":
		return MethodRemoteTranscription, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSpeechRateMethod, s)
}

// IsValid reports whether m is a known method
func (m SpeechRateMethod) IsValid() bool {
	switch m {
	case MethodEnergyPeaks, MethodZeroCrossingRate, MethodRemoteTranscription:
		return true
	}
	return false
}

// Thresholds hold the per-metric bounds. Units depend on the metric:
// dB for volume, wpm for speech rate, milliseconds for latency. For pause
// management Min is the maximum pause count and Max the maximum pause
// duration in seconds.
type Thresholds struct {
	Min   float64 `json:"min" yaml:"min"`
	Ideal float64 `json:"ideal" yaml:"ideal"`
	Max   float64 `json:"max" yaml:"max"`
}

// MetricDefinition configures one metric
type MetricDefinition struct {
	ID         MetricID         `json:"id" yaml:"id"`
	Weight     float64          `json:"weight" yaml:"weight"` // percentage 0-100
	Thresholds Thresholds       `json:"thresholds" yaml:"thresholds"`
	Method     SpeechRateMethod `json:"method,omitempty" yaml:"method,omitempty"` // speech rate only
}

// MetricSet holds exactly one definition per MetricID, indexed by id.
// It is a value type so a published snapshot cannot be mutated by readers.
type MetricSet [MetricCount]MetricDefinition

// Get returns the definition for id
func (s MetricSet) Get(id MetricID) MetricDefinition {
	return s[id]
}

// With returns a copy of the set with def replacing the entry for def.ID
func (s MetricSet) With(def MetricDefinition) MetricSet {
	s[def.ID] = def
	return s
}

// Definitions returns the set as a slice ordered by id
func (s MetricSet) Definitions() []MetricDefinition {
	out := make([]MetricDefinition, MetricCount)
	copy(out, s[:])
	return out
}

// TotalWeight sums the configured weights
func (s MetricSet) TotalWeight() float64 {
	var total float64
	for _, d := range s {
		total += d.Weight
	}
	return total
}

// SpeechRateMethod returns the configured estimator, defaulting to energy peaks
func (s MetricSet) SpeechRateMethod() SpeechRateMethod {
	if m := s[MetricSpeechRate].Method; m.IsValid() {
		return m
	}
	return MethodEnergyPeaks
}

// DefaultMetricSet returns the hard-coded fallback definitions
func DefaultMetricSet() MetricSet {
	return MetricSet{
		MetricVolume: {
			ID:         MetricVolume,
			Weight:     20,
			Thresholds: Thresholds{Min: -45, Ideal: -20, Max: 0},
		},
		MetricSpeechRate: {
			ID:         MetricSpeechRate,
			Weight:     25,
			Thresholds: Thresholds{Min: 80, Ideal: 150, Max: 220},
			Method:     MethodEnergyPeaks,
		},
		MetricAcceleration: {
			ID:         MetricAcceleration,
			Weight:     25,
			Thresholds: Thresholds{Min: 0, Ideal: 50, Max: 100},
		},
		MetricResponseLatency: {
			ID:         MetricResponseLatency,
			Weight:     15,
			Thresholds: Thresholds{Min: 2000, Ideal: 200},
		},
		MetricPauseManagement: {
			ID:         MetricPauseManagement,
			Weight:     15,
			Thresholds: Thresholds{Min: 3, Ideal: 0, Max: 2.71},
		},
	}
}

// NewMetricSet builds a set from definitions merged onto the defaults.
// Unknown ids are rejected; missing ids keep their default.
func NewMetricSet(defs []MetricDefinition) (MetricSet, error) {
	set := DefaultMetricSet()
	for _, d := range defs {
		if !d.ID.IsValid() {
			return MetricSet{}, fmt.Errorf("%w: %d", ErrUnknownMetric, int(d.ID))
		}
		if d.ID == MetricSpeechRate && d.Method == "" {
			d.Method = set[MetricSpeechRate].Method
		}
		if d.Method != "" && !d.Method.IsValid() {
			return MetricSet{}, fmt.Errorf("%w: %q", ErrUnknownSpeechRateMethod, d.Method)
		}
		set[d.ID] = d
	}
	return set, nil
}
