package entities

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMetricID_Aliases(t *testing.T) {
	tests := map[string]MetricID{
		"volume":           MetricVolume,
		"Speech Rate":      MetricSpeechRate,
		"speech_rate":      MetricSpeechRate,
		"PACE":             MetricSpeechRate,
		"dynamics":         MetricAcceleration,
		"response-latency": MetricResponseLatency,
		"reaction_time":    MetricResponseLatency,
		"pause_management": MetricPauseManagement,
		"pauses":           MetricPauseManagement,
	}
	for name, want := range tests {
		got, err := ParseMetricID(name)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", name, err)
		}
		if got != want {
			t.Fatalf("%q: got %v want %v", name, got, want)
		}
	}
	if _, err := ParseMetricID("charisma"); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestParseSpeechRateMethod(t *testing.T) {
	tests := map[string]SpeechRateMethod{
		"":                     MethodEnergyPeaks,
		"energy_peaks":         MethodEnergyPeaks,
		"ZCR":                  MethodZeroCrossingRate,
		"zero-crossing-rate":   MethodZeroCrossingRate,
		"remote_transcription": MethodRemoteTranscription,
		"whisper":              MethodRemoteTranscription,
	}
	for in, want := range tests {
		got, err := ParseSpeechRateMethod(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v (%v), want %v", in, got, err, want)
		}
	}
	if _, err := ParseSpeechRateMethod("psychic"); !errors.Is(err, ErrUnknownSpeechRateMethod) {
		t.Fatalf("expected ErrUnknownSpeechRateMethod, got %v", err)
	}
}

func TestDefaultMetricSet_CoversEveryMetric(t *testing.T) {
	set := DefaultMetricSet()
	for _, id := range AllMetrics {
		if set.Get(id).ID != id {
			t.Fatalf("default for %v has id %v", id, set.Get(id).ID)
		}
	}
	if set.TotalWeight() != 100 {
		t.Fatalf("default weights should sum to 100, got %v", set.TotalWeight())
	}
	if set.SpeechRateMethod() != MethodEnergyPeaks {
		t.Fatalf("default method should be energy peaks")
	}
	if got := set.Get(MetricPauseManagement).Thresholds.Max; got != 2.71 {
		t.Fatalf("default max pause duration = %v", got)
	}
}

func TestNewMetricSet(t *testing.T) {
	set, err := NewMetricSet([]MetricDefinition{
		{ID: MetricVolume, Weight: 40, Thresholds: Thresholds{Min: -50, Ideal: -25, Max: -5}},
		{ID: MetricSpeechRate, Weight: 10, Thresholds: Thresholds{Min: 90, Ideal: 140, Max: 200}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Get(MetricVolume).Weight != 40 {
		t.Fatalf("volume override not applied")
	}
	if set.SpeechRateMethod() != MethodEnergyPeaks {
		t.Fatalf("missing method should keep default")
	}
	if set.Get(MetricPauseManagement) != DefaultMetricSet().Get(MetricPauseManagement) {
		t.Fatalf("missing ids should keep defaults")
	}

	if _, err := NewMetricSet([]MetricDefinition{{ID: MetricID(9)}}); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
	if _, err := NewMetricSet([]MetricDefinition{{ID: MetricSpeechRate, Method: "tarot"}}); !errors.Is(err, ErrUnknownSpeechRateMethod) {
		t.Fatalf("expected ErrUnknownSpeechRateMethod, got %v", err)
	}
}

func TestMetricSet_WithDoesNotMutateOriginal(t *testing.T) {
	base := DefaultMetricSet()
	changed := base.With(MetricDefinition{ID: MetricVolume, Weight: 99})
	if base.Get(MetricVolume).Weight != 20 {
		t.Fatalf("With mutated the receiver")
	}
	if changed.Get(MetricVolume).Weight != 99 {
		t.Fatalf("With did not apply")
	}
}

func TestMergeMetricConfigs_PartialOverrides(t *testing.T) {
	maxDur := 2.0
	minDB := -50.0
	rows := []MetricConfig{
		{Name: "pause_management", Weight: 0.10, MaxValue: &maxDur},
		{Name: "volume", Weight: 0.30, MinValue: &minDB},
		{Name: "speech_rate", Weight: 0.25, Settings: map[string]interface{}{"method": "zcr", "ideal": 140.0}},
		{Name: "eye_contact", Weight: 0.5},
	}
	set, unknown := MergeMetricConfigs(rows)

	pause := set.Get(MetricPauseManagement)
	if pause.Weight != 10 || pause.Thresholds.Max != 2 {
		t.Fatalf("pause override wrong: %+v", pause)
	}
	if pause.Thresholds.Min != 3 {
		t.Fatalf("unspecified min should keep default, got %v", pause.Thresholds.Min)
	}

	vol := set.Get(MetricVolume)
	if vol.Weight != 30 || vol.Thresholds.Min != -50 || vol.Thresholds.Ideal != -20 || vol.Thresholds.Max != 0 {
		t.Fatalf("volume merge wrong: %+v", vol)
	}

	rate := set.Get(MetricSpeechRate)
	if rate.Method != MethodZeroCrossingRate || rate.Thresholds.Ideal != 140 || rate.Thresholds.Min != 80 {
		t.Fatalf("speech rate merge wrong: %+v", rate)
	}

	if set.Get(MetricAcceleration) != DefaultMetricSet().Get(MetricAcceleration) {
		t.Fatalf("missing row should keep default")
	}
	if len(unknown) != 1 || unknown[0] != "eye_contact" {
		t.Fatalf("expected eye_contact to be reported unknown, got %v", unknown)
	}
}

func TestWeightPercent(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.2, 20},
		{0.15, 15},
		{1, 100},
		{25, 25},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := weightPercent(tt.in); got != tt.want {
			t.Fatalf("weightPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassifyScore(t *testing.T) {
	tests := map[int]EmotionalFeedback{
		100: FeedbackExcellent,
		71:  FeedbackExcellent,
		70:  FeedbackGood,
		41:  FeedbackGood,
		40:  FeedbackPoor,
		0:   FeedbackPoor,
	}
	for score, want := range tests {
		if got := ClassifyScore(score); got != want {
			t.Fatalf("ClassifyScore(%d) = %v, want %v", score, got, want)
		}
	}
}

func TestMetricConfig_IdealFromDatabaseNumber(t *testing.T) {
	row := MetricConfig{Name: "latency", Settings: map[string]interface{}{"ideal": json.Number("350")}}
	ideal, ok := row.Ideal()
	if !ok || ideal != 350 {
		t.Fatalf("expected 350, got %v/%v", ideal, ok)
	}
}
