package analysis

import (
	"fmt"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
)

// AnalyzeSamplesRequest carries already decoded PCM samples
type AnalyzeSamplesRequest struct {
	Samples     []float64                 `json:"samples" validate:"required,min=1"`
	SampleRate  int                       `json:"sample_rate" validate:"required,gt=0"`
	AudioBase64 string                    `json:"audio_base64,omitempty" validate:"omitempty,base64"`
	ContentType string                    `json:"content_type,omitempty"`
	Definitions []MetricDefinitionRequest `json:"definitions,omitempty" validate:"omitempty,max=5,dive"`
}

// AnalyzeObjectRequest points at a recording in object storage
type AnalyzeObjectRequest struct {
	ObjectKey string `json:"object_key" validate:"required,max=1024"`
}

// MetricDefinitionRequest overrides part of one metric definition. Fields
// left out keep the current value.
type MetricDefinitionRequest struct {
	Metric string   `json:"metric" yaml:"metric" validate:"required"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty" validate:"omitempty,gte=0,lte=100"`
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Ideal  *float64 `json:"ideal,omitempty" yaml:"ideal,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Method string   `json:"method,omitempty" yaml:"method,omitempty" validate:"omitempty,oneof=energy_peaks zero_crossing_rate remote_transcription"`
}

// ApplyDefinitions merges the overrides onto base
func ApplyDefinitions(base entities.MetricSet, reqs []MetricDefinitionRequest) (entities.MetricSet, error) {
	set := base
	for _, r := range reqs {
		id, err := entities.ParseMetricID(r.Metric)
		if err != nil {
			return base, err
		}
		def := set.Get(id)
		if r.Weight != nil {
			def.Weight = *r.Weight
		}
		if r.Min != nil {
			def.Thresholds.Min = *r.Min
		}
		if r.Ideal != nil {
			def.Thresholds.Ideal = *r.Ideal
		}
		if r.Max != nil {
			def.Thresholds.Max = *r.Max
		}
		if r.Method != "" {
			if id != entities.MetricSpeechRate {
				return base, fmt.Errorf("method is only valid for %s", entities.MetricSpeechRate.Key())
			}
			m, err := entities.ParseSpeechRateMethod(r.Method)
			if err != nil {
				return base, err
			}
			def.Method = m
		}
		set = set.With(def)
	}
	return set, nil
}
