package analysis

import (
	"time"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
)

// AnalysisResponse is the graded result returned by the analyses endpoints
type AnalysisResponse struct {
	ID                string                         `json:"id"`
	OverallScore      int                            `json:"overall_score"`
	EmotionalFeedback string                         `json:"emotional_feedback"`
	Feedback          []string                       `json:"feedback"`
	Metrics           map[string]int                 `json:"metrics"`
	Volume            entities.VolumeResult          `json:"volume"`
	SpeechRate        entities.SpeechRateResult      `json:"speech_rate"`
	Acceleration      entities.AccelerationResult    `json:"acceleration"`
	ResponseLatency   entities.ResponseLatencyResult `json:"response_latency"`
	PauseManagement   entities.PauseResult           `json:"pause_management"`
	Duration          float64                        `json:"duration"`
	SampleRate        int                            `json:"sample_rate"`
	AnalyzedAt        time.Time                      `json:"analyzed_at"`
}

// MetricDefinitionResponse is one active metric definition
type MetricDefinitionResponse struct {
	Metric string  `json:"metric"`
	Weight float64 `json:"weight"`
	Min    float64 `json:"min"`
	Ideal  float64 `json:"ideal"`
	Max    float64 `json:"max"`
	Method string  `json:"method,omitempty"`
}

// ConfigResponse lists the definitions currently used for grading
type ConfigResponse struct {
	Definitions []MetricDefinitionResponse `json:"definitions"`
	TotalWeight float64                    `json:"total_weight"`
}
