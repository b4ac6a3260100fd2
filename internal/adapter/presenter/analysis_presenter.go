package presenter

import (
	"github.com/johnquangdev/speech-coach/internal/adapter/dto/analysis"
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
)

// ToAnalysisResponse converts an AnalysisResult entity to its response DTO
func ToAnalysisResponse(r *entities.AnalysisResult) *analysis.AnalysisResponse {
	if r == nil {
		return nil
	}

	metrics := make(map[string]int, entities.MetricCount)
	for _, id := range entities.AllMetrics {
		metrics[id.Key()] = r.Metrics.Get(id)
	}

	feedback := r.Feedback
	if feedback == nil {
		feedback = []string{}
	}

	return &analysis.AnalysisResponse{
		ID:                r.ID.String(),
		OverallScore:      r.OverallScore,
		EmotionalFeedback: string(r.EmotionalFeedback),
		Feedback:          feedback,
		Metrics:           metrics,
		Volume:            r.Volume,
		SpeechRate:        r.SpeechRate,
		Acceleration:      r.Acceleration,
		ResponseLatency:   r.ResponseLatency,
		PauseManagement:   r.PauseManagement,
		Duration:          r.Duration,
		SampleRate:        r.SampleRate,
		AnalyzedAt:        r.AnalyzedAt,
	}
}

// ToConfigResponse converts a metric set to its response DTO
func ToConfigResponse(set entities.MetricSet) *analysis.ConfigResponse {
	defs := make([]analysis.MetricDefinitionResponse, 0, entities.MetricCount)
	for _, d := range set.Definitions() {
		defs = append(defs, analysis.MetricDefinitionResponse{
			Metric: d.ID.Key(),
			Weight: d.Weight,
			Min:    d.Thresholds.Min,
			Ideal:  d.Thresholds.Ideal,
			Max:    d.Thresholds.Max,
			Method: string(d.Method),
		})
	}
	return &analysis.ConfigResponse{
		Definitions: defs,
		TotalWeight: set.TotalWeight(),
	}
}
