package scoring

import (
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
)

// feedbackThreshold is the score below which a metric gets an improvement hint
const feedbackThreshold = 60

// OverallScore is the weighted sum of the metric scores, rounded and capped
// at 100. Weights are percentages and are not normalized, so a set whose
// weights do not total 100 scales the result accordingly.
func OverallScore(scores entities.MetricScores, set entities.MetricSet) int {
	total := 0.0
	for _, id := range entities.AllMetrics {
		w := set.Get(id).Weight
		if w <= 0 {
			continue
		}
		total += float64(scores.Get(id)) * w / 100
	}
	return clampScore(total)
}

// Feedback returns one hint per metric scoring below 60, in the order
// volume, speech rate, pauses, latency, acceleration. When nothing needs
// work it returns a single encouraging line graded by the overall score.
func Feedback(result *entities.AnalysisResult) []string {
	var hints []string
	for _, id := range entities.FeedbackOrder {
		if result.Metrics.Get(id) < feedbackThreshold {
			hints = append(hints, hint(id, result))
		}
	}
	if len(hints) > 0 {
		return hints
	}

	switch {
	case result.OverallScore >= 90:
		return []string{"Outstanding delivery! Your voice is strong, clear and confident."}
	case result.OverallScore >= 70:
		return []string{"Great job! Keep practicing to make your delivery even more energetic."}
	default:
		return []string{"Good effort! Keep practicing to build more confidence."}
	}
}

func hint(id entities.MetricID, r *entities.AnalysisResult) string {
	switch id {
	case entities.MetricVolume:
		if r.Volume.Tag == TagTooLoud {
			return "Lower your volume a little; you are close to shouting."
		}
		return "Speak louder and project your voice so every word is heard clearly."
	case entities.MetricSpeechRate:
		switch {
		case r.SpeechRate.Failed():
			return "We could not measure your speaking rate this time; please try again."
		case r.SpeechRate.Tag == TagTooFast:
			return "Slow down slightly so each word lands clearly."
		}
		return "Pick up the pace a little; aim for a steady, confident speaking rate."
	case entities.MetricPauseManagement:
		if r.PauseManagement.ExceededLongest || r.PauseManagement.Tag == TagPauseTooLong {
			return "Avoid long silences; keep each pause short."
		}
		return "Reduce the number of pauses to keep your answer flowing."
	case entities.MetricResponseLatency:
		if !r.ResponseLatency.SpeechDetected {
			return "We could not hear you; start speaking right after the prompt."
		}
		return "Start speaking sooner after the prompt to show confidence."
	case entities.MetricAcceleration:
		return "Build energy towards the end: finish louder and a bit faster than you started."
	}
	return ""
}

// Aggregate fills the derived fields of result from its metric results
func Aggregate(result *entities.AnalysisResult, set entities.MetricSet) {
	result.Metrics = result.Scores()
	result.OverallScore = OverallScore(result.Metrics, set)
	result.EmotionalFeedback = entities.ClassifyScore(result.OverallScore)
	result.Feedback = Feedback(result)
}
