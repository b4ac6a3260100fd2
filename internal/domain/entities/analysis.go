package entities

import (
	"time"

	"github.com/google/uuid"
)

// EmotionalFeedback is the coarse category derived from the overall score
type EmotionalFeedback string

const (
	FeedbackExcellent EmotionalFeedback = "excellent"
	FeedbackGood      EmotionalFeedback = "good"
	FeedbackPoor      EmotionalFeedback = "poor"
)

// ClassifyScore maps an overall score onto its feedback category
func ClassifyScore(score int) EmotionalFeedback {
	switch {
	case score >= 71:
		return FeedbackExcellent
	case score >= 41:
		return FeedbackGood
	default:
		return FeedbackPoor
	}
}

// VolumeResult is the loudness metric
type VolumeResult struct {
	Score int     `json:"score"`
	Tag   string  `json:"tag"`
	DB    float64 `json:"db"`
}

// SpeechRateResult is the speech-rate metric along with the estimator that produced it
type SpeechRateResult struct {
	Score          int              `json:"score"`
	Tag            string           `json:"tag"`
	WordsPerMinute float64          `json:"wpm"`
	Method         SpeechRateMethod `json:"method"`
	EventCount     int              `json:"event_count,omitempty"` // peaks or syllable events
	WordCount      int              `json:"word_count,omitempty"`
	Transcript     string           `json:"transcript,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// Failed reports whether the estimate is a transcription failure
func (r SpeechRateResult) Failed() bool {
	return r.Error != ""
}

// SegmentStats are the measurements of one half of the utterance
type SegmentStats struct {
	VolumeDB       float64 `json:"volume_db"`
	WordsPerMinute float64 `json:"wpm"`
	Duration       float64 `json:"duration"`
}

// AccelerationResult compares the first and second halves of the utterance
type AccelerationResult struct {
	Score          int          `json:"score"`
	Tag            string       `json:"tag"`
	IsAccelerating bool         `json:"is_accelerating"`
	FirstHalf      SegmentStats `json:"first_half"`
	SecondHalf     SegmentStats `json:"second_half"`
	Insufficient   bool         `json:"insufficient,omitempty"`
}

// ResponseLatencyResult is the time to first detected speech
type ResponseLatencyResult struct {
	Score          int     `json:"score"`
	Tag            string  `json:"tag"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	SpeechDetected bool    `json:"speech_detected"`
}

// Pause is a silent span after speech onset
type Pause struct {
	Start    float64 `json:"start"`    // seconds
	Duration float64 `json:"duration"` // seconds
}

// PauseResult is the pause-management metric
type PauseResult struct {
	Score           int     `json:"score"`
	Tag             string  `json:"tag"`
	PauseCount      int     `json:"pause_count"`
	LongestPause    float64 `json:"longest_pause"`
	TotalPause      float64 `json:"total_pause"`
	WarningPauses   int     `json:"warning_pauses"`
	Pauses          []Pause `json:"pauses,omitempty"`
	ExceededCount   bool    `json:"exceeded_count,omitempty"`
	ExceededLongest bool    `json:"exceeded_longest,omitempty"`
}

// MetricScores is the flattened score-only view
type MetricScores struct {
	Volume          int `json:"volume"`
	SpeechRate      int `json:"speechRate"`
	Acceleration    int `json:"acceleration"`
	ResponseLatency int `json:"responseLatency"`
	PauseManagement int `json:"pauseManagement"`
}

// Get returns the score for id
func (m MetricScores) Get(id MetricID) int {
	switch id {
	case MetricVolume:
		return m.Volume
	case MetricSpeechRate:
		return m.SpeechRate
	case MetricAcceleration:
		return m.Acceleration
	case MetricResponseLatency:
		return m.ResponseLatency
	case MetricPauseManagement:
		return m.PauseManagement
	}
	return 0
}

// AnalysisResult is the graded outcome of one utterance
type AnalysisResult struct {
	ID                uuid.UUID             `json:"id"`
	OverallScore      int                   `json:"overall_score"`
	EmotionalFeedback EmotionalFeedback     `json:"emotional_feedback"`
	Feedback          []string              `json:"feedback"`
	Metrics           MetricScores          `json:"metrics"`
	Volume            VolumeResult          `json:"volume"`
	SpeechRate        SpeechRateResult      `json:"speech_rate"`
	Acceleration      AccelerationResult    `json:"acceleration"`
	ResponseLatency   ResponseLatencyResult `json:"response_latency"`
	PauseManagement   PauseResult           `json:"pause_management"`
	Duration          float64               `json:"duration"`
	SampleRate        int                   `json:"sample_rate"`
	AnalyzedAt        time.Time             `json:"analyzed_at"`
}

// Scores builds the flattened view from the per-metric results
func (r *AnalysisResult) Scores() MetricScores {
	return MetricScores{
		Volume:          r.Volume.Score,
		SpeechRate:      r.SpeechRate.Score,
		Acceleration:    r.Acceleration.Score,
		ResponseLatency: r.ResponseLatency.Score,
		PauseManagement: r.PauseManagement.Score,
	}
}
