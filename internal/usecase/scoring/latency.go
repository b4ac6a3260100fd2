package scoring

import (
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

// Latency tags
const (
	TagInstant  = "instant"
	TagPrompt   = "prompt"
	TagDelayed  = "delayed"
	TagNoSpeech = "no_speech"
)

const (
	latencyStepSeconds   = 0.050
	latencyWindowSeconds = 0.200
	// SpeechThresholdDB separates speech from silence for onset and pause detection
	SpeechThresholdDB = -45.0
)

// DetectOnset returns the sample offset of the first window louder than
// SpeechThresholdDB, scanning in 50 ms steps with a 200 ms window.
func DetectOnset(buf audio.Buffer) (int, bool) {
	step := buf.SamplesFor(latencyStepSeconds)
	win := buf.SamplesFor(latencyWindowSeconds)
	n := buf.Len()
	for start := 0; start < n; start += step {
		end := min(start+win, n)
		if audio.SegmentDB(buf.Samples[start:end]) > SpeechThresholdDB {
			return start, true
		}
	}
	return n, false
}

// ResponseLatency measures the time to speech onset. Without speech the
// whole clip counts as latency.
func ResponseLatency(buf audio.Buffer, th entities.Thresholds) entities.ResponseLatencyResult {
	onset, found := DetectOnset(buf)
	ms := float64(onset) / float64(buf.SampleRate) * 1000

	res := ScoreLatency(ms, th)
	res.SpeechDetected = found
	if !found {
		res.Tag = TagNoSpeech
	}
	return res
}

// ScoreLatency scores a latency in ms: 100 at or below Ideal, 0 at or above
// Min, linear in between.
func ScoreLatency(ms float64, th entities.Thresholds) entities.ResponseLatencyResult {
	instant, poor := th.Ideal, th.Min

	var score int
	switch {
	case ms <= instant:
		score = 100
	case ms >= poor:
		score = 0
	default:
		score = clampScore((poor - ms) / (poor - instant) * 100)
	}

	tag := TagDelayed
	switch {
	case ms <= instant:
		tag = TagInstant
	case score >= 60:
		tag = TagPrompt
	}

	return entities.ResponseLatencyResult{
		Score:          score,
		Tag:            tag,
		ResponseTimeMs: ms,
		SpeechDetected: true,
	}
}
