package scoring

import (
	"math"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

// Pause tags
const (
	TagFluent        = "fluent"
	TagSomePauses    = "some_pauses"
	TagHesitant      = "hesitant"
	TagTooManyPauses = "too_many_pauses"
	TagPauseTooLong  = "pause_too_long"
)

const (
	pauseWindowSeconds = 0.050
	minPauseSeconds    = 0.150
	pauseCountPenalty  = 30.0
	pauseLengthPenalty = 40.0
	warningPenalty     = 10
)

// DetectPauses finds silent spans of at least 150 ms that start after speech
// onset and end before more speech. Trailing silence is not a pause.
func DetectPauses(buf audio.Buffer) []entities.Pause {
	win := buf.SamplesFor(pauseWindowSeconds)
	minLen := buf.SamplesFor(minPauseSeconds)
	rate := float64(buf.SampleRate)
	n := buf.Len()

	var pauses []entities.Pause
	spoken := false
	silentFrom := -1
	for start := 0; start < n; start += win {
		end := min(start+win, n)
		silent := audio.SegmentDB(buf.Samples[start:end]) < SpeechThresholdDB
		if !silent {
			if silentFrom >= 0 && start-silentFrom >= minLen {
				pauses = append(pauses, entities.Pause{
					Start:    float64(silentFrom) / rate,
					Duration: float64(start-silentFrom) / rate,
				})
			}
			spoken = true
			silentFrom = -1
			continue
		}
		if spoken && silentFrom < 0 {
			silentFrom = start
		}
	}
	return pauses
}

// PauseManagement scores the pause pattern. Thresholds.Min is the maximum
// tolerated pause count and Thresholds.Max the maximum pause length in
// seconds.
func PauseManagement(buf audio.Buffer, th entities.Thresholds) entities.PauseResult {
	return ScorePauses(DetectPauses(buf), th)
}

// ScorePauses scores an already detected pause list
func ScorePauses(pauses []entities.Pause, th entities.Thresholds) entities.PauseResult {
	res := entities.PauseResult{PauseCount: len(pauses), Pauses: pauses}
	if len(pauses) == 0 {
		res.Score = 100
		res.Tag = TagFluent
		return res
	}

	maxCount, maxDuration := th.Min, th.Max
	for _, p := range pauses {
		res.TotalPause += p.Duration
		if p.Duration > res.LongestPause {
			res.LongestPause = p.Duration
		}
		if p.Duration > maxDuration/2 {
			res.WarningPauses++
		}
	}

	res.ExceededCount = float64(res.PauseCount) > maxCount
	res.ExceededLongest = res.LongestPause > maxDuration
	switch {
	case res.ExceededLongest:
		res.Tag = TagPauseTooLong
		return res
	case res.ExceededCount:
		res.Tag = TagTooManyPauses
		return res
	}

	score := 100.0
	if maxCount > 0 {
		score -= float64(res.PauseCount) / maxCount * pauseCountPenalty
	}
	if maxDuration > 0 {
		score -= math.Round(res.LongestPause / maxDuration * pauseLengthPenalty)
	}
	score -= float64(warningPenalty * res.WarningPauses)
	res.Score = clampScore(score)

	res.Tag = TagHesitant
	if res.Score >= 60 {
		res.Tag = TagSomePauses
	}
	return res
}
