package scoring

import (
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

// Volume tags
const (
	TagTooQuiet = "too_quiet"
	TagQuiet    = "quiet"
	TagGood     = "good"
	TagTooLoud  = "too_loud"
)

// Volume scores the average loudness of the whole buffer
func Volume(buf audio.Buffer, th entities.Thresholds) entities.VolumeResult {
	return ScoreVolume(audio.SegmentDB(buf.Samples), th)
}

// ScoreVolume scores a measured level in dB: 0 below Min, 100 from Ideal
// upwards, linear in between.
func ScoreVolume(db float64, th entities.Thresholds) entities.VolumeResult {
	var score int
	switch {
	case db < th.Min:
		score = 0
	case db >= th.Ideal:
		score = 100
	default:
		score = clampScore((db - th.Min) / (th.Ideal - th.Min) * 100)
	}

	return entities.VolumeResult{
		Score: score,
		Tag:   volumeTag(db, th),
		DB:    db,
	}
}

func volumeTag(db float64, th entities.Thresholds) string {
	switch {
	case th.Max > th.Ideal && db > th.Max:
		return TagTooLoud
	case db >= th.Ideal:
		return TagGood
	case db < th.Min:
		return TagTooQuiet
	default:
		return TagQuiet
	}
}
