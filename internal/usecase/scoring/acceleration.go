package scoring

import (
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

// Acceleration tags
const (
	TagAccelerating = "accelerating"
	TagPartial      = "partial"
	TagFlat         = "flat"
	TagInsufficient = "insufficient_audio"
)

const (
	minSegmentSeconds = 0.5
	accelFloorDB      = -40.0
	insufficientScore = 50
	accelBaseScore    = 50.0
	accelVolumeCredit = 25.0
	accelRateCredit   = 25.0
	partialAccelScore = 30
	noAccelScore      = 10
)

// Acceleration compares loudness and pace between the two halves of the
// utterance. Speakers gaining energy towards the end score highest.
func Acceleration(buf audio.Buffer, volume, rate entities.Thresholds) entities.AccelerationResult {
	first, second := buf.Split()
	if first.Duration() < minSegmentSeconds || second.Duration() < minSegmentSeconds {
		return entities.AccelerationResult{
			Score:        insufficientScore,
			Tag:          TagInsufficient,
			Insufficient: true,
		}
	}

	a := segmentStats(first)
	b := segmentStats(second)
	res := entities.AccelerationResult{FirstHalf: a, SecondHalf: b}

	louder := b.VolumeDB > a.VolumeDB
	faster := b.WordsPerMinute > a.WordsPerMinute

	switch {
	case louder && faster:
		res.IsAccelerating = true
		res.Tag = TagAccelerating
		res.Score = clampScore(accelBaseScore + volumeCredit(b.VolumeDB, volume.Ideal) + rateCredit(b.WordsPerMinute, rate.Ideal))
	case louder || faster:
		res.Tag = TagPartial
		res.Score = partialAccelScore
	default:
		res.Tag = TagFlat
		res.Score = noAccelScore
	}
	return res
}

func segmentStats(seg audio.Buffer) entities.SegmentStats {
	db := audio.SegmentDB(seg.Samples)
	est := EnergyPeakEstimator{}.EstimateBuffer(seg, db)
	return entities.SegmentStats{
		VolumeDB:       db,
		WordsPerMinute: est.WordsPerMinute,
		Duration:       seg.Duration(),
	}
}

// volumeCredit is full when the second half reaches the ideal level and
// partial from the -40 dB floor upwards
func volumeCredit(db, ideal float64) float64 {
	if db >= ideal {
		return accelVolumeCredit
	}
	if ideal <= accelFloorDB {
		return 0
	}
	return accelVolumeCredit * clamp01((db-accelFloorDB)/(ideal-accelFloorDB))
}

func rateCredit(wpm, ideal float64) float64 {
	if ideal <= 0 || wpm >= ideal {
		return accelRateCredit
	}
	return accelRateCredit * clamp01(wpm/ideal)
}
