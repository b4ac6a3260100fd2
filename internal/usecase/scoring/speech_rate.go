package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/ai"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

// Speech rate tags
const (
	TagTooSlow            = "too_slow"
	TagSlow               = "slow"
	TagTooFast            = "too_fast"
	TagTranscriptionError = "transcription_error"
)

// TranscriptionErrorMarker prefixes the transcript field of a failed remote estimate
const TranscriptionErrorMarker = "[transcription error]"

const (
	peakWindowSeconds  = 0.020
	peakSpacingSeconds = 0.100
	loudVolumeDB       = -10.0
	quietVolumeDB      = -40.0
	loudPeakThreshold  = -30.0
	quietPeakOffset    = 5.0
	wordsPerSyllable   = 0.6

	zcrFrameSeconds    = 0.025
	zcrHopSeconds      = 0.010
	zcrSpacingSeconds  = 0.080
	zcrEnergyRatio     = 0.1
	zcrMinRate         = 0.02
	zcrMaxRate         = 0.35
	syllablesPerWordZC = 1.5
)

// Input is one utterance to analyze
type Input struct {
	Buffer      audio.Buffer
	RawAudio    []byte // original encoded bytes, only needed for remote transcription
	ContentType string
	// VolumeDB is the precomputed overall level; zero means not computed
	VolumeDB float64
}

// RateEstimate is the raw output of a speech-rate estimator
type RateEstimate struct {
	WordsPerMinute float64
	Method         entities.SpeechRateMethod
	EventCount     int
	WordCount      int
	Transcript     string
}

// SpeechRateEstimator turns an utterance into a words-per-minute estimate
type SpeechRateEstimator interface {
	Method() entities.SpeechRateMethod
	Estimate(ctx context.Context, in Input) (RateEstimate, error)
}

// ScoreSpeechRate applies the shared speech-rate curve: 100 at or above
// Ideal, at most 50 below Min, and 50..100 linearly between Min and Ideal.
func ScoreSpeechRate(wpm float64, th entities.Thresholds) int {
	switch {
	case wpm >= th.Ideal:
		return 100
	case wpm < th.Min:
		if th.Min <= 0 {
			return 0
		}
		return clampScore(min(wpm/th.Min*50, 50))
	default:
		return clampScore(50 + (wpm-th.Min)/(th.Ideal-th.Min)*50)
	}
}

// SpeechRate converts an estimate into the metric result
func SpeechRate(est RateEstimate, th entities.Thresholds) entities.SpeechRateResult {
	return entities.SpeechRateResult{
		Score:          ScoreSpeechRate(est.WordsPerMinute, th),
		Tag:            speechRateTag(est.WordsPerMinute, th),
		WordsPerMinute: est.WordsPerMinute,
		Method:         est.Method,
		EventCount:     est.EventCount,
		WordCount:      est.WordCount,
		Transcript:     est.Transcript,
	}
}

// SpeechRateFailure is the result reported when an estimator could not run
func SpeechRateFailure(method entities.SpeechRateMethod, err error) entities.SpeechRateResult {
	return entities.SpeechRateResult{
		Score:      0,
		Tag:        TagTranscriptionError,
		Method:     method,
		Transcript: fmt.Sprintf("%s %v", TranscriptionErrorMarker, err),
		Error:      err.Error(),
	}
}

func speechRateTag(wpm float64, th entities.Thresholds) string {
	switch {
	case wpm < th.Min:
		return TagTooSlow
	case wpm < th.Ideal:
		return TagSlow
	case th.Max > 0 && wpm > th.Max:
		return TagTooFast
	default:
		return TagGood
	}
}

// EnergyPeakEstimator counts loudness peaks as syllables
type EnergyPeakEstimator struct{}

// Method implements SpeechRateEstimator
func (EnergyPeakEstimator) Method() entities.SpeechRateMethod {
	return entities.MethodEnergyPeaks
}

// Estimate implements SpeechRateEstimator. It never blocks.
func (e EnergyPeakEstimator) Estimate(_ context.Context, in Input) (RateEstimate, error) {
	volume := in.VolumeDB
	if volume == 0 {
		volume = audio.SegmentDB(in.Buffer.Samples)
	}
	return e.EstimateBuffer(in.Buffer, volume), nil
}

// EstimateBuffer runs the estimator on buf whose overall level is volumeDB
func (EnergyPeakEstimator) EstimateBuffer(buf audio.Buffer, volumeDB float64) RateEstimate {
	peaks := countEnergyPeaks(buf, volumeDB)
	est := RateEstimate{Method: entities.MethodEnergyPeaks, EventCount: peaks}
	if d := buf.Duration(); d > 0 {
		syllablesPerSecond := float64(peaks) / d
		est.WordsPerMinute = syllablesPerSecond * 60 * wordsPerSyllable
	}
	return est
}

// PeakThreshold is the detection level for a buffer whose overall level is
// volumeDB. Loud recordings use a fixed floor, very quiet ones track the
// volume, and levels in between are interpolated.
func PeakThreshold(volumeDB float64) float64 {
	quietThreshold := quietVolumeDB + quietPeakOffset
	switch {
	case volumeDB >= loudVolumeDB:
		return loudPeakThreshold
	case volumeDB <= quietVolumeDB:
		return volumeDB + quietPeakOffset
	}
	t := (volumeDB - quietVolumeDB) / (loudVolumeDB - quietVolumeDB)
	return quietThreshold + t*(loudPeakThreshold-quietThreshold)
}

func countEnergyPeaks(buf audio.Buffer, volumeDB float64) int {
	win := buf.SamplesFor(peakWindowSeconds)
	spacing := buf.SamplesFor(peakSpacingSeconds)
	levels := audio.WindowDB(buf.Samples, win)
	threshold := PeakThreshold(volumeDB)

	peaks := 0
	lastPeak := -1
	for i := 1; i < len(levels)-1; i++ {
		db := levels[i]
		if db <= threshold || db <= levels[i-1] || db <= levels[i+1] {
			continue
		}
		if lastPeak >= 0 && (i-lastPeak)*win < spacing {
			continue
		}
		peaks++
		lastPeak = i
	}
	return peaks
}

// ZeroCrossingEstimator detects voiced syllables from frame energy and
// zero-crossing rate
type ZeroCrossingEstimator struct{}

// Method implements SpeechRateEstimator
func (ZeroCrossingEstimator) Method() entities.SpeechRateMethod {
	return entities.MethodZeroCrossingRate
}

// Estimate implements SpeechRateEstimator. It never blocks.
func (ZeroCrossingEstimator) Estimate(_ context.Context, in Input) (RateEstimate, error) {
	buf := in.Buffer
	events := countVoicedEvents(buf)
	est := RateEstimate{Method: entities.MethodZeroCrossingRate, EventCount: events}
	if d := buf.Duration(); d > 0 {
		est.WordsPerMinute = float64(events) / d * 60 / syllablesPerWordZC
	}
	return est, nil
}

func countVoicedEvents(buf audio.Buffer) int {
	frame := buf.SamplesFor(zcrFrameSeconds)
	hop := buf.SamplesFor(zcrHopSeconds)
	n := buf.Len()
	if n < frame {
		return 0
	}

	var energies, rates []float64
	maxEnergy := 0.0
	for start := 0; start+frame <= n; start += hop {
		f := buf.Samples[start : start+frame]
		e := audio.RMS(f)
		energies = append(energies, e)
		rates = append(rates, audio.ZeroCrossingRate(f))
		if e > maxEnergy {
			maxEnergy = e
		}
	}
	if maxEnergy <= 0 {
		return 0
	}

	voiced := func(i int) bool {
		return energies[i] > zcrEnergyRatio*maxEnergy && rates[i] >= zcrMinRate && rates[i] <= zcrMaxRate
	}

	rate := float64(buf.SampleRate)
	events := 0
	lastEvent := -1.0
	for i := 0; i < len(energies); {
		if !voiced(i) {
			i++
			continue
		}
		runStart := i
		for i < len(energies) && voiced(i) {
			i++
		}
		runEnd := i - 1

		mid := float64(runStart+runEnd) / 2
		at := (mid*float64(hop) + float64(frame)/2) / rate
		if lastEvent >= 0 && at-lastEvent < zcrSpacingSeconds {
			continue
		}
		events++
		lastEvent = at
	}
	return events
}

// RemoteEstimator derives the rate from a remote transcription. It is the
// only estimator that performs I/O.
type RemoteEstimator struct {
	transcriber ai.Transcriber
	timeout     time.Duration
}

// NewRemoteEstimator creates a remote estimator; timeout <= 0 relies on ctx alone
func NewRemoteEstimator(t ai.Transcriber, timeout time.Duration) *RemoteEstimator {
	return &RemoteEstimator{transcriber: t, timeout: timeout}
}

// Method implements SpeechRateEstimator
func (*RemoteEstimator) Method() entities.SpeechRateMethod {
	return entities.MethodRemoteTranscription
}

// Estimate implements SpeechRateEstimator
func (e *RemoteEstimator) Estimate(ctx context.Context, in Input) (RateEstimate, error) {
	if e == nil || e.transcriber == nil {
		return RateEstimate{}, entities.ErrTranscriptionUnavailable
	}
	if len(in.RawAudio) == 0 {
		return RateEstimate{}, entities.ErrNoRawAudio
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	tr, err := e.transcriber.Transcribe(ctx, in.RawAudio, in.ContentType)
	if err != nil {
		return RateEstimate{}, fmt.Errorf("%s: %w", e.transcriber.Name(), err)
	}
	if tr == nil {
		return RateEstimate{}, fmt.Errorf("%s: empty transcription", e.transcriber.Name())
	}

	words := tr.Words()
	wpm := tr.WordsPerMinute
	if wpm <= 0 {
		duration := tr.Duration
		if duration <= 0 {
			duration = in.Buffer.Duration()
		}
		if duration > 0 {
			wpm = float64(words) / duration * 60
		}
	}

	return RateEstimate{
		WordsPerMinute: wpm,
		Method:         entities.MethodRemoteTranscription,
		WordCount:      words,
		Transcript:     tr.Text,
	}, nil
}
