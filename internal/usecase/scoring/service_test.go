package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/ai"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

type fakeTranscriber struct {
	result *ai.Transcription
	err    error
	audio  []byte
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, data []byte, contentType string) (*ai.Transcription, error) {
	f.audio = data
	return f.result, f.err
}

func withMethod(set entities.MetricSet, m entities.SpeechRateMethod) entities.MetricSet {
	def := set.Get(entities.MetricSpeechRate)
	def.Method = m
	return set.With(def)
}

func TestService_SilentBuffer(t *testing.T) {
	svc := NewService(nil, nil, 0, nil)
	buf := audio.Buffer{Samples: make([]float64, 32000), SampleRate: 16000}

	res, err := svc.AnalyzeWithDefinitions(context.Background(), Input{Buffer: buf}, entities.DefaultMetricSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Volume.Score != 0 {
		t.Errorf("volume: expected 0, got %d", res.Volume.Score)
	}
	if res.PauseManagement.Score != 100 {
		t.Errorf("pauses: expected 100, got %d", res.PauseManagement.Score)
	}
	if res.ResponseLatency.Score != 0 || res.ResponseLatency.SpeechDetected {
		t.Errorf("latency: expected 0 without speech, got %+v", res.ResponseLatency)
	}
	if res.SpeechRate.Score != 0 {
		t.Errorf("speech rate: expected 0, got %d", res.SpeechRate.Score)
	}
	if res.Acceleration.Score != 10 {
		t.Errorf("acceleration: expected 10, got %d", res.Acceleration.Score)
	}
	// 10*0.25 + 100*0.15
	if res.OverallScore != 18 || res.EmotionalFeedback != entities.FeedbackPoor {
		t.Errorf("overall: expected 18/poor, got %d/%s", res.OverallScore, res.EmotionalFeedback)
	}
	if res.Duration != 2 || res.SampleRate != 16000 {
		t.Errorf("unexpected metadata %v/%d", res.Duration, res.SampleRate)
	}
}

func TestService_SteadyDelivery(t *testing.T) {
	mock := clock.NewMock()
	svc := NewService(nil, nil, 0, nil, WithServiceClock(mock))

	res, err := svc.AnalyzeWithDefinitions(context.Background(), Input{Buffer: steadyBurstBuffer()}, entities.DefaultMetricSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := entities.MetricScores{Volume: 100, SpeechRate: 100, Acceleration: 30, ResponseLatency: 100, PauseManagement: 100}
	if res.Metrics != want {
		t.Fatalf("expected %+v, got %+v", want, res.Metrics)
	}
	if res.SpeechRate.Method != entities.MethodEnergyPeaks {
		t.Errorf("expected energy peaks, got %s", res.SpeechRate.Method)
	}
	if res.OverallScore != 83 || res.EmotionalFeedback != entities.FeedbackExcellent {
		t.Errorf("expected 83/excellent, got %d/%s", res.OverallScore, res.EmotionalFeedback)
	}
	if len(res.Feedback) != 1 || !strings.Contains(res.Feedback[0], "Build energy") {
		t.Errorf("expected only the acceleration hint, got %v", res.Feedback)
	}
	if !res.AnalyzedAt.Equal(mock.Now()) {
		t.Errorf("timestamp should come from the injected clock")
	}
}

func TestService_ConfigFailureFallsBackToDefaults(t *testing.T) {
	src := &fakeSource{err: errors.New("database unavailable")}
	svc := NewService(NewConfigManager(src), nil, 0, nil)

	res, err := svc.Analyze(context.Background(), Input{Buffer: steadyBurstBuffer()})
	if err != nil {
		t.Fatalf("config failure must not surface: %v", err)
	}
	if src.count() != 1 {
		t.Fatalf("expected a config fetch, got %d", src.count())
	}
	if res.OverallScore != OverallScore(res.Metrics, entities.DefaultMetricSet()) {
		t.Fatalf("result should be graded with the default weights")
	}
	if res.OverallScore != 83 {
		t.Fatalf("expected 83, got %d", res.OverallScore)
	}
}

func TestService_UsesConfiguredEstimator(t *testing.T) {
	src := &fakeSource{rows: []entities.MetricConfig{{
		Name:     "speech_rate",
		Weight:   0.25,
		Settings: map[string]interface{}{"method": "zero_crossing_rate"},
	}}}
	svc := NewService(NewConfigManager(src), nil, 0, nil)

	res, err := svc.Analyze(context.Background(), Input{Buffer: syllableBursts()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SpeechRate.Method != entities.MethodZeroCrossingRate {
		t.Fatalf("expected zero crossing estimator, got %s", res.SpeechRate.Method)
	}
	if res.SpeechRate.EventCount != 20 || res.SpeechRate.Score != 100 {
		t.Fatalf("unexpected speech rate %+v", res.SpeechRate)
	}
}

func TestService_RemoteTranscription(t *testing.T) {
	tr := &fakeTranscriber{result: &ai.Transcription{Text: "hello", WordCount: 20, Duration: 8}}
	svc := NewService(nil, tr, time.Second, nil)
	set := withMethod(entities.DefaultMetricSet(), entities.MethodRemoteTranscription)

	in := Input{Buffer: steadyBurstBuffer(), RawAudio: []byte("RIFF"), ContentType: audio.WAVContentType}
	res, err := svc.AnalyzeWithDefinitions(context.Background(), in, set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(tr.audio) != "RIFF" {
		t.Fatalf("raw audio not forwarded")
	}
	if res.SpeechRate.WordsPerMinute != 150 || res.SpeechRate.Score != 100 {
		t.Fatalf("expected 150 wpm / 100, got %+v", res.SpeechRate)
	}
	if res.SpeechRate.Transcript != "hello" || res.SpeechRate.WordCount != 20 {
		t.Fatalf("transcript not reported: %+v", res.SpeechRate)
	}
}

func TestService_RemoteTranscriptionPrefersReportedRate(t *testing.T) {
	tr := &fakeTranscriber{result: &ai.Transcription{Text: "a b c", WordsPerMinute: 90}}
	svc := NewService(nil, tr, 0, nil)
	set := withMethod(entities.DefaultMetricSet(), entities.MethodRemoteTranscription)

	res, _ := svc.AnalyzeWithDefinitions(context.Background(), Input{Buffer: steadyBurstBuffer(), RawAudio: []byte{1}}, set)
	if res.SpeechRate.WordsPerMinute != 90 || res.SpeechRate.WordCount != 3 {
		t.Fatalf("unexpected estimate %+v", res.SpeechRate)
	}
	// 50 + 10/70*50
	if res.SpeechRate.Score != 57 {
		t.Fatalf("expected 57, got %d", res.SpeechRate.Score)
	}
}

func TestService_RemoteTranscriptionFailures(t *testing.T) {
	set := withMethod(entities.DefaultMetricSet(), entities.MethodRemoteTranscription)
	tests := []struct {
		name string
		svc  *Service
		raw  []byte
		want error
	}{
		{"service error", NewService(nil, &fakeTranscriber{err: errors.New("502 bad gateway")}, 0, nil), []byte{1}, nil},
		{"no raw audio", NewService(nil, &fakeTranscriber{result: &ai.Transcription{}}, 0, nil), nil, entities.ErrNoRawAudio},
		{"not configured", NewService(nil, nil, 0, nil), []byte{1}, entities.ErrTranscriptionUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.svc.AnalyzeWithDefinitions(context.Background(), Input{Buffer: steadyBurstBuffer(), RawAudio: tt.raw}, set)
			if err != nil {
				t.Fatalf("transcription failures must not fail the analysis: %v", err)
			}
			sr := res.SpeechRate
			if sr.Score != 0 || !sr.Failed() || sr.Tag != TagTranscriptionError {
				t.Fatalf("expected failure marker, got %+v", sr)
			}
			if !strings.HasPrefix(sr.Transcript, TranscriptionErrorMarker) {
				t.Fatalf("transcript should carry the error marker: %q", sr.Transcript)
			}
			if tt.want != nil && !strings.Contains(sr.Error, tt.want.Error()) {
				t.Fatalf("expected %q in %q", tt.want, sr.Error)
			}
			if res.Volume.Score != 100 {
				t.Fatalf("other metrics should still be computed")
			}
		})
	}
}

func TestService_InvalidInput(t *testing.T) {
	svc := NewService(nil, nil, 0, nil)
	tests := []struct {
		name string
		buf  audio.Buffer
		want error
	}{
		{"empty", audio.Buffer{SampleRate: 16000}, entities.ErrEmptyAudio},
		{"zero rate", audio.Buffer{Samples: []float64{0.1}}, entities.ErrInvalidSampleRate},
		{"negative rate", audio.Buffer{Samples: []float64{0.1}, SampleRate: -1}, entities.ErrInvalidSampleRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), Input{Buffer: tt.buf})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !IsInputError(err) {
				t.Fatalf("expected an input error")
			}
		})
	}
}
