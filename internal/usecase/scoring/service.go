package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/pkg/ai"
	"github.com/johnquangdev/speech-coach/pkg/audio"
	"github.com/johnquangdev/speech-coach/pkg/jobcontext"
)

// Service grades utterances against the current metric definitions
type Service struct {
	configs    *ConfigManager
	estimators map[entities.SpeechRateMethod]SpeechRateEstimator
	clock      clock.Clock
	logger     *zap.Logger
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithEstimator registers or replaces the estimator for its method
func WithEstimator(e SpeechRateEstimator) ServiceOption {
	return func(s *Service) { s.estimators[e.Method()] = e }
}

// WithServiceClock sets the clock used for result timestamps
func WithServiceClock(c clock.Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

// NewService wires the three estimators. transcriber may be nil, in which
// case remote estimates report a failure instead of a rate.
func NewService(configs *ConfigManager, transcriber ai.Transcriber, transcriptionTimeout time.Duration, logger *zap.Logger, opts ...ServiceOption) *Service {
	if configs == nil {
		configs = NewConfigManager(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		configs: configs,
		clock:   clock.New(),
		logger:  logger,
		estimators: map[entities.SpeechRateMethod]SpeechRateEstimator{
			entities.MethodEnergyPeaks:      EnergyPeakEstimator{},
			entities.MethodZeroCrossingRate: ZeroCrossingEstimator{},
		},
	}
	if transcriber != nil {
		s.estimators[entities.MethodRemoteTranscription] = NewRemoteEstimator(transcriber, transcriptionTimeout)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Definitions returns the cached metric set without refreshing it
func (s *Service) Definitions() entities.MetricSet {
	return s.configs.Config()
}

// DefinitionsFresh returns the metric set, refreshing it if stale
func (s *Service) DefinitionsFresh(ctx context.Context) entities.MetricSet {
	return s.configs.ConfigFresh(ctx)
}

// Analyze grades in against the current metric definitions
func (s *Service) Analyze(ctx context.Context, in Input) (*entities.AnalysisResult, error) {
	return s.AnalyzeWithDefinitions(ctx, in, s.configs.ConfigFresh(ctx))
}

// AnalyzeWithDefinitions grades in against set. The only errors are for
// invalid input; estimator failures are reported inside the result.
func (s *Service) AnalyzeWithDefinitions(ctx context.Context, in Input, set entities.MetricSet) (*entities.AnalysisResult, error) {
	if err := in.Buffer.Validate(); err != nil {
		return nil, inputError(err)
	}

	buf := in.Buffer
	in.VolumeDB = audio.SegmentDB(buf.Samples)
	method := set.SpeechRateMethod()

	result := &entities.AnalysisResult{
		ID:         uuid.New(),
		Duration:   buf.Duration(),
		SampleRate: buf.SampleRate,
	}

	// metrics are independent; only the remote estimator does I/O
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.SpeechRate = s.speechRate(gctx, method, in, set.Get(entities.MetricSpeechRate).Thresholds)
		return nil
	})
	g.Go(func() error {
		result.Volume = ScoreVolume(in.VolumeDB, set.Get(entities.MetricVolume).Thresholds)
		return nil
	})
	g.Go(func() error {
		result.Acceleration = Acceleration(buf,
			set.Get(entities.MetricVolume).Thresholds,
			set.Get(entities.MetricSpeechRate).Thresholds,
		)
		return nil
	})
	g.Go(func() error {
		result.ResponseLatency = ResponseLatency(buf, set.Get(entities.MetricResponseLatency).Thresholds)
		return nil
	})
	g.Go(func() error {
		result.PauseManagement = PauseManagement(buf, set.Get(entities.MetricPauseManagement).Thresholds)
		return nil
	})
	_ = g.Wait()

	Aggregate(result, set)
	result.AnalyzedAt = s.clock.Now()

	fields := append([]zap.Field{
		zap.String("analysis_id", result.ID.String()),
		zap.Int("overall_score", result.OverallScore),
		zap.String("feedback", string(result.EmotionalFeedback)),
		zap.String("speech_rate_method", string(method)),
		zap.Float64("duration", result.Duration),
	}, jobcontext.Fields(ctx)...)
	s.logger.Info("🎯 Analysis completed", fields...)
	return result, nil
}

func (s *Service) speechRate(ctx context.Context, method entities.SpeechRateMethod, in Input, th entities.Thresholds) entities.SpeechRateResult {
	estimator, ok := s.estimators[method]
	if !ok {
		// only the remote estimator is optional
		return SpeechRateFailure(method, entities.ErrTranscriptionUnavailable)
	}

	est, err := estimator.Estimate(ctx, in)
	if err != nil {
		s.logger.Error("❌ Speech rate estimation failed",
			zap.String("method", string(method)),
			zap.Error(err),
		)
		return SpeechRateFailure(method, err)
	}
	return SpeechRate(est, th)
}

func inputError(err error) error {
	switch {
	case errors.Is(err, audio.ErrEmptyBuffer):
		return fmt.Errorf("%w: %v", entities.ErrEmptyAudio, err)
	case errors.Is(err, audio.ErrInvalidSampleRate):
		return fmt.Errorf("%w: %v", entities.ErrInvalidSampleRate, err)
	}
	return err
}

// IsInputError reports whether err is caused by an invalid audio buffer
func IsInputError(err error) bool {
	return errors.Is(err, entities.ErrEmptyAudio) || errors.Is(err, entities.ErrInvalidSampleRate)
}
