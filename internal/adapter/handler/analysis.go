package handler

import (
	"context"
	"encoding/base64"
	stdErrors "errors"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-coach/errors"
	"github.com/johnquangdev/speech-coach/internal/adapter/dto/analysis"
	"github.com/johnquangdev/speech-coach/internal/adapter/presenter"
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/storage"
	"github.com/johnquangdev/speech-coach/internal/usecase/scoring"
	"github.com/johnquangdev/speech-coach/pkg/audio"
)

// Analyzer grades utterances
type Analyzer interface {
	Analyze(ctx context.Context, in scoring.Input) (*entities.AnalysisResult, error)
	AnalyzeWithDefinitions(ctx context.Context, in scoring.Input, set entities.MetricSet) (*entities.AnalysisResult, error)
	Definitions() entities.MetricSet
}

// ObjectFetcher downloads recordings from object storage
type ObjectFetcher interface {
	GetObject(ctx context.Context, key string, maxBytes int64) (*storage.Object, error)
}

var errStorageDisabled = stdErrors.New("object storage is not configured")

// Analysis handles the speech analysis endpoints
type Analysis struct {
	svc      Analyzer
	objects  ObjectFetcher
	maxBytes int64
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler. objects may be nil when
// storage is disabled.
func NewAnalysisHandler(svc Analyzer, objects ObjectFetcher, maxUploadMB int, logger *zap.Logger) *Analysis {
	return &Analysis{
		svc:      svc,
		objects:  objects,
		maxBytes: int64(maxUploadMB) << 20,
		logger:   logger,
	}
}

// AnalyzeUpload grades an uploaded WAV recording
// @Summary      Analyze a recording
// @Description  Decodes an uploaded WAV file and grades volume, speech rate, acceleration, response latency and pauses
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio  formData  file  true  "WAV recording"
// @Success      200    {object}  analysis.AnalysisResponse
// @Failure      400    {object}  map[string]interface{}  "Missing or undecodable audio"
// @Failure      413    {object}  map[string]interface{}  "Recording too large"
// @Router       /analyses [post]
func (h *Analysis) AnalyzeUpload(c echo.Context) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field 'audio' is required"))
	}
	if h.maxBytes > 0 && file.Size > h.maxBytes {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(int(h.maxBytes>>20)))
	}

	src, err := file.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	contentType := file.Header.Get(echo.HeaderContentType)
	return h.analyzeEncoded(c, data, contentType)
}

// AnalyzeSamples grades already decoded samples
// @Summary      Analyze PCM samples
// @Description  Grades samples normalized to [-1, 1]. Optional definitions override the configured metrics for this call only.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.AnalyzeSamplesRequest  true  "Samples"
// @Success      200      {object}  analysis.AnalysisResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid samples or definitions"
// @Router       /analyses/samples [post]
func (h *Analysis) AnalyzeSamples(c echo.Context) error {
	var req analysis.AnalyzeSamplesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	in := scoring.Input{
		Buffer:      audio.Buffer{Samples: req.Samples, SampleRate: req.SampleRate},
		ContentType: req.ContentType,
	}
	if req.AudioBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("audio_base64 is not valid base64"))
		}
		in.RawAudio = raw
		if in.ContentType == "" {
			in.ContentType = audio.WAVContentType
		}
	}

	ctx := c.Request().Context()
	if len(req.Definitions) == 0 {
		return h.respond(c, req.SampleRate, func() (*entities.AnalysisResult, error) { return h.svc.Analyze(ctx, in) })
	}

	set, err := analysis.ApplyDefinitions(h.svc.Definitions(), req.Definitions)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidDefinition(err))
	}
	return h.respond(c, req.SampleRate, func() (*entities.AnalysisResult, error) { return h.svc.AnalyzeWithDefinitions(ctx, in, set) })
}

// AnalyzeObject grades a WAV recording stored in object storage
// @Summary      Analyze a stored recording
// @Description  Downloads a WAV object from the recordings bucket and grades it
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      analysis.AnalyzeObjectRequest  true  "Object key"
// @Success      200      {object}  analysis.AnalysisResponse
// @Failure      404      {object}  map[string]interface{}  "Object not found"
// @Failure      500      {object}  map[string]interface{}  "Storage unavailable"
// @Router       /analyses/object [post]
func (h *Analysis) AnalyzeObject(c echo.Context) error {
	var req analysis.AnalyzeObjectRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if h.objects == nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("get_object", errStorageDisabled))
	}

	obj, err := h.objects.GetObject(c.Request().Context(), req.ObjectKey, h.maxBytes)
	switch {
	case stdErrors.Is(err, storage.ErrObjectNotFound):
		return HandleError(h.logger, c, errors.ErrNotFound("object").WithDetail("object_key", req.ObjectKey))
	case stdErrors.Is(err, storage.ErrObjectTooLarge):
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(int(h.maxBytes>>20)))
	case err != nil:
		return HandleError(h.logger, c, errors.ErrStorageFailed("get_object", err))
	}

	return h.analyzeEncoded(c, obj.Data, obj.ContentType)
}

// GetConfig returns the metric definitions currently used for grading
// @Summary      Current scoring configuration
// @Description  Returns the cached metric definitions, falling back to the built-in defaults
// @Tags         Analysis
// @Produce      json
// @Success      200  {object}  analysis.ConfigResponse
// @Router       /scoring/config [get]
func (h *Analysis) GetConfig(c echo.Context) error {
	return HandleSuccess(h.logger, c, presenter.ToConfigResponse(h.svc.Definitions()))
}

func (h *Analysis) analyzeEncoded(c echo.Context, data []byte, contentType string) error {
	buf, err := audio.DecodeWAVBytes(data)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrAudioDecodeFailed(err))
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = audio.WAVContentType
	}

	in := scoring.Input{Buffer: buf, RawAudio: data, ContentType: contentType}
	ctx := c.Request().Context()
	return h.respond(c, buf.SampleRate, func() (*entities.AnalysisResult, error) { return h.svc.Analyze(ctx, in) })
}

func (h *Analysis) respond(c echo.Context, sampleRate int, run func() (*entities.AnalysisResult, error)) error {
	result, err := run()
	switch {
	case stdErrors.Is(err, entities.ErrEmptyAudio):
		return HandleError(h.logger, c, errors.ErrEmptyAudio())
	case stdErrors.Is(err, entities.ErrInvalidSampleRate):
		return HandleError(h.logger, c, errors.ErrInvalidSampleRate(sampleRate))
	case stdErrors.Is(err, context.DeadlineExceeded):
		return HandleError(h.logger, c, errors.ErrTimeout("analysis", err))
	case err != nil:
		return HandleError(h.logger, c, errors.ErrScoringFailed(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToAnalysisResponse(result))
}
