package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-coach/pkg/config"
)

// SpeechServiceClient calls a self-hosted speech-to-text service that
// accepts raw audio bytes and reports a transcript with word count and/or
// words per minute.
type SpeechServiceClient struct {
	baseURL string
	token   string
	retries int
	backoff time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewSpeechServiceClient creates a client for the speech service
func NewSpeechServiceClient(cfg *config.TranscriptionConfig, logger *zap.Logger) *SpeechServiceClient {
	c := &SpeechServiceClient{
		retries: 2,
		backoff: 500 * time.Millisecond,
		client:  &http.Client{},
		logger:  logger,
	}
	if cfg != nil {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		c.token = cfg.Token
		if cfg.Retries >= 0 {
			c.retries = cfg.Retries
		}
		if cfg.Backoff > 0 {
			c.backoff = cfg.Backoff
		}
	}
	return c
}

// Name returns the provider identifier
func (c *SpeechServiceClient) Name() string {
	return "speech_service"
}

// speechServiceResponse mirrors the JSON returned by /v1/transcribe
type speechServiceResponse struct {
	Transcript     string  `json:"transcript"`
	Text           string  `json:"text"`
	WordCount      int     `json:"word_count"`
	WordsPerMinute float64 `json:"wpm"`
	Duration       float64 `json:"duration"`
}

// Transcribe posts the raw clip and retries 5xx and transport failures with
// exponential backoff. Deadlines come from ctx.
func (c *SpeechServiceClient) Transcribe(ctx context.Context, audio []byte, contentType string) (*Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech service: empty audio")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var out *Transcription
	attempt := 0
	op := func() error {
		attempt++
		res, err := c.doTranscribe(ctx, audio, contentType)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Temporary() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			if c.logger != nil {
				c.logger.Warn("speech service attempt failed",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
			}
			return err
		}
		out = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoff
	bo.MaxInterval = 4 * c.backoff
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.retries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("speech service transcribe: %w", err)
	}
	return out, nil
}

func (c *SpeechServiceClient) doTranscribe(ctx context.Context, audio []byte, contentType string) (*Transcription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcribe", bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: truncate(body, 200)}
	}

	var parsed speechServiceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}

	text := parsed.Transcript
	if text == "" {
		text = parsed.Text
	}
	return &Transcription{
		Text:           text,
		WordCount:      parsed.WordCount,
		WordsPerMinute: parsed.WordsPerMinute,
		Duration:       parsed.Duration,
		Provider:       c.Name(),
	}, nil
}
