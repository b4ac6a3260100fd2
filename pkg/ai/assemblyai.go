package ai

import (
	"bytes"
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-coach/pkg/config"
)

// AssemblyAITranscriber transcribes clips through the official AssemblyAI SDK
type AssemblyAITranscriber struct {
	client       *aai.Client
	languageCode string
	logger       *zap.Logger
}

// NewAssemblyAITranscriber creates an AssemblyAI transcriber using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAITranscriber(cfg *config.AssemblyAIConfig, logger *zap.Logger) *AssemblyAITranscriber {
	var apiKey, baseURL, lang string
	if cfg != nil {
		apiKey = cfg.APIKey
		baseURL = cfg.BaseURL
		lang = cfg.LanguageCode
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if lang == "" {
		lang = "en"
	}

	opts := []aai.ClientOption{aai.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, aai.WithBaseURL(baseURL))
	}

	return &AssemblyAITranscriber{
		client:       aai.NewClientWithOptions(opts...),
		languageCode: lang,
		logger:       logger,
	}
}

// Name returns the provider identifier
func (t *AssemblyAITranscriber) Name() string {
	return "assemblyai"
}

// Transcribe uploads the clip and waits for the transcript to complete.
// The SDK polls until AssemblyAI reports a terminal status or ctx ends.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (*Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("assemblyai: empty audio")
	}

	if t.logger != nil {
		t.logger.Debug("📤 Uploading clip to AssemblyAI",
			zap.Int("bytes", len(audio)),
			zap.String("content_type", contentType),
		)
	}

	uploadURL, err := t.client.Upload(ctx, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("assemblyai upload: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(t.languageCode),
	}
	transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcribe: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai transcript failed: %s", msg)
	}

	var text string
	if transcript.Text != nil {
		text = *transcript.Text
	}

	out := &Transcription{
		Text:      text,
		WordCount: len(transcript.Words),
		Provider:  t.Name(),
	}

	if t.logger != nil {
		t.logger.Debug("✅ AssemblyAI transcript completed",
			zap.Int("word_count", out.Words()),
		)
	}
	return out, nil
}
