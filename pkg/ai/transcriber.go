package ai

import (
	"context"
	"fmt"
	"strings"
)

// Transcription is what a speech-to-text provider reports for one clip
type Transcription struct {
	Text           string
	WordCount      int
	WordsPerMinute float64 // zero when the provider does not compute it
	Duration       float64 // seconds, zero when unknown
	Provider       string
}

// Words returns the reported word count, counting the transcript when the
// provider left it out
func (t *Transcription) Words() int {
	if t.WordCount > 0 {
		return t.WordCount
	}
	return len(strings.Fields(t.Text))
}

// Transcriber sends raw audio to a remote speech-to-text service
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, contentType string) (*Transcription, error)
}

// StatusError is returned when a provider answers with a non-2xx status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether retrying could succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// truncate returns the first n bytes of body as a string
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
