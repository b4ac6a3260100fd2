package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnquangdev/speech-coach/pkg/config"
)

func newTestSpeechClient(url string, retries int) *SpeechServiceClient {
	return NewSpeechServiceClient(&config.TranscriptionConfig{
		BaseURL: url,
		Token:   "secret",
		Retries: retries,
		Backoff: time.Millisecond,
	}, nil)
}

func TestSpeechService_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v1/transcribe" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/wav" {
			t.Fatalf("unexpected content type %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected auth header %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "RIFF-bytes" {
			t.Fatalf("unexpected body %q", body)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transcript": "hello there general kenobi",
			"wpm":        132.5,
		})
	}))
	defer ts.Close()

	client := newTestSpeechClient(ts.URL, 0)
	tr, err := client.Transcribe(context.Background(), []byte("RIFF-bytes"), "audio/wav")
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if tr.Text != "hello there general kenobi" {
		t.Fatalf("unexpected transcript %q", tr.Text)
	}
	if tr.WordsPerMinute != 132.5 {
		t.Fatalf("unexpected wpm %v", tr.WordsPerMinute)
	}
	if tr.Words() != 4 {
		t.Fatalf("expected 4 words counted from transcript, got %d", tr.Words())
	}
	if tr.Provider != "speech_service" {
		t.Fatalf("unexpected provider %s", tr.Provider)
	}
}

func TestSpeechService_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"text": "one two three", "word_count": 3})
	}))
	defer ts.Close()

	client := newTestSpeechClient(ts.URL, 3)
	tr, err := client.Transcribe(context.Background(), []byte{1, 2, 3}, "")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if tr.WordCount != 3 || tr.Text != "one two three" {
		t.Fatalf("unexpected transcription %+v", tr)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", atomic.LoadInt32(&calls))
	}
}

func TestSpeechService_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unsupported media", http.StatusUnsupportedMediaType)
	}))
	defer ts.Close()

	client := newTestSpeechClient(ts.URL, 3)
	_, err := client.Transcribe(context.Background(), []byte{1}, "audio/ogg")
	if err == nil {
		t.Fatalf("expected error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("unexpected status %d", statusErr.StatusCode)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", atomic.LoadInt32(&calls))
	}
}

func TestSpeechService_ExhaustedRetriesSurfaceStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := newTestSpeechClient(ts.URL, 1)
	_, err := client.Transcribe(context.Background(), []byte{1}, "audio/wav")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 StatusError, got %v", err)
	}
}

func TestSpeechService_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	client := newTestSpeechClient(ts.URL, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Transcribe(ctx, []byte{1}, "audio/wav")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSpeechService_EmptyAudio(t *testing.T) {
	client := newTestSpeechClient("http://127.0.0.1:0", 0)
	if _, err := client.Transcribe(context.Background(), nil, "audio/wav"); err == nil {
		t.Fatalf("expected error for empty audio")
	}
}
