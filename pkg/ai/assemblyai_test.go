package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/johnquangdev/speech-coach/pkg/config"
)

func TestAssemblyAI_UploadFailureSurfaces(t *testing.T) {
	var uploads int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path == "/v2/upload" {
			atomic.AddInt32(&uploads, 1)
			if got := r.Header.Get("Authorization"); got != "test-key" {
				t.Fatalf("unexpected auth header %q", got)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"storage unavailable"}`))
	}))
	defer ts.Close()

	tr := NewAssemblyAITranscriber(&config.AssemblyAIConfig{APIKey: "test-key", BaseURL: ts.URL}, nil)
	if tr.Name() != "assemblyai" {
		t.Fatalf("unexpected name %s", tr.Name())
	}

	_, err := tr.Transcribe(context.Background(), []byte("RIFF...."), "audio/wav")
	if err == nil {
		t.Fatalf("expected upload failure")
	}
	if atomic.LoadInt32(&uploads) < 1 {
		t.Fatalf("expected an upload attempt, got %d", atomic.LoadInt32(&uploads))
	}
}

func TestAssemblyAI_EmptyAudio(t *testing.T) {
	tr := NewAssemblyAITranscriber(&config.AssemblyAIConfig{APIKey: "k"}, nil)
	if _, err := tr.Transcribe(context.Background(), nil, "audio/wav"); err == nil {
		t.Fatalf("expected error for empty audio")
	}
}
