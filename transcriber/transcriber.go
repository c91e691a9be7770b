// Package transcriber sends audio chunks to a remote speech-to-text
// service. Failures are recoverable: the caller skips the chunk and keeps
// capturing.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ErrTranscription marks any failure of the remote call: transport, auth,
// or a malformed response. Never fatal to the process.
var ErrTranscription = errors.New("transcription failed")

// Result carries the recognized text plus per-request timings for the
// diagnostics log.
type Result struct {
	Text       string
	Metrics    *NetworkMetrics
	RateLimit  string // "remaining/limit" or empty
	EncodeTime time.Duration
	RawBytes   int
	Encoded    int
}

type Transcriber interface {
	Name() string
	SetLanguage(lang string)
	GetLanguage() string
	// Transcribe encodes the chunk and performs one blocking API call.
	// The chunk is mono normalized samples at the given rate.
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (*Result, error)
}

type Config struct {
	Provider string
	Model    string
	Language string
	Format   string // wav or flac upload container
}

func New(cfg Config) (Transcriber, error) {
	switch cfg.Provider {
	case "groq":
		apiKey := os.Getenv("GROQ_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("set GROQ_API_KEY environment variable")
		}
		t := NewGroq(apiKey, cfg.Model, cfg.Format)
		t.SetLanguage(cfg.Language)
		return t, nil
	case "fake":
		// Visible placeholder so -provider fake exercises the whole
		// pipeline without an API key.
		return NewFake("fake transcription line", nil), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}

func firstNonEmpty(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return "?"
}
