package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewProviderSelection(t *testing.T) {
	t.Run("fake", func(t *testing.T) {
		tr, err := New(Config{Provider: "fake"})
		if err != nil {
			t.Fatal(err)
		}
		if tr.Name() != "fake" {
			t.Errorf("Name = %q", tr.Name())
		}
	})

	t.Run("groq without key", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "")
		if _, err := New(Config{Provider: "groq"}); err == nil {
			t.Error("expected error without GROQ_API_KEY")
		}
	})

	t.Run("groq with key", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "test-key")
		tr, err := New(Config{Provider: "groq", Language: "de", Format: "wav"})
		if err != nil {
			t.Fatal(err)
		}
		if tr.Name() != "groq" {
			t.Errorf("Name = %q", tr.Name())
		}
		if tr.GetLanguage() != "de" {
			t.Errorf("Language = %q, want de", tr.GetLanguage())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := New(Config{Provider: "azure"}); err == nil {
			t.Error("expected error for unknown provider")
		}
	})
}

func TestFirstNonEmpty(t *testing.T) {
	h := http.Header{}
	h.Set("X-Rate-Limit", "100")

	if got := firstNonEmpty(h, "X-Missing", "X-Rate-Limit"); got != "100" {
		t.Errorf("got %q, want %q", got, "100")
	}
	if got := firstNonEmpty(h, "X-A", "X-B"); got != "?" {
		t.Errorf("got %q, want %q", got, "?")
	}
}

func TestGroqTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotLang, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		if fhs := r.MultipartForm.File["file"]; len(fhs) > 0 {
			gotFilename = fhs[0].Filename
			f, _ := fhs[0].Open()
			header := make([]byte, 4)
			f.Read(header)
			f.Close()
			if string(header) != "RIFF" {
				t.Errorf("uploaded file does not start with RIFF, got %q", header)
			}
		}
		w.Header().Set("x-ratelimit-remaining-requests", "41")
		w.Header().Set("x-ratelimit-limit-requests", "50")
		json.NewEncoder(w).Encode(map[string]string{"text": "  hallo welt  "})
	}))
	defer srv.Close()

	g := NewGroq("test-key", "", "wav")
	g.SetLanguage("de")
	g.apiURL = srv.URL

	samples := make([]float32, 16000) // 1s of silence
	result, err := g.Transcribe(context.Background(), samples, 16000)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if result.Text != "hallo welt" {
		t.Errorf("Text = %q, want trimmed %q", result.Text, "hallo welt")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-large-v3-turbo" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLang != "de" {
		t.Errorf("language = %q", gotLang)
	}
	if gotFilename != "audio.wav" {
		t.Errorf("filename = %q", gotFilename)
	}
	if result.RateLimit != "41/50" {
		t.Errorf("RateLimit = %q", result.RateLimit)
	}
	if result.Metrics == nil || result.Metrics.Total <= 0 {
		t.Error("expected request metrics")
	}
}

func TestGroqAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewGroq("bad-key", "", "wav")
	g.apiURL = srv.URL

	_, err := g.Transcribe(context.Background(), make([]float32, 160), 16000)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrTranscription) {
		t.Errorf("error %v should wrap ErrTranscription", err)
	}
}

func TestGroqTransportError(t *testing.T) {
	g := NewGroq("key", "", "wav")
	g.apiURL = "http://127.0.0.1:1" // nothing listens here

	_, err := g.Transcribe(context.Background(), make([]float32, 160), 16000)
	if !errors.Is(err, ErrTranscription) {
		t.Errorf("error %v should wrap ErrTranscription", err)
	}
}

func TestFakeTranscriberScript(t *testing.T) {
	f := NewFake("default", nil)
	f.Script("first", "second")

	ctx := context.Background()
	for i, want := range []string{"first", "second", "default"} {
		result, err := f.Transcribe(ctx, nil, 16000)
		if err != nil {
			t.Fatal(err)
		}
		if result.Text != want {
			t.Errorf("call %d: Text = %q, want %q", i, result.Text, want)
		}
	}
	if f.Calls() != 3 {
		t.Errorf("Calls = %d, want 3", f.Calls())
	}
}

func TestFakeTranscriberError(t *testing.T) {
	f := NewFake("", errors.New("boom"))
	if _, err := f.Transcribe(context.Background(), nil, 16000); !errors.Is(err, ErrTranscription) {
		t.Errorf("error %v should wrap ErrTranscription", err)
	}
}
