package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: LIVECAP_LOG_PATH environment variable
	envPath := os.Getenv("LIVECAP_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	f, err := os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// ChunkMetrics records per-chunk transcription timings.
type ChunkMetrics struct {
	AudioLengthS  float64
	RawSizeKB     float64
	EncodedSizeKB float64
	EncodeTimeMs  float64
	DNSTimeMs     float64
	TLSTimeMs     float64
	TTFBMs        float64
	TotalTimeMs   float64
}

func Transcription(m ChunkMetrics, provider, format string, connReused bool) {
	if !logReady {
		return
	}

	connStatus := "new"
	if connReused {
		connStatus = "reused"
	}

	diagLog.Info().
		Str("provider", provider).
		Str("format", format).
		Str("conn", connStatus).
		Float64("audio_s", m.AudioLengthS).
		Float64("raw_kb", m.RawSizeKB).
		Float64("encoded_kb", m.EncodedSizeKB).
		Float64("encode_ms", m.EncodeTimeMs).
		Float64("dns_ms", m.DNSTimeMs).
		Float64("tls_ms", m.TLSTimeMs).
		Float64("ttfb_ms", m.TTFBMs).
		Float64("total_ms", m.TotalTimeMs).
		Msg("transcription")
}

func AcceptedLine(text string) {
	if !logReady {
		return
	}
	diagLog.Info().Int("chars", len(text)).Msg("line_accepted")
}

func FilteredLine(text string) {
	if !logReady {
		return
	}
	diagLog.Info().Str("text", text).Msg("hallucination_filtered")
}

func SessionStart(provider, backend, format string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Str("backend", backend).
		Str("format", format).
		Msg("session_start")
}

func SessionEnd(lines int, started time.Time) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("lines", lines).
		Float64("uptime_s", time.Since(started).Seconds()).
		Msg("session_end")
}
