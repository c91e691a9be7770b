package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type AudioConfig struct {
	SampleRate   int     `yaml:"sample_rate"`
	ChunkSeconds float64 `yaml:"chunk_seconds"`
	Backend      string  `yaml:"backend"` // parec, pulse, portable
	Source       string  `yaml:"source"`  // monitor source name; empty = auto-detect
}

type TranscriberConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	Format   string `yaml:"format"` // wav or flac upload container
}

type OverlayConfig struct {
	FadeMS int `yaml:"fade_ms"`
	TickMS int `yaml:"tick_ms"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type FilterConfig struct {
	ExtraPhrases []string `yaml:"extra_phrases"`
}

type Config struct {
	Audio       AudioConfig       `yaml:"audio"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Overlay     OverlayConfig     `yaml:"overlay"`
	History     HistoryConfig     `yaml:"history"`
	Filter      FilterConfig      `yaml:"filter"`
}

func Default() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate:   16000,
			ChunkSeconds: 3.0,
			Backend:      "parec",
		},
		Transcriber: TranscriberConfig{
			Provider: "groq",
			Model:    "whisper-large-v3-turbo",
			Language: "de",
			Format:   "wav",
		},
		Overlay: OverlayConfig{
			FadeMS: 3000,
			TickMS: 100,
		},
		History: HistoryConfig{
			Path: "transcript_history.txt",
		},
	}
}

// Load reads the optional YAML config file, then applies LIVECAP_* env
// overrides on top. A missing path is not an error; a missing explicit
// file is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideInt(&cfg.Audio.SampleRate, "LIVECAP_SAMPLE_RATE")
	overrideFloat(&cfg.Audio.ChunkSeconds, "LIVECAP_CHUNK_SECONDS")
	overrideString(&cfg.Audio.Backend, "LIVECAP_AUDIO_BACKEND")
	overrideString(&cfg.Audio.Source, "LIVECAP_AUDIO_SOURCE")
	overrideString(&cfg.Transcriber.Provider, "LIVECAP_PROVIDER")
	overrideString(&cfg.Transcriber.Model, "LIVECAP_MODEL")
	overrideString(&cfg.Transcriber.Language, "LIVECAP_LANGUAGE")
	overrideString(&cfg.Transcriber.Format, "LIVECAP_FORMAT")
	overrideInt(&cfg.Overlay.FadeMS, "LIVECAP_FADE_MS")
	overrideInt(&cfg.Overlay.TickMS, "LIVECAP_TICK_MS")
	overrideString(&cfg.History.Path, "LIVECAP_HISTORY_PATH")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if cfg.Audio.ChunkSeconds <= 0 {
		return errors.New("audio.chunk_seconds must be positive")
	}
	switch cfg.Audio.Backend {
	case "parec", "pulse", "portable":
	default:
		return errors.New("audio.backend must be one of parec|pulse|portable")
	}
	switch cfg.Transcriber.Provider {
	case "groq", "fake":
	default:
		return errors.New("transcriber.provider must be one of groq|fake")
	}
	switch cfg.Transcriber.Format {
	case "wav", "flac":
	default:
		return errors.New("transcriber.format must be one of wav|flac")
	}
	if cfg.Overlay.FadeMS <= 0 {
		return errors.New("overlay.fade_ms must be positive")
	}
	if cfg.Overlay.TickMS <= 0 {
		return errors.New("overlay.tick_ms must be positive")
	}
	if cfg.History.Path == "" {
		return errors.New("history.path must not be empty")
	}
	return nil
}
