//go:build !linux

package main

import (
	"fmt"

	"livecap/capture"
	"livecap/config"
)

func newSource(cfg config.AudioConfig) (capture.Source, error) {
	switch cfg.Backend {
	case "portable":
		return capture.NewPortable(cfg.SampleRate), nil
	default:
		return nil, fmt.Errorf("audio backend %q not available in this build", cfg.Backend)
	}
}
