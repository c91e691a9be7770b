//go:build linux

package main

import (
	"fmt"

	"livecap/capture"
	"livecap/config"
)

func newSource(cfg config.AudioConfig) (capture.Source, error) {
	switch cfg.Backend {
	case "parec":
		return capture.NewParec(cfg.SampleRate, cfg.Source), nil
	case "pulse":
		return capture.NewPulse(cfg.SampleRate, cfg.Source), nil
	default:
		return nil, fmt.Errorf("audio backend %q not available in this build", cfg.Backend)
	}
}
