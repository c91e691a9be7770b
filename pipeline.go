package main

import (
	"context"
	"strings"
	"sync"

	"livecap/capture"
	"livecap/filter"
	"livecap/history"
	"livecap/log"
	"livecap/overlay"
	"livecap/transcriber"
)

// silencePeak is the absolute sample threshold below which a chunk is
// considered silent and skipped without an API call.
const silencePeak = 0.02

// Pipeline pulls fixed-duration chunks from the capture buffer, sends
// them to the transcriber, and fans accepted lines out to the history
// sink and the overlay. A failed transcription skips that chunk; there
// is no retry.
type Pipeline struct {
	Source       capture.Source
	Buffer       *capture.Buffer
	Transcriber  transcriber.Transcriber
	Filter       *filter.Filter
	Sink         *history.Sink
	Overlay      *overlay.State
	Events       EventSink
	SampleRate   int
	ChunkSeconds float64
	Format       string

	mu       sync.Mutex
	lastText string
	accepted int
}

// Run starts the capture source and loops until ctx is canceled. The
// source is always stopped on return, even when Start succeeded but the
// first chunk never arrived.
func (p *Pipeline) Run(ctx context.Context) error {
	p.Source.SetCallback(p.Buffer.Push)
	if err := p.Source.Start(); err != nil {
		return err
	}
	defer p.Source.Stop()

	log.SessionStart(p.Transcriber.Name(), p.Source.Name(), p.Format)

	for {
		chunk := p.Buffer.Chunk(ctx, p.ChunkSeconds)
		if chunk == nil {
			return nil
		}

		if capture.Peak(chunk) < silencePeak {
			continue
		}

		result, err := p.Transcriber.Transcribe(ctx, chunk, p.SampleRate)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Errorf("transcription error: %v", err)
			p.Events.Error(err.Error())
			continue
		}

		p.logChunk(chunk, result)

		text := strings.TrimSpace(result.Text)
		if p.Filter.IsHallucination(text) {
			log.FilteredLine(text)
			continue
		}

		log.AcceptedLine(text)
		if err := p.Sink.Append(text); err != nil {
			log.Errorf("history append error: %v", err)
			p.Events.Error(err.Error())
		}
		p.Overlay.Push(text)

		p.mu.Lock()
		p.lastText = text
		p.accepted++
		p.mu.Unlock()
	}
}

// LastText returns the most recent accepted line, for clipboard copy.
func (p *Pipeline) LastText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastText
}

func (p *Pipeline) Accepted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accepted
}

func (p *Pipeline) logChunk(chunk []float32, result *transcriber.Result) {
	m := log.ChunkMetrics{
		AudioLengthS:  float64(len(chunk)) / float64(p.SampleRate),
		RawSizeKB:     float64(result.RawBytes) / 1024,
		EncodedSizeKB: float64(result.Encoded) / 1024,
		EncodeTimeMs:  float64(result.EncodeTime.Milliseconds()),
	}
	connReused := false
	if result.Metrics != nil {
		m.DNSTimeMs = float64(result.Metrics.DNS.Milliseconds())
		m.TLSTimeMs = float64(result.Metrics.TLS.Milliseconds())
		m.TTFBMs = float64(result.Metrics.TTFB.Milliseconds())
		m.TotalTimeMs = float64(result.Metrics.Total.Milliseconds())
		connReused = result.Metrics.ConnReused
	}
	log.Transcription(m, p.Transcriber.Name(), p.Format, connReused)
}
