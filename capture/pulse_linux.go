//go:build linux

package capture

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
)

// PulseSource records the monitor source over the native PulseAudio
// protocol instead of a parec subprocess. Same frames, no child process.
type PulseSource struct {
	rate   int
	source string

	cb atomic.Pointer[FrameCallback]

	mu     sync.Mutex
	client *pulse.Client
	stream *pulse.RecordStream
	stop   chan struct{}
	done   chan struct{}
}

// NewPulse builds a native PulseAudio source. An empty source name means
// the first ".monitor" source wins; none found falls back to the server
// default source.
func NewPulse(sampleRate int, source string) *PulseSource {
	return &PulseSource{rate: sampleRate, source: source}
}

func (s *PulseSource) Name() string { return "pulse" }

func (s *PulseSource) SetCallback(cb FrameCallback) {
	s.cb.Store(&cb)
}

func (s *PulseSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return nil
	}

	client, err := pulse.NewClient()
	if err != nil {
		return fmt.Errorf("%w: pulse: %v", ErrCaptureUnavailable, err)
	}

	writer := pulse.Float32Writer(func(buf []float32) (int, error) {
		if len(buf) == 0 {
			return 0, nil
		}
		if cb := s.cb.Load(); cb != nil {
			samples := make([]float32, len(buf))
			copy(samples, buf)
			(*cb)(samples)
		}
		return len(buf), nil
	})

	opts := []pulse.RecordOption{
		pulse.RecordMono,
		pulse.RecordSampleRate(s.rate),
		pulse.RecordLatency(0.02),
	}
	if src := s.findSource(client); src != nil {
		opts = append(opts, pulse.RecordSource(src))
	}

	stream, err := client.NewRecord(writer, opts...)
	if err != nil {
		client.Close()
		return fmt.Errorf("%w: pulse record: %v", ErrCaptureUnavailable, err)
	}

	s.client = client
	s.stream = stream
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		stream.Start()
		<-s.stop
		stream.Stop()
		stream.Close()
	}()

	return nil
}

func (s *PulseSource) findSource(client *pulse.Client) *pulse.Source {
	sources, err := client.ListSources()
	if err != nil {
		return nil
	}
	if s.source != "" {
		for _, src := range sources {
			if src.Name() == s.source || src.ID() == s.source {
				return src
			}
		}
		return nil
	}
	for _, src := range sources {
		if strings.Contains(strings.ToLower(src.Name()), ".monitor") {
			return src
		}
	}
	return nil
}

func (s *PulseSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
		<-s.done
		s.client.Close()
	}
}
