package transcriber

import (
	"context"
	"fmt"
	"sync"
)

// FakeTranscriber returns scripted results for tests and the "fake"
// provider. With no script it echoes a fixed line per chunk.
type FakeTranscriber struct {
	text string
	err  error
	lang string

	mu     sync.Mutex
	script []string
	calls  int
}

func NewFake(text string, err error) *FakeTranscriber {
	return &FakeTranscriber{text: text, err: err}
}

// Script queues per-call results; once exhausted the fixed text is used.
func (f *FakeTranscriber) Script(lines ...string) {
	f.mu.Lock()
	f.script = append(f.script, lines...)
	f.mu.Unlock()
}

func (f *FakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeTranscriber) Name() string            { return "fake" }
func (f *FakeTranscriber) SetLanguage(lang string) { f.lang = lang }
func (f *FakeTranscriber) GetLanguage() string     { return f.lang }

func (f *FakeTranscriber) Transcribe(_ context.Context, samples []float32, sampleRate int) (*Result, error) {
	f.mu.Lock()
	f.calls++
	text := f.text
	if len(f.script) > 0 {
		text = f.script[0]
		f.script = f.script[1:]
	}
	f.mu.Unlock()

	if f.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, f.err)
	}
	return &Result{
		Text:     text,
		Metrics:  &NetworkMetrics{},
		RawBytes: len(samples) * 2,
	}, nil
}
