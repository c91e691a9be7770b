// Package capture produces a continuous stream of normalized mono audio
// frames from the system's monitor (loopback) source and assembles them
// into fixed-duration chunks for transcription.
package capture

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCaptureUnavailable is returned by Start when the capture backend
// cannot be brought up (missing binary, no audio server).
var ErrCaptureUnavailable = errors.New("capture unavailable")

// FrameCallback receives one frame of normalized samples in [-1, 1].
type FrameCallback func(samples []float32)

// Source is a capture backend. Start begins continuous capture and invokes
// the callback from a backend-owned goroutine until Stop. Stop is
// idempotent and waits for the backend to release its resources.
type Source interface {
	Start() error
	Stop()
	SetCallback(cb FrameCallback)
	Name() string
}

// pollInterval bounds every queue wait so a stop request is observed
// within this interval.
const pollInterval = 500 * time.Millisecond

// frameQueue is an unbounded single-producer/single-consumer queue.
// Frames accumulate here while a transcription call is in flight, bounded
// only by memory.
type frameQueue struct {
	mu     sync.Mutex
	frames [][]float32
	notify chan struct{}
}

func newFrameQueue() *frameQueue {
	return &frameQueue{notify: make(chan struct{}, 1)}
}

func (q *frameQueue) push(f []float32) {
	q.mu.Lock()
	q.frames = append(q.frames, f)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *frameQueue) pop(timeout time.Duration) ([]float32, bool) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if len(q.frames) > 0 {
			f := q.frames[0]
			q.frames = q.frames[1:]
			q.mu.Unlock()
			return f, true
		}
		q.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}
		timer := time.NewTimer(remaining)
		select {
		case <-q.notify:
			timer.Stop()
		case <-timer.C:
			return nil, false
		}
	}
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// Buffer accumulates frames from a Source and hands out fixed-duration
// chunks. Push is the frame callback to register on the source.
type Buffer struct {
	rate  int
	queue *frameQueue

	mu    sync.Mutex
	carry []float32
}

func NewBuffer(sampleRate int) *Buffer {
	return &Buffer{rate: sampleRate, queue: newFrameQueue()}
}

func (b *Buffer) Push(samples []float32) {
	b.queue.push(samples)
}

// Chunk blocks until seconds worth of samples are available and returns
// exactly that many. Excess samples carry over to the next chunk so no
// audio is lost at chunk boundaries. Returns nil once ctx is canceled;
// cancellation is observed within pollInterval.
func (b *Buffer) Chunk(ctx context.Context, seconds float64) []float32 {
	needed := int(float64(b.rate) * seconds)
	if needed <= 0 {
		return nil
	}

	b.mu.Lock()
	collected := b.carry
	b.carry = nil
	b.mu.Unlock()

	for len(collected) < needed {
		if ctx.Err() != nil {
			return nil
		}
		frame, ok := b.queue.pop(pollInterval)
		if !ok {
			continue
		}
		collected = append(collected, frame...)
	}

	chunk := collected[:needed]
	if excess := collected[needed:]; len(excess) > 0 {
		b.mu.Lock()
		b.carry = append(b.carry, excess...)
		b.mu.Unlock()
	}
	return chunk
}

// Pending reports queued frames plus carried-over samples, for diagnostics.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	carry := len(b.carry)
	b.mu.Unlock()
	return b.queue.len() + carry
}

// decodeS16LE converts raw little-endian 16-bit PCM into normalized
// float32 samples. A trailing odd byte is ignored.
func decodeS16LE(data []byte) []float32 {
	samples := make([]float32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		s := int16(uint16(data[i]) | uint16(data[i+1])<<8)
		samples = append(samples, float32(s)/32768.0)
	}
	return samples
}

// Peak returns the largest absolute sample value, used to skip
// near-silent chunks before they reach the transcriber.
func Peak(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}
