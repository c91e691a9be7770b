package capture

import (
	"sync"
	"time"
)

// FakeSource replays canned frames for tests. It stands in for the parec
// subprocess: Stop must always be observed, so terminations are counted.
type FakeSource struct {
	frames   [][]float32
	interval time.Duration // 0 = deliver everything immediately
	startErr error

	mu       sync.Mutex
	cb       FrameCallback
	stopCh   chan struct{}
	feedDone chan struct{}
	started  bool
	stops    int
}

func NewFakeSource(frames [][]float32, interval time.Duration) *FakeSource {
	return &FakeSource{frames: frames, interval: interval}
}

// FailStart makes the next Start return ErrCaptureUnavailable.
func (f *FakeSource) FailStart() { f.startErr = ErrCaptureUnavailable }

func (f *FakeSource) Name() string { return "fake" }

func (f *FakeSource) SetCallback(cb FrameCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeSource) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.started = true
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	f.mu.Unlock()

	go func() {
		defer close(f.feedDone)
		for _, frame := range f.frames {
			select {
			case <-f.stopCh:
				return
			default:
			}
			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb != nil {
				cb(frame)
			}
			if f.interval > 0 {
				select {
				case <-f.stopCh:
					return
				case <-time.After(f.interval):
				}
			}
		}
		<-f.stopCh
	}()
	return nil
}

func (f *FakeSource) Stop() {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return
	}
	select {
	case <-f.stopCh:
		f.mu.Unlock()
		return
	default:
		close(f.stopCh)
	}
	f.mu.Unlock()

	// Wait outside the lock: the feed goroutine takes it per frame.
	<-f.feedDone

	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

// StopCount reports how many effective terminations happened. The real
// backends must terminate their process exactly once no matter how often
// Stop is called; the fake mirrors that by counting only the first.
func (f *FakeSource) StopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *FakeSource) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}
