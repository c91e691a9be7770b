package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Binaries are vars so tests can substitute a stub process.
var (
	parecBin = "parec"
	pactlBin = "pactl"
)

const defaultMonitorSource = "@DEFAULT_MONITOR@"

// stopTimeout bounds how long Stop waits for parec to exit gracefully
// before killing it.
const stopTimeout = 2 * time.Second

// ParecSource captures the system monitor source by spawning parec and
// reading raw s16le PCM from its stdout. This is the default backend:
// parec handles the PulseAudio/PipeWire plumbing and we only own the
// subprocess.
type ParecSource struct {
	rate   int
	source string

	cb atomic.Pointer[FrameCallback]

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// NewParec builds a parec-backed source. An empty source name means the
// monitor source is resolved via pactl at Start.
func NewParec(sampleRate int, source string) *ParecSource {
	return &ParecSource{rate: sampleRate, source: source}
}

func (s *ParecSource) Name() string { return "parec" }

func (s *ParecSource) SetCallback(cb FrameCallback) {
	s.cb.Store(&cb)
}

func (s *ParecSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	source := s.source
	if source == "" {
		source = FindMonitorSource()
	}

	cmd := exec.Command(parecBin,
		"--device", source,
		"--format=s16le",
		"--rate", strconv.Itoa(s.rate),
		"--channels", "1",
		"--latency-msec=20",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("parec stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: spawning parec: %v", ErrCaptureUnavailable, err)
	}

	s.cmd = cmd
	s.stdout = stdout
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.started = true

	go s.readLoop()
	return nil
}

// readLoop drains parec's stdout in ~100ms frames. Read errors are
// swallowed: live capture keeps going through transient glitches and only
// gives up when the pipe is closed.
func (s *ParecSource) readLoop() {
	defer close(s.done)

	frameBytes := s.rate / 10 * 2
	buf := make([]byte, frameBytes)
	var pending []byte

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		n, err := s.stdout.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			usable := len(pending) &^ 1 // whole samples only
			if usable > 0 {
				if cb := s.cb.Load(); cb != nil {
					(*cb)(decodeS16LE(pending[:usable]))
				}
				pending = pending[usable:]
			}
		}
		if err != nil {
			if err == io.EOF || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			continue
		}
	}
}

// Stop terminates the parec process, waiting up to stopTimeout for a
// graceful exit before killing it. Safe to call more than once and
// before any audio arrived.
func (s *ParecSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}

	if s.cmd.Process != nil {
		s.cmd.Process.Signal(syscall.SIGTERM)
	}
	waited := make(chan struct{})
	go func() {
		s.cmd.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(stopTimeout):
		if s.cmd.Process != nil {
			s.cmd.Process.Kill()
		}
		<-waited
	}

	s.stdout.Close()
	<-s.done
}

// FindMonitorSource asks pactl for the first monitor source. When pactl
// is missing or lists nothing, the PulseAudio default-monitor sentinel is
// returned and parec resolves it server-side.
func FindMonitorSource() string {
	out, err := exec.Command(pactlBin, "list", "sources", "short").Output()
	if err != nil {
		return defaultMonitorSource
	}
	return monitorFromListing(string(out))
}

func monitorFromListing(listing string) string {
	if names := monitorsFromListing(listing); len(names) > 0 {
		return names[0]
	}
	return defaultMonitorSource
}

// ListMonitorSources returns every monitor source pactl reports, for the
// interactive source picker. Empty when pactl is unavailable.
func ListMonitorSources() []string {
	out, err := exec.Command(pactlBin, "list", "sources", "short").Output()
	if err != nil {
		return nil
	}
	return monitorsFromListing(string(out))
}

func monitorsFromListing(listing string) []string {
	var names []string
	for _, line := range strings.Split(listing, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(line), "monitor") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) >= 2 {
			names = append(names, parts[1])
		}
	}
	return names
}
