package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestMonitorFromListing(t *testing.T) {
	for _, tt := range []struct {
		name    string
		listing string
		want    string
	}{
		{
			"typical pactl output",
			"1\talsa_input.pci-0000_00_1f.3.analog-stereo\tmodule-alsa-card.c\ts16le 2ch 44100Hz\tSUSPENDED\n" +
				"2\talsa_output.pci-0000_00_1f.3.analog-stereo.monitor\tmodule-alsa-card.c\ts16le 2ch 44100Hz\tIDLE\n",
			"alsa_output.pci-0000_00_1f.3.analog-stereo.monitor",
		},
		{
			"case insensitive marker",
			"5\tMy_Sink.MONITOR\tmodule-null-sink.c\ts16le 2ch 48000Hz\tRUNNING\n",
			"My_Sink.MONITOR",
		},
		{
			"no monitor source",
			"1\talsa_input.usb-mic\tmodule-alsa-card.c\ts16le 1ch 16000Hz\tRUNNING\n",
			defaultMonitorSource,
		},
		{
			"empty output",
			"",
			defaultMonitorSource,
		},
		{
			"monitor line without tab fields",
			"monitor\n",
			defaultMonitorSource,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := monitorFromListing(tt.listing); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonitorsFromListing(t *testing.T) {
	listing := "1\talsa_input.usb-mic\tmodule-alsa-card.c\ts16le 1ch 16000Hz\tRUNNING\n" +
		"2\talsa_output.hdmi.monitor\tmodule-alsa-card.c\ts16le 2ch 44100Hz\tIDLE\n" +
		"3\talsa_output.analog-stereo.monitor\tmodule-alsa-card.c\ts16le 2ch 44100Hz\tRUNNING\n"

	got := monitorsFromListing(listing)
	want := []string{"alsa_output.hdmi.monitor", "alsa_output.analog-stereo.monitor"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindMonitorSourceToolMissing(t *testing.T) {
	old := pactlBin
	pactlBin = "pactl-definitely-not-installed"
	defer func() { pactlBin = old }()

	if got := FindMonitorSource(); got != defaultMonitorSource {
		t.Errorf("got %q, want fallback %q", got, defaultMonitorSource)
	}
}

// stubCapture writes a script that streams zeros like parec would, so the
// subprocess lifecycle can be exercised without an audio server.
func stubCapture(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub capture script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-parec")
	script := "#!/bin/sh\nwhile :; do dd if=/dev/zero bs=320 count=1 2>/dev/null; sleep 0.02; done\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParecSourceLifecycle(t *testing.T) {
	old := parecBin
	parecBin = stubCapture(t)
	defer func() { parecBin = old }()

	src := NewParec(16000, "test.monitor")
	buf := NewBuffer(16000)
	src.SetCallback(buf.Push)

	if err := src.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	chunk := buf.Chunk(ctx, 0.01) // 160 samples
	if len(chunk) != 160 {
		t.Fatalf("chunk length = %d, want 160", len(chunk))
	}
	for _, s := range chunk {
		if s != 0 {
			t.Fatal("stub emits zeros; decoded samples should be zero")
		}
	}

	stopDone := make(chan struct{})
	go func() {
		src.Stop()
		close(stopDone)
	}()
	select {
	case <-stopDone:
	case <-time.After(stopTimeout + time.Second):
		t.Fatal("Stop did not terminate the capture process in time")
	}

	src.Stop() // idempotent
}

func TestParecSourceStopBeforeData(t *testing.T) {
	old := parecBin
	parecBin = stubCapture(t)
	defer func() { parecBin = old }()

	src := NewParec(16000, "test.monitor")
	if err := src.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Stop immediately; the subprocess must still be terminated.
	done := make(chan struct{})
	go func() {
		src.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopTimeout + time.Second):
		t.Fatal("Stop hung when no chunk was in progress")
	}
}

func TestParecSpawnFailure(t *testing.T) {
	old := parecBin
	parecBin = "parec-definitely-not-installed"
	defer func() { parecBin = old }()

	src := NewParec(16000, "")
	// Discovery must not run against the real pactl here either.
	oldPactl := pactlBin
	pactlBin = "pactl-definitely-not-installed"
	defer func() { pactlBin = oldPactl }()

	err := src.Start()
	if err == nil {
		t.Fatal("expected spawn failure")
	}
	if !errors.Is(err, ErrCaptureUnavailable) {
		t.Errorf("error %v should wrap ErrCaptureUnavailable", err)
	}
}
