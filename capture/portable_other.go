//go:build !linux

package capture

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// PortableSource captures through miniaudio on platforms without
// PulseAudio. Windows gets true loopback (WASAPI); elsewhere the default
// capture device stands in for a monitor source.
type PortableSource struct {
	rate int

	cb atomic.Pointer[FrameCallback]

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

func NewPortable(sampleRate int) *PortableSource {
	return &PortableSource{rate: sampleRate}
}

func (s *PortableSource) Name() string { return "portable" }

func (s *PortableSource) SetCallback(cb FrameCallback) {
	s.cb.Store(&cb)
}

func (s *PortableSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device != nil {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("%w: malgo context: %v", ErrCaptureUnavailable, err)
	}

	deviceType := malgo.Capture
	if runtime.GOOS == "windows" {
		deviceType = malgo.Loopback
	}
	deviceConfig := malgo.DefaultDeviceConfig(deviceType)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(s.rate)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, data []byte, frameCount uint32) {
			if cb := s.cb.Load(); cb != nil && len(data) > 0 {
				(*cb)(decodeS16LE(data))
			}
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("%w: malgo device: %v", ErrCaptureUnavailable, err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("%w: malgo start: %v", ErrCaptureUnavailable, err)
	}

	s.ctx = ctx
	s.device = device
	return nil
}

func (s *PortableSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device == nil {
		return
	}
	s.device.Stop()
	s.device.Uninit()
	s.ctx.Uninit()
	s.ctx.Free()
	s.device = nil
	s.ctx = nil
}
