package encoder

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavEncoder buffers samples and writes a RIFF/WAVE container on Close.
// wav.NewEncoder needs an io.WriteSeeker to patch up the header, so the
// container goes through a temp file rather than a plain buffer.
type WavEncoder struct {
	rate        int
	samples     []int
	data        []byte
	totalFrames uint64
	closed      bool
}

func NewWav(sampleRate int) *WavEncoder {
	return &WavEncoder{rate: sampleRate}
}

func (e *WavEncoder) EncodeBlock(block []int16) error {
	for _, s := range block {
		e.samples = append(e.samples, int(s))
	}
	e.totalFrames += uint64(len(block))
	return nil
}

func (e *WavEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	file, err := os.CreateTemp("", "livecap_*.wav")
	if err != nil {
		return fmt.Errorf("wav temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	enc := wav.NewEncoder(file, e.rate, BitsPerSample, Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: Channels, SampleRate: e.rate},
		Data:           e.samples,
		SourceBitDepth: BitsPerSample,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read wav back: %w", err)
	}
	e.data = data
	return nil
}

func (e *WavEncoder) Bytes() []byte {
	return e.data
}

func (e *WavEncoder) TotalFrames() uint64 {
	return e.totalFrames
}
