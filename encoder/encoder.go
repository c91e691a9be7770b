// Package encoder turns raw chunk samples into an audio container the
// transcription API accepts: WAV (uncompressed, default) or FLAC
// (lossless, smaller uploads).
package encoder

import "fmt"

const (
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
}

func New(format string, sampleRate int) (Encoder, error) {
	switch format {
	case "wav":
		return NewWav(sampleRate), nil
	case "flac":
		return NewFlac(sampleRate)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Quantize converts normalized float32 samples to 16-bit PCM, clipping
// anything outside [-1, 1].
func Quantize(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}
