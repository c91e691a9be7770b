package capture

import (
	"context"
	"testing"
	"time"
)

func frameOf(n int, value float32) []float32 {
	f := make([]float32, n)
	for i := range f {
		f[i] = value
	}
	return f
}

func TestChunkExactLength(t *testing.T) {
	b := NewBuffer(1000)
	// 1200 samples available, chunk wants 1000
	b.Push(frameOf(700, 0.1))
	b.Push(frameOf(500, 0.2))

	chunk := b.Chunk(context.Background(), 1.0)
	if len(chunk) != 1000 {
		t.Fatalf("chunk length = %d, want 1000", len(chunk))
	}
}

func TestChunkCarriesExcess(t *testing.T) {
	b := NewBuffer(1000)
	b.Push(frameOf(1500, 0.5))

	first := b.Chunk(context.Background(), 1.0)
	if len(first) != 1000 {
		t.Fatalf("first chunk length = %d, want 1000", len(first))
	}

	// The 500 excess samples plus 500 fresh ones form the next chunk.
	b.Push(frameOf(500, 0.7))
	second := b.Chunk(context.Background(), 1.0)
	if len(second) != 1000 {
		t.Fatalf("second chunk length = %d, want 1000", len(second))
	}
	if second[0] != 0.5 {
		t.Errorf("second chunk should start with carried samples, got %v", second[0])
	}
	if second[999] != 0.7 {
		t.Errorf("second chunk should end with fresh samples, got %v", second[999])
	}
}

func TestChunkSpansManyFrames(t *testing.T) {
	b := NewBuffer(100)
	for i := 0; i < 10; i++ {
		b.Push(frameOf(10, float32(i)))
	}
	chunk := b.Chunk(context.Background(), 1.0)
	if len(chunk) != 100 {
		t.Fatalf("chunk length = %d, want 100", len(chunk))
	}
	if chunk[0] != 0 || chunk[99] != 9 {
		t.Error("chunk not assembled in arrival order")
	}
}

func TestChunkNilOnCancel(t *testing.T) {
	b := NewBuffer(1000)
	b.Push(frameOf(100, 0.1)) // not enough for a full chunk

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []float32, 1)
	go func() { done <- b.Chunk(ctx, 1.0) }()

	cancel()
	select {
	case chunk := <-done:
		if chunk != nil {
			t.Errorf("expected nil chunk after cancel, got %d samples", len(chunk))
		}
	case <-time.After(2 * pollInterval):
		t.Fatal("Chunk did not observe cancellation within the poll bound")
	}
}

func TestChunkBlocksUntilEnough(t *testing.T) {
	b := NewBuffer(100)
	done := make(chan []float32, 1)
	go func() { done <- b.Chunk(context.Background(), 1.0) }()

	select {
	case <-done:
		t.Fatal("Chunk returned before enough samples arrived")
	case <-time.After(50 * time.Millisecond):
	}

	b.Push(frameOf(100, 0.3))
	select {
	case chunk := <-done:
		if len(chunk) != 100 {
			t.Errorf("chunk length = %d, want 100", len(chunk))
		}
	case <-time.After(2 * pollInterval):
		t.Fatal("Chunk did not return after samples arrived")
	}
}

func TestDecodeS16LE(t *testing.T) {
	// 0x7FFF = max positive, 0x8000 = max negative, 0x0000 = zero
	data := []byte{0xFF, 0x7F, 0x00, 0x80, 0x00, 0x00, 0x01} // trailing odd byte
	samples := decodeS16LE(data)
	if len(samples) != 3 {
		t.Fatalf("len = %d, want 3", len(samples))
	}
	if samples[0] < 0.999 {
		t.Errorf("max positive sample = %v", samples[0])
	}
	if samples[1] != -1.0 {
		t.Errorf("max negative sample = %v, want -1.0", samples[1])
	}
	if samples[2] != 0 {
		t.Errorf("zero sample = %v, want 0", samples[2])
	}
}

func TestPeak(t *testing.T) {
	if p := Peak([]float32{0.1, -0.6, 0.3}); p != 0.6 {
		t.Errorf("Peak = %v, want 0.6", p)
	}
	if p := Peak(nil); p != 0 {
		t.Errorf("Peak(nil) = %v, want 0", p)
	}
}

func TestFakeSourceStopIdempotent(t *testing.T) {
	src := NewFakeSource([][]float32{frameOf(10, 0.1)}, 0)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}
	src.Stop()
	src.Stop()
	if got := src.StopCount(); got != 1 {
		t.Errorf("StopCount = %d, want 1", got)
	}
}

func TestFakeSourceStopBeforeAnyFrame(t *testing.T) {
	src := NewFakeSource(nil, 0)
	src.SetCallback(func([]float32) {})
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}
	src.Stop()
	if src.StopCount() != 1 {
		t.Error("source not terminated despite producing no audio")
	}
}
