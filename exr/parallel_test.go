package exr

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestParallelFor(t *testing.T) {
	configs := []ParallelConfig{
		DefaultParallelConfig(),
		{NumWorkers: 1},
		{NumWorkers: 4, GrainSize: 1},
		{NumWorkers: 8, GrainSize: 1000},
	}
	for _, config := range configs {
		var count int64
		seen := make([]int32, 1000)
		err := parallelFor(len(seen), config, func(i int) error {
			atomic.AddInt64(&count, 1)
			atomic.AddInt32(&seen[i], 1)
			return nil
		})
		if err != nil {
			t.Fatalf("%+v: %v", config, err)
		}
		if count != int64(len(seen)) {
			t.Errorf("%+v: processed %d items, want %d", config, count, len(seen))
		}
		for i, n := range seen {
			if n != 1 {
				t.Fatalf("%+v: item %d processed %d times", config, i, n)
			}
		}
	}
}

func TestParallelForError(t *testing.T) {
	want := errors.New("boom")
	for _, config := range []ParallelConfig{{NumWorkers: 1}, {NumWorkers: 4, GrainSize: 1}} {
		err := parallelFor(100, config, func(i int) error {
			if i == 50 {
				return want
			}
			return nil
		})
		if err != want {
			t.Errorf("%+v: error = %v, want %v", config, err, want)
		}
	}
}

func TestBlocksRoundTrip(t *testing.T) {
	dw := Box2i{Max: V2i{31, 63}}
	channels := testChannels()
	config := ParallelConfig{NumWorkers: 4, GrainSize: 1}

	var (
		blocks   []DataSection
		requests []BlockRequest
	)
	for y := 0; y <= int(dw.Max.Y); y += CompressionZIP.ScanLinesPerBlock() {
		g, err := ScanLineGeometry(dw, y, CompressionZIP)
		if err != nil {
			t.Fatal(err)
		}
		blocks = append(blocks, makeFlatBlock(t, BlockScanLine, channels, g))
		requests = append(requests, BlockRequest{Kind: BlockScanLine, ExpectedSize: UnknownSize, Geometry: g})
	}

	compressed, err := CompressBlocks(CompressionZIP, blocks, config)
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) != len(blocks) {
		t.Fatalf("CompressBlocks returned %d blocks, want %d", len(compressed), len(blocks))
	}
	for i := range requests {
		requests[i].Data = compressed[i]
	}

	decoded, err := DecompressBlocks(CompressionZIP, channels, requests, config)
	if err != nil {
		t.Fatal(err)
	}
	for i := range blocks {
		assertSameSection(t, decoded[i], blocks[i])
	}
}

func TestBlocksError(t *testing.T) {
	blocks := []DataSection{
		ScanLineBlock{Channels: []PixelData{NewFloatData([]float32{1})}},
		nil,
	}
	_, err := CompressBlocks(CompressionRLE, blocks, ParallelConfig{NumWorkers: 1})
	if !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("CompressBlocks() = %v, want ErrChannelMismatch", err)
	}
	if !strings.HasPrefix(err.Error(), "block 1: ") {
		t.Errorf("error %q does not name the failing block", err)
	}

	channels := []Channel{NewChannel("Z", PixelTypeFloat)}
	requests := []BlockRequest{{
		Kind:         BlockDeepTile,
		Data:         []byte{1},
		ExpectedSize: UnknownSize,
	}}
	_, err = DecompressBlocks(CompressionB44, channels, requests, DefaultParallelConfig())
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("DecompressBlocks() = %v, want ErrUnsupported", err)
	}
}

func BenchmarkDecompressBlocks(b *testing.B) {
	dw := Box2i{Max: V2i{255, 255}}
	channels := testChannels()

	var requests []BlockRequest
	for y := 0; y <= int(dw.Max.Y); y += CompressionZIP.ScanLinesPerBlock() {
		g, err := ScanLineGeometry(dw, y, CompressionZIP)
		if err != nil {
			b.Fatal(err)
		}
		data, err := Compress(CompressionZIP, makeFlatBlock(b, BlockScanLine, channels, g))
		if err != nil {
			b.Fatal(err)
		}
		requests = append(requests, BlockRequest{Kind: BlockScanLine, Data: data, ExpectedSize: UnknownSize, Geometry: g})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecompressBlocks(CompressionZIP, channels, requests, DefaultParallelConfig()); err != nil {
			b.Fatal(err)
		}
	}
}
