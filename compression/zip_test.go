package compression

import (
	"bytes"
	"errors"
	"runtime"
	"testing"
)

func TestZIPEmpty(t *testing.T) {
	got, err := ZIPCompress(nil)
	if err != nil || got != nil {
		t.Errorf("ZIPCompress(nil) = %v, %v", got, err)
	}
	got, err = ZIPDecompress(nil, 0, 0)
	if err != nil || got != nil {
		t.Errorf("ZIPDecompress(nil) = %v, %v", got, err)
	}
}

func TestZIPRoundTrip(t *testing.T) {
	large := make([]byte, 4096)
	for i := range large {
		if i%100 < 30 {
			large[i] = 0
		} else {
			large[i] = byte(i * 17)
		}
	}
	tests := [][]byte{
		{1},
		{1, 2, 3, 4, 5},
		{100, 100, 100, 100, 100, 100, 100, 100},
		large,
	}

	for i, original := range tests {
		compressed, err := ZIPCompress(original)
		if err != nil {
			t.Fatalf("case %d: compress: %v", i, err)
		}
		for _, hint := range []int{-1, 0, len(original)} {
			got, err := ZIPDecompress(compressed, hint, 0)
			if err != nil {
				t.Fatalf("case %d hint %d: decompress: %v", i, hint, err)
			}
			if !bytes.Equal(got, original) {
				t.Errorf("case %d hint %d: round trip mismatch", i, hint)
			}
		}
	}
}

func TestZIPLevels(t *testing.T) {
	data := bytes.Repeat([]byte("exr block "), 200)
	for _, level := range []Level{LevelHuffmanOnly, LevelNone, LevelBestSpeed, 4, LevelBestSize} {
		compressed, err := ZIPCompressLevel(data, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		got, err := ZIPDecompress(compressed, len(data), 0)
		if err != nil || !bytes.Equal(got, data) {
			t.Errorf("level %d: round trip failed: %v", level, err)
		}
		if _, ok := DetectZlibLevel(compressed); !ok {
			t.Errorf("level %d: header not recognised", level)
		}
	}
	if _, err := ZIPCompressLevel(data, 42); err == nil {
		t.Error("invalid level accepted")
	}
	if Level(42).Valid() || !LevelDefault.Valid() {
		t.Error("Level.Valid misreports")
	}
}

func TestDetectZlibLevel(t *testing.T) {
	tests := []struct {
		header []byte
		want   Level
		ok     bool
	}{
		{[]byte{0x78, 0x01}, LevelBestSpeed, true},
		{[]byte{0x78, 0x5E}, 4, true},
		{[]byte{0x78, 0x9C}, LevelDefault, true},
		{[]byte{0x78, 0xDA}, LevelBestSize, true},
		{[]byte{0x78}, LevelDefault, false},
		{[]byte{0x79, 0x9C}, LevelDefault, false},
		{[]byte{0x78, 0x9D}, LevelDefault, false},
	}
	for _, tt := range tests {
		got, ok := DetectZlibLevel(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("DetectZlibLevel(% x) = %d, %v; want %d, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestZIPDecompressErrors(t *testing.T) {
	if _, err := ZIPDecompress([]byte{0x78, 0x9c, 0xff, 0xff}, 5, 0); !errors.Is(err, ErrZIPCorrupted) {
		t.Errorf("corrupt stream: err = %v", err)
	}
	if _, err := ZIPDecompress([]byte{1, 2, 3}, 5, 0); !errors.Is(err, ErrZIPCorrupted) {
		t.Errorf("bad header: err = %v", err)
	}

	compressed, _ := ZIPCompress(bytes.Repeat([]byte{7}, 1000))
	if _, err := ZIPDecompress(compressed[:len(compressed)-6], -1, 0); !errors.Is(err, ErrZIPCorrupted) {
		t.Errorf("truncated stream: err = %v", err)
	}
	if _, err := ZIPDecompress(compressed, -1, 100); !errors.Is(err, ErrSizeLimit) {
		t.Errorf("limit: err = %v", err)
	}

	// a failed stream must not poison the pooled reader
	got, err := ZIPDecompress(compressed, 1000, 0)
	if err != nil || len(got) != 1000 {
		t.Errorf("after failure: %d bytes, %v", len(got), err)
	}
}

// allocatedBytes reports how many heap bytes fn allocates.
func allocatedBytes(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestDecompressHintBoundedByInput(t *testing.T) {
	zipped, err := ZIPCompress(make([]byte, 16))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		decompress func() ([]byte, error)
		size       int
	}{
		{"zip", func() ([]byte, error) { return ZIPDecompress(zipped, 1<<30, 0) }, 16},
		{"rle", func() ([]byte, error) { return RLEDecompress([]byte{byte(0xF1), 0}, 1<<30, 0) }, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				out []byte
				err error
			)
			n := allocatedBytes(func() { out, err = tt.decompress() })
			if err != nil || len(out) != tt.size {
				t.Fatalf("got %d bytes, %v; want %d", len(out), err, tt.size)
			}
			if n > 1<<20 {
				t.Errorf("a %d byte size hint on a tiny input allocated %d bytes", 1<<30, n)
			}
		})
	}
}

func FuzzZIPDecompress(f *testing.F) {
	seed, _ := ZIPCompress([]byte("some pixel bytes"))
	f.Add(seed)
	f.Add([]byte{0x78, 0x9c})
	f.Fuzz(func(t *testing.T, data []byte) {
		out, err := ZIPDecompress(data, -1, 1<<16)
		if err == nil && len(out) > 1<<16 {
			t.Fatalf("output of %d bytes exceeds limit", len(out))
		}
	})
}

func BenchmarkZIPCompress(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		if i%10 < 5 {
			data[i] = byte(i)
		}
	}
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		ZIPCompress(data)
	}
}
