// Package compression provides the byte-level engines behind OpenEXR block
// codecs: zlib deflate for ZIP and ZIPS, and OpenEXR's run-length format
// for RLE.
//
// The functions here see only flat byte buffers. Packing samples and the
// delta filter happen in the exr package.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// ZIP compression errors
var (
	ErrZIPCorrupted = errors.New("compression: corrupted ZIP data")
	ErrSizeLimit    = errors.New("compression: decompressed size exceeds limit")
)

// MaxDecompressedSize bounds the output of a single decompression when the
// caller does not pass a tighter limit.
const MaxDecompressedSize = 1 << 30

// Upper bounds on how much one input byte can expand. Size hints are capped
// by them so a short chunk cannot reserve more than it could ever decode to.
const (
	maxDeflateExpansion = 1032
	maxRLEExpansion     = 64
)

// Level is a zlib compression level.
type Level int

// Compression levels accepted by ZIPCompressLevel.
const (
	LevelHuffmanOnly Level = -2 // entropy coding only
	LevelDefault     Level = -1 // zlib level 6
	LevelNone        Level = 0  // stored blocks
	LevelBestSpeed   Level = 1
	LevelBestSize    Level = 9
)

// Valid reports whether l is a level zlib accepts.
func (l Level) Valid() bool {
	return l >= LevelHuffmanOnly && l <= LevelBestSize
}

// DetectZlibLevel reads the FLEVEL field of a zlib header and returns a
// representative level for it. ok is false when data does not start with a
// valid deflate zlib header.
//
// FLEVEL only has four buckets, so recompressing with the returned level
// reproduces the bucket, not necessarily the exact original bytes.
func DetectZlibLevel(data []byte) (level Level, ok bool) {
	if len(data) < 2 {
		return LevelDefault, false
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0F != 8 || (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return LevelDefault, false
	}
	switch flg >> 6 {
	case 0:
		return LevelBestSpeed, true
	case 1:
		return 4, true
	case 3:
		return LevelBestSize, true
	default:
		return LevelDefault, true
	}
}

type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

// Writers at the default level are pooled; it is by far the common case.
var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// ZIPCompress deflates src into a zlib stream at the default level.
func ZIPCompress(src []byte) ([]byte, error) {
	return ZIPCompressLevel(src, LevelDefault)
}

// ZIPCompressLevel deflates src into a zlib stream at the given level.
// An empty src yields an empty result.
func ZIPCompressLevel(src []byte, level Level) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	if level == LevelDefault {
		item := zlibWriterPool.Get().(*zlibWriterPoolItem)
		defer zlibWriterPool.Put(item)
		item.buf.Reset()
		item.writer.Reset(item.buf)
		if err := writeAll(item.writer, src); err != nil {
			return nil, err
		}
		return bytes.Clone(item.buf.Bytes()), nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(src)/2+64))
	w, err := zlib.NewWriterLevel(buf, int(level))
	if err != nil {
		return nil, err
	}
	if err := writeAll(w, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAll(w *zlib.Writer, src []byte) error {
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

type zlibReaderPoolItem struct {
	reader io.ReadCloser
	src    *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{src: bytes.NewReader(nil)}
	},
}

// reset points the pooled reader at src, creating it on first use.
func (item *zlibReaderPoolItem) reset(src []byte) error {
	item.src.Reset(src)
	if item.reader != nil {
		if r, ok := item.reader.(zlib.Resetter); ok {
			if err := r.Reset(item.src, nil); err == nil {
				return nil
			}
		}
		item.reader.Close()
		item.reader = nil
	}
	r, err := zlib.NewReader(item.src)
	if err != nil {
		return err
	}
	item.reader = r
	return nil
}

// ZIPDecompress inflates a zlib stream.
//
// sizeHint preallocates the output when it is non-negative; the result may
// still be shorter or longer than the hint, callers that know the exact
// size compare it themselves. limit caps the output (MaxDecompressedSize
// when limit <= 0); exceeding it returns ErrSizeLimit. Malformed input
// returns an error wrapping ErrZIPCorrupted.
func ZIPDecompress(src []byte, sizeHint, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = MaxDecompressedSize
	}
	if len(src) == 0 {
		return nil, nil
	}

	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	defer zlibReaderPool.Put(item)
	if err := item.reset(src); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrZIPCorrupted, err)
	}

	if sizeHint < 0 {
		sizeHint = 2 * len(src)
	}
	sizeHint = min(sizeHint, limit, maxDeflateExpansion*len(src)+64)
	out := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := out.ReadFrom(io.LimitReader(item.reader, int64(limit)+1)); err != nil {
		// the reader is in an undefined state after a failure
		item.reader.Close()
		item.reader = nil
		return nil, fmt.Errorf("%w: %v", ErrZIPCorrupted, err)
	}
	if out.Len() > limit {
		return nil, ErrSizeLimit
	}
	return out.Bytes(), nil
}
