// Package exr converts OpenEXR pixel blocks between typed per-channel
// samples and the compressed chunk payloads stored in files.
//
// Compress and Decompress are the entry points. They pick a codec by
// compression method; every codec packs samples with Pack, transforms the
// bytes, and reverses the steps with Unpack. Scan-line, tiled, deep
// scan-line and deep tiled blocks are supported with None, RLE, ZIPS and
// ZIP. PIZ, PXR24, B44 and B44A are recognised but return ErrUnsupported.
//
// RLE, ZIPS and ZIP all work on the channel-planar packing produced by
// Pack, with a plain byte delta filter and no even/odd byte interleaving.
// Chunks written by other OpenEXR implementations use a scan-line
// interleaved layout and are not byte compatible with these codecs.
//
// All functions are synchronous and keep no state between calls, so
// distinct blocks can be processed concurrently; see CompressBlocks and
// DecompressBlocks.
package exr

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-exrchunk/compression"
)

// UnknownSize is passed as the expected size to Decompress when the caller
// does not know the uncompressed byte count of a block.
const UnknownSize = -1

// codec is a byte transform applied around Pack and Unpack.
//
// compress owns packed and may modify it. decompress returns the packed
// bytes; sizeHint preallocates, limit caps the output (0 for the package
// default).
type codec struct {
	compress   func(packed []byte, level compression.Level) ([]byte, error)
	decompress func(src []byte, sizeHint, limit int) ([]byte, error)
}

var codecs = map[Compression]codec{
	CompressionNone: storeCodec,
	CompressionRLE:  rleCodec,
	CompressionZIPS: zipCodec,
	CompressionZIP:  zipCodec,
}

var storeCodec = codec{
	compress: func(packed []byte, _ compression.Level) ([]byte, error) {
		return packed, nil
	},
	decompress: func(src []byte, _, _ int) ([]byte, error) {
		return src, nil
	},
}

func lookup(method Compression, kind BlockKind) (codec, error) {
	if kind.IsDeep() && !method.SupportsDeepData() {
		return codec{}, &UnsupportedError{Method: method, Deep: true}
	}
	c, ok := codecs[method]
	if !ok {
		return codec{}, &UnsupportedError{Method: method}
	}
	return c, nil
}

// Compress serializes a block and compresses it with method at the default
// zlib level. The channel buffers of data must already be in the file's
// channel order.
func Compress(method Compression, data DataSection) ([]byte, error) {
	return CompressLevel(method, data, compression.LevelDefault)
}

// CompressLevel is Compress with an explicit zlib level. The level only
// affects ZIP and ZIPS.
func CompressLevel(method Compression, data DataSection, level compression.Level) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data section", ErrChannelMismatch)
	}
	c, err := lookup(method, data.Kind())
	if err != nil {
		return nil, err
	}
	packed, err := Pack(data)
	if err != nil {
		return nil, err
	}
	return c.compress(packed, level)
}

// Decompress reconstructs the typed samples of one block.
//
// channels lists the block's channels in file order and g locates the
// block; both come from the part header. expectedSize is the uncompressed
// byte count when the caller knows it, or UnknownSize. A known size is
// checked against the geometry (flat blocks), the decoded length, and the
// sample count table (deep blocks); any disagreement is a
// SizeMismatchError.
func Decompress(method Compression, kind BlockKind, data []byte, expectedSize int, channels []Channel, g Geometry) (DataSection, error) {
	c, err := lookup(method, kind)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown block kind %d", ErrInvalidGeometry, kind)
	}

	sizeHint, limit := expectedSize, 0
	if expectedSize >= 0 {
		limit = expectedSize
	}
	if !kind.IsDeep() {
		size, err := UncompressedSize(kind, g, channels)
		if err != nil {
			return nil, err
		}
		if expectedSize >= 0 && expectedSize != size {
			return nil, &SizeMismatchError{Expected: expectedSize, Actual: size}
		}
		sizeHint = size
	}

	raw, err := c.decompress(data, sizeHint, limit)
	if err != nil {
		if expectedSize >= 0 && errors.Is(err, compression.ErrSizeLimit) {
			return nil, &SizeMismatchError{Expected: expectedSize, Actual: -1}
		}
		return nil, err
	}
	if expectedSize >= 0 && len(raw) != expectedSize {
		return nil, &SizeMismatchError{Expected: expectedSize, Actual: len(raw)}
	}

	ds, consumed, err := unpack(kind, raw, channels, g)
	if err != nil {
		return nil, err
	}
	if kind.IsDeep() && expectedSize >= 0 && consumed != expectedSize {
		return nil, &SizeMismatchError{Expected: expectedSize, Actual: consumed}
	}
	return ds, nil
}
