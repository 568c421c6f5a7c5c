package exr

import (
	"fmt"

	"github.com/mrjoshuak/go-exrchunk/compression"
	"github.com/mrjoshuak/go-exrchunk/internal/predictor"
)

// ZIP and ZIPS share one transform: the packed block goes through the
// byte delta filter and then zlib. They differ only in how many scan lines
// a block holds.
var zipCodec = codec{
	compress:   zipCompress,
	decompress: zipDecompress,
}

func zipCompress(packed []byte, level compression.Level) ([]byte, error) {
	predictor.Encode(packed)
	out, err := compression.ZIPCompressLevel(packed, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailure, err)
	}
	return out, nil
}

func zipDecompress(src []byte, sizeHint, limit int) ([]byte, error) {
	raw, err := compression.ZIPDecompress(src, sizeHint, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	predictor.Decode(raw)
	return raw, nil
}
