package exr

import (
	"fmt"

	"github.com/mrjoshuak/go-exrchunk/compression"
	"github.com/mrjoshuak/go-exrchunk/internal/predictor"
)

// RLE filters the packed block like ZIP and run-length codes the result.
var rleCodec = codec{
	compress:   rleCompress,
	decompress: rleDecompress,
}

func rleCompress(packed []byte, _ compression.Level) ([]byte, error) {
	predictor.Encode(packed)
	return compression.RLECompress(packed), nil
}

func rleDecompress(src []byte, sizeHint, limit int) ([]byte, error) {
	raw, err := compression.RLEDecompress(src, sizeHint, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	predictor.Decode(raw)
	return raw, nil
}
