package compression

import "errors"

// RLE compression errors
var (
	ErrRLECorrupted = errors.New("compression: corrupted RLE data")
)

const (
	rleMinRun = 3
	rleMaxRun = 127
)

// RLECompress encodes src in OpenEXR's run-length format.
//
// The stream is a sequence of records led by a signed count byte:
//   - count < 0: the next byte repeats 1-count times
//   - count >= 0: the next count+1 bytes are literals
//
// For example [A A A A B C D] encodes as [-3 A 2 B C D].
func RLECompress(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	dst := make([]byte, 0, len(src)+len(src)/rleMaxRun+1)

	i := 0
	for i < len(src) {
		run := 1
		for i+run < len(src) && src[i+run] == src[i] && run < rleMaxRun {
			run++
		}
		if run >= rleMinRun {
			dst = append(dst, byte(-(run - 1)), src[i])
			i += run
			continue
		}

		start := i
		for i < len(src) && i-start < rleMaxRun {
			if i+rleMinRun <= len(src) && src[i+1] == src[i] && src[i+2] == src[i] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}
	return dst
}

// RLEDecompress decodes an OpenEXR run-length stream.
//
// sizeHint preallocates the output when non-negative. limit caps the
// output as in ZIPDecompress. Truncated records return ErrRLECorrupted.
func RLEDecompress(src []byte, sizeHint, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = MaxDecompressedSize
	}
	if len(src) == 0 {
		return nil, nil
	}
	if sizeHint < 0 {
		sizeHint = 2 * len(src)
	}
	sizeHint = min(sizeHint, limit, maxRLEExpansion*len(src))
	dst := make([]byte, 0, sizeHint)

	for i := 0; i < len(src); {
		count := int(int8(src[i]))
		i++

		if count < 0 {
			if i >= len(src) {
				return nil, ErrRLECorrupted
			}
			n := 1 - count
			if len(dst)+n > limit {
				return nil, ErrSizeLimit
			}
			v := src[i]
			i++
			for ; n > 0; n-- {
				dst = append(dst, v)
			}
			continue
		}

		n := count + 1
		if i+n > len(src) {
			return nil, ErrRLECorrupted
		}
		if len(dst)+n > limit {
			return nil, ErrSizeLimit
		}
		dst = append(dst, src[i:i+n]...)
		i += n
	}
	return dst, nil
}
