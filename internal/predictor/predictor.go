// Package predictor implements the byte-wise delta filter applied to packed
// pixel blocks before they are handed to a byte compressor.
//
// Encode replaces every byte with its difference from the preceding byte,
// modulo 256, leaving the first byte untouched. Decode is the matching
// prefix sum. Smooth image data turns into long runs of small values, which
// deflate and run-length coding handle well.
package predictor

// Encode applies the delta filter to data in place.
func Encode(data []byte) {
	// walk backwards so every predecessor is still the original byte
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// Decode reverses Encode in place.
func Decode(data []byte) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}

