package exr

import (
	"errors"
	"fmt"
)

// Codec errors. Every failure returned by Compress, Decompress, Pack and
// Unpack matches one of these with errors.Is.
var (
	ErrUnsupported     = errors.New("exr: unsupported compression")
	ErrSizeMismatch    = errors.New("exr: block size mismatch")
	ErrTruncatedInput  = errors.New("exr: truncated block data")
	ErrDecodeFailure   = errors.New("exr: cannot decode compressed block")
	ErrEncodeFailure   = errors.New("exr: cannot encode block")
	ErrInvalidGeometry = errors.New("exr: invalid block geometry")
	ErrChannelMismatch = errors.New("exr: block data does not match channels")
)

// UnsupportedError is returned for a method this package cannot encode or
// decode, or for deep data with a method that has no deep variant.
type UnsupportedError struct {
	Method Compression
	Deep   bool
}

func (e *UnsupportedError) Error() string {
	if e.Deep {
		return fmt.Sprintf("exr: compression %s does not support deep data", e.Method)
	}
	return fmt.Sprintf("exr: compression %s is not supported", e.Method)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// SizeMismatchError reports a declared byte size that disagrees with the
// size derived from the block geometry or found in the data. Actual is -1
// when decoding stopped as soon as the data exceeded Expected.
type SizeMismatchError struct {
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	if e.Actual < 0 {
		return fmt.Sprintf("exr: block size mismatch: expected %d bytes, got more", e.Expected)
	}
	return fmt.Sprintf("exr: block size mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

func (e *SizeMismatchError) Is(target error) bool {
	return target == ErrSizeMismatch
}
