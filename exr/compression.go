package exr

import "strconv"

// Compression identifies the method used to compress pixel blocks.
// The values match the compression attribute encoding on disk.
type Compression uint8

const (
	// CompressionNone stores uncompressed data.
	CompressionNone Compression = 0
	// CompressionRLE run-length encodes byte differences.
	CompressionRLE Compression = 1
	// CompressionZIPS deflates byte differences one scan line at a time.
	CompressionZIPS Compression = 2
	// CompressionZIP deflates byte differences 16 scan lines at a time.
	CompressionZIP Compression = 3
	// CompressionPIZ uses wavelet compression.
	CompressionPIZ Compression = 4
	// CompressionPXR24 uses 24-bit float conversion with zlib.
	CompressionPXR24 Compression = 5
	// CompressionB44 uses 4x4 block lossy compression.
	CompressionB44 Compression = 6
	// CompressionB44A uses B44 with flat area detection.
	CompressionB44A Compression = 7
)

// String returns a string representation of the compression type.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "rle"
	case CompressionZIPS:
		return "zips"
	case CompressionZIP:
		return "zip"
	case CompressionPIZ:
		return "piz"
	case CompressionPXR24:
		return "pxr24"
	case CompressionB44:
		return "b44"
	case CompressionB44A:
		return "b44a"
	default:
		return "unknown(" + strconv.Itoa(int(c)) + ")"
	}
}

// Valid reports whether c is one of the known methods.
func (c Compression) Valid() bool {
	return c <= CompressionB44A
}

// ScanLinesPerBlock returns how many consecutive scan lines of a scan-line
// image are compressed together. It depends on the method only.
func (c Compression) ScanLinesPerBlock() int {
	switch c {
	case CompressionZIP, CompressionPXR24:
		return 16
	case CompressionPIZ, CompressionB44, CompressionB44A:
		return 32
	default:
		return 1
	}
}

// SupportsDeepData reports whether the method may be used for deep
// scan-line and deep tiled blocks.
func (c Compression) SupportsDeepData() bool {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS, CompressionZIP:
		return true
	default:
		return false
	}
}

// IsLossy returns true if the compression is lossy.
func (c Compression) IsLossy() bool {
	return c == CompressionPXR24 || c == CompressionB44 || c == CompressionB44A
}
