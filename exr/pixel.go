package exr

// PixelType is the sample encoding of a channel. The values match the
// channel list encoding on disk.
type PixelType uint32

const (
	// PixelTypeUint is a 32-bit unsigned integer.
	PixelTypeUint PixelType = 0
	// PixelTypeHalf is a 16-bit IEEE 754 half-precision float.
	PixelTypeHalf PixelType = 1
	// PixelTypeFloat is a 32-bit IEEE 754 single-precision float.
	PixelTypeFloat PixelType = 2
)

// String returns a string representation of the pixel type.
func (pt PixelType) String() string {
	switch pt {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Size returns the size in bytes of one sample, or 0 for unknown types.
func (pt PixelType) Size() int {
	switch pt {
	case PixelTypeUint, PixelTypeFloat:
		return 4
	case PixelTypeHalf:
		return 2
	default:
		return 0
	}
}

// Valid reports whether pt is one of the three known pixel types.
func (pt PixelType) Valid() bool {
	return pt <= PixelTypeFloat
}

// Channel describes one image channel.
//
// A block stores its channels back to back in the order of the channel
// slice handed to the codecs, which must be the file's declared order.
type Channel struct {
	// Name is the channel name (e.g., "R", "G", "B", "A", "Z").
	Name string
	// Type is the pixel data type.
	Type PixelType
	// XSampling is the horizontal subsampling factor (1 = full resolution).
	XSampling int32
	// YSampling is the vertical subsampling factor (1 = full resolution).
	YSampling int32
	// PLinear marks perceptually linear data. It does not affect layout.
	PLinear bool
}

// NewChannel creates a full resolution channel with the given name and type.
func NewChannel(name string, pixelType PixelType) Channel {
	return Channel{
		Name:      name,
		Type:      pixelType,
		XSampling: 1,
		YSampling: 1,
	}
}
