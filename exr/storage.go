package exr

import (
	"fmt"
	"math"

	"github.com/mrjoshuak/go-exrchunk/half"
)

// PixelData is the sample buffer of one channel within one block.
// Exactly the slice matching Type is used; the others are nil.
type PixelData struct {
	Type  PixelType
	Uint  []uint32
	Half  []half.Half
	Float []float32
}

// NewUintData wraps 32-bit unsigned samples.
func NewUintData(samples []uint32) PixelData {
	return PixelData{Type: PixelTypeUint, Uint: samples}
}

// NewHalfData wraps half-precision samples.
func NewHalfData(samples []half.Half) PixelData {
	return PixelData{Type: PixelTypeHalf, Half: samples}
}

// NewFloatData wraps 32-bit float samples.
func NewFloatData(samples []float32) PixelData {
	return PixelData{Type: PixelTypeFloat, Float: samples}
}

// MakePixelData allocates n zero samples of the given type.
func MakePixelData(pt PixelType, n int) PixelData {
	switch pt {
	case PixelTypeUint:
		return NewUintData(make([]uint32, n))
	case PixelTypeHalf:
		return NewHalfData(make([]half.Half, n))
	case PixelTypeFloat:
		return NewFloatData(make([]float32, n))
	default:
		return PixelData{Type: pt}
	}
}

// Len returns the number of samples.
func (p PixelData) Len() int {
	switch p.Type {
	case PixelTypeUint:
		return len(p.Uint)
	case PixelTypeHalf:
		return len(p.Half)
	case PixelTypeFloat:
		return len(p.Float)
	default:
		return 0
	}
}

// Slice returns samples [start, end) sharing the underlying buffer.
func (p PixelData) Slice(start, end int) PixelData {
	switch p.Type {
	case PixelTypeUint:
		return NewUintData(p.Uint[start:end])
	case PixelTypeHalf:
		return NewHalfData(p.Half[start:end])
	case PixelTypeFloat:
		return NewFloatData(p.Float[start:end])
	default:
		return p
	}
}

// Equal reports whether p and o hold the same type and the same sample
// bit patterns. NaNs compare equal to identical NaNs.
func (p PixelData) Equal(o PixelData) bool {
	if p.Type != o.Type || p.Len() != o.Len() {
		return false
	}
	switch p.Type {
	case PixelTypeUint:
		for i, v := range p.Uint {
			if o.Uint[i] != v {
				return false
			}
		}
	case PixelTypeHalf:
		for i, v := range p.Half {
			if o.Half[i] != v {
				return false
			}
		}
	case PixelTypeFloat:
		for i, v := range p.Float {
			if math.Float32bits(o.Float[i]) != math.Float32bits(v) {
				return false
			}
		}
	}
	return true
}

// DataSection is the unit exchanged with the codecs: the typed samples of
// one block. It is implemented by ScanLineBlock, TileBlock,
// DeepScanLineBlock and DeepTileBlock.
type DataSection interface {
	Kind() BlockKind
	// ChannelData returns one buffer per channel in channel order.
	ChannelData() []PixelData

	sampleCounts() []uint32
}

// ScanLineBlock holds the samples of a scan-line block.
type ScanLineBlock struct {
	Channels []PixelData
}

func (b ScanLineBlock) Kind() BlockKind { return BlockScanLine }
func (b ScanLineBlock) ChannelData() []PixelData { return b.Channels }
func (b ScanLineBlock) sampleCounts() []uint32 { return nil }

// TileBlock holds the samples of one tile.
type TileBlock struct {
	Channels []PixelData
}

func (b TileBlock) Kind() BlockKind { return BlockTile }
func (b TileBlock) ChannelData() []PixelData { return b.Channels }
func (b TileBlock) sampleCounts() []uint32 { return nil }

// DeepScanLineBlock holds a deep scan-line block. SampleCounts has one
// entry per pixel in row-major order; every channel buffer holds
// TotalSamples(SampleCounts) samples, pixel after pixel.
type DeepScanLineBlock struct {
	SampleCounts []uint32
	Channels     []PixelData
}

func (b DeepScanLineBlock) Kind() BlockKind { return BlockDeepScanLine }
func (b DeepScanLineBlock) ChannelData() []PixelData { return b.Channels }
func (b DeepScanLineBlock) sampleCounts() []uint32 { return b.SampleCounts }

// PixelSamples returns the samples of one pixel of one channel.
func (b DeepScanLineBlock) PixelSamples(channel, pixel int) PixelData {
	return deepPixel(b.SampleCounts, b.Channels[channel], pixel)
}

// DeepTileBlock holds a deep tile, laid out like DeepScanLineBlock.
type DeepTileBlock struct {
	SampleCounts []uint32
	Channels     []PixelData
}

func (b DeepTileBlock) Kind() BlockKind { return BlockDeepTile }
func (b DeepTileBlock) ChannelData() []PixelData { return b.Channels }
func (b DeepTileBlock) sampleCounts() []uint32 { return b.SampleCounts }

// PixelSamples returns the samples of one pixel of one channel.
func (b DeepTileBlock) PixelSamples(channel, pixel int) PixelData {
	return deepPixel(b.SampleCounts, b.Channels[channel], pixel)
}

func deepPixel(counts []uint32, data PixelData, pixel int) PixelData {
	start := TotalSamples(counts[:pixel])
	return data.Slice(start, start+int(counts[pixel]))
}

// SampleCounts returns the per-pixel sample counts of a deep section, or
// nil for flat sections.
func SampleCounts(ds DataSection) []uint32 {
	return ds.sampleCounts()
}

// NewDataSection builds the section variant for kind. counts is ignored
// for flat kinds.
func NewDataSection(kind BlockKind, channels []PixelData, counts []uint32) (DataSection, error) {
	switch kind {
	case BlockScanLine:
		return ScanLineBlock{Channels: channels}, nil
	case BlockTile:
		return TileBlock{Channels: channels}, nil
	case BlockDeepScanLine:
		return DeepScanLineBlock{SampleCounts: counts, Channels: channels}, nil
	case BlockDeepTile:
		return DeepTileBlock{SampleCounts: counts, Channels: channels}, nil
	default:
		return nil, fmt.Errorf("%w: unknown block kind %d", ErrInvalidGeometry, kind)
	}
}

// TotalSamples returns the sum of a sample count table.
func TotalSamples(counts []uint32) int {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	return total
}

// SampleOffsets returns the exclusive prefix sum of counts: the index of
// each pixel's first sample in a channel buffer. It is derived on demand
// and never stored next to the counts.
func SampleOffsets(counts []uint32) []int {
	offsets := make([]int, len(counts))
	next := 0
	for i, c := range counts {
		offsets[i] = next
		next += int(c)
	}
	return offsets
}

// Validate checks that ds has the shape Unpack would produce for the given
// channels and geometry: same kind of section, one buffer per channel of
// the declared type, and buffer lengths matching SampleCount (or the
// sample count table for deep sections).
func Validate(ds DataSection, channels []Channel, g Geometry) error {
	if ds == nil {
		return fmt.Errorf("%w: nil data section", ErrChannelMismatch)
	}
	if err := g.validate(); err != nil {
		return err
	}
	kind := ds.Kind()
	data := ds.ChannelData()
	if len(data) != len(channels) {
		return fmt.Errorf("%w: %d buffers for %d channels", ErrChannelMismatch, len(data), len(channels))
	}

	total := 0
	if kind.IsDeep() {
		counts := ds.sampleCounts()
		if pixels := g.PixelCount(); len(counts) != pixels {
			return &SizeMismatchError{Expected: 4 * pixels, Actual: 4 * len(counts)}
		}
		total = TotalSamples(counts)
	}

	for i, ch := range channels {
		if data[i].Type != ch.Type {
			return fmt.Errorf("%w: channel %q is %s, buffer is %s", ErrChannelMismatch, ch.Name, ch.Type, data[i].Type)
		}
		n, err := SampleCount(kind, g, ch)
		if err != nil {
			return err
		}
		if kind.IsDeep() {
			n = total
		}
		if data[i].Len() != n {
			size := ch.Type.Size()
			return &SizeMismatchError{Expected: n * size, Actual: data[i].Len() * size}
		}
	}
	return nil
}
