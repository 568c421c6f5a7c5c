package exr

import (
	"fmt"

	"github.com/mrjoshuak/go-exrchunk/half"
	"github.com/mrjoshuak/go-exrchunk/internal/xdr"
)

// Pack serializes a block into its uncompressed byte layout: for deep
// blocks the sample count table (one little-endian uint32 per pixel), then
// every channel's samples, channel after channel in slice order, each in
// little-endian form with no padding between them.
func Pack(data DataSection) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil data section", ErrChannelMismatch)
	}
	channels := data.ChannelData()
	counts := data.sampleCounts()

	size := 4 * len(counts)
	total := TotalSamples(counts)
	for i, p := range channels {
		if !p.Type.Valid() {
			return nil, fmt.Errorf("%w: buffer %d has unknown pixel type %d", ErrChannelMismatch, i, p.Type)
		}
		if data.Kind().IsDeep() && p.Len() != total {
			return nil, &SizeMismatchError{Expected: total * p.Type.Size(), Actual: p.Len() * p.Type.Size()}
		}
		size += p.Len() * p.Type.Size()
	}

	w := xdr.NewBufferWriter(size)
	w.WriteUint32s(counts)
	for _, p := range channels {
		writeSamples(w, p)
	}
	return w.Bytes(), nil
}

func writeSamples(w *xdr.BufferWriter, p PixelData) {
	switch p.Type {
	case PixelTypeUint:
		w.WriteUint32s(p.Uint)
	case PixelTypeHalf:
		w.WriteUint16s(half.ToBitsSlice(p.Half))
	case PixelTypeFloat:
		w.WriteFloat32s(p.Float)
	}
}

// Unpack rebuilds a block of the given kind from its uncompressed byte
// layout. Buffer sizes come from SampleCount over g, or from the sample
// count table for deep blocks. Bytes beyond the last channel are ignored;
// a buffer too short for the geometry returns ErrTruncatedInput.
func Unpack(kind BlockKind, data []byte, channels []Channel, g Geometry) (DataSection, error) {
	ds, _, err := unpack(kind, data, channels, g)
	return ds, err
}

// unpack is Unpack that also reports how many bytes it consumed.
func unpack(kind BlockKind, data []byte, channels []Channel, g Geometry) (DataSection, int, error) {
	if !kind.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown block kind %d", ErrInvalidGeometry, kind)
	}
	if err := g.validate(); err != nil {
		return nil, 0, err
	}
	r := xdr.NewReader(data)

	var counts []uint32
	total := 0
	if kind.IsDeep() {
		pixels := g.PixelCount()
		if err := r.Need(4 * pixels); err != nil {
			return nil, 0, fmt.Errorf("%w: sample count table needs %d bytes, %d available", ErrTruncatedInput, 4*pixels, r.Len())
		}
		counts = make([]uint32, pixels)
		if err := r.ReadUint32s(counts); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
		}
		total = TotalSamples(counts)
	}

	out := make([]PixelData, len(channels))
	for i, ch := range channels {
		n, err := SampleCount(kind, g, ch)
		if err != nil {
			return nil, 0, err
		}
		if kind.IsDeep() {
			n = total
		}
		// check before allocating, counts come straight from the input
		need := n * ch.Type.Size()
		if err := r.Need(need); err != nil {
			return nil, 0, fmt.Errorf("%w: channel %q needs %d bytes, %d available", ErrTruncatedInput, ch.Name, need, r.Len())
		}
		p := MakePixelData(ch.Type, n)
		if err := readSamples(r, p); err != nil {
			return nil, 0, fmt.Errorf("%w: channel %q: %v", ErrTruncatedInput, ch.Name, err)
		}
		out[i] = p
	}

	ds, err := NewDataSection(kind, out, counts)
	if err != nil {
		return nil, 0, err
	}
	return ds, r.Pos(), nil
}

func readSamples(r *xdr.Reader, p PixelData) error {
	switch p.Type {
	case PixelTypeUint:
		return r.ReadUint32s(p.Uint)
	case PixelTypeHalf:
		bits := make([]uint16, len(p.Half))
		if err := r.ReadUint16s(bits); err != nil {
			return err
		}
		half.FromBitsSlice(p.Half, bits)
		return nil
	case PixelTypeFloat:
		return r.ReadFloat32s(p.Float)
	}
	return nil
}
