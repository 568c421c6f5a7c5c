package exr_test

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-exrchunk/exr"
	"github.com/mrjoshuak/go-exrchunk/half"
)

// Example compresses one ZIPS scan line and decodes it again.
func Example() {
	dataWindow := exr.Box2i{Max: exr.V2i{X: 3, Y: 0}}
	channels := []exr.Channel{
		exr.NewChannel("A", exr.PixelTypeHalf),
		exr.NewChannel("Z", exr.PixelTypeFloat),
	}

	g, err := exr.ScanLineGeometry(dataWindow, 0, exr.CompressionZIPS)
	if err != nil {
		fmt.Println(err)
		return
	}
	block := exr.ScanLineBlock{Channels: []exr.PixelData{
		exr.NewHalfData(half.FromFloat32Slice([]float32{0, 0.25, 0.5, 1})),
		exr.NewFloatData([]float32{10, 20, 30, 40}),
	}}

	data, err := exr.Compress(exr.CompressionZIPS, block)
	if err != nil {
		fmt.Println(err)
		return
	}
	size, _ := exr.UncompressedSize(exr.BlockScanLine, g, channels)

	ds, err := exr.Decompress(exr.CompressionZIPS, exr.BlockScanLine, data, size, channels, g)
	if err != nil {
		fmt.Println(err)
		return
	}
	out := ds.ChannelData()
	fmt.Println(size, half.ToFloat32Slice(out[0].Half), out[1].Float)
	// Output: 24 [0 0.25 0.5 1] [10 20 30 40]
}

// Example_unsupported shows how callers detect methods this package does
// not decode.
func Example_unsupported() {
	channels := []exr.Channel{exr.NewChannel("R", exr.PixelTypeHalf)}
	g := exr.Geometry{DataWindow: exr.Box2i{Max: exr.V2i{X: 31, Y: 31}}, Width: 32, Height: 32}

	_, err := exr.Decompress(exr.CompressionPIZ, exr.BlockTile, []byte{0}, exr.UnknownSize, channels, g)
	fmt.Println(errors.Is(err, exr.ErrUnsupported))
	fmt.Println(err)
	// Output:
	// true
	// exr: compression piz is not supported
}
