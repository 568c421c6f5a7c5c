package exr

import (
	"fmt"
	"math"
)

// V2i represents a 2D integer vector.
type V2i struct {
	X, Y int32
}

// Box2i is an axis-aligned integer rectangle. Both corners are inclusive,
// as in the dataWindow attribute.
type Box2i struct {
	Min, Max V2i
}

// Width returns the width of the box. It is computed in int and cannot
// overflow for any pair of int32 corners.
func (b Box2i) Width() int {
	return int(b.Max.X) - int(b.Min.X) + 1
}

// Height returns the height of the box.
func (b Box2i) Height() int {
	return int(b.Max.Y) - int(b.Min.Y) + 1
}

// checkDataWindow rejects empty windows and windows whose extent does not
// fit the int32 fields of the file format.
func checkDataWindow(dw Box2i) error {
	if dw.IsEmpty() {
		return fmt.Errorf("%w: empty data window", ErrInvalidGeometry)
	}
	if dw.Width() > math.MaxInt32 || dw.Height() > math.MaxInt32 {
		return fmt.Errorf("%w: data window %dx%d too large", ErrInvalidGeometry, dw.Width(), dw.Height())
	}
	return nil
}

// IsEmpty returns true if the box has no area.
func (b Box2i) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// BlockKind selects the block topology of a chunk.
type BlockKind uint8

const (
	// BlockScanLine is a strip of full-width scan lines.
	BlockScanLine BlockKind = iota
	// BlockTile is one tile of one resolution level.
	BlockTile
	// BlockDeepScanLine is a scan-line block with a sample count per pixel.
	BlockDeepScanLine
	// BlockDeepTile is a tile with a sample count per pixel.
	BlockDeepTile
)

func (k BlockKind) String() string {
	switch k {
	case BlockScanLine:
		return "scanline"
	case BlockTile:
		return "tile"
	case BlockDeepScanLine:
		return "deep scanline"
	case BlockDeepTile:
		return "deep tile"
	default:
		return "unknown"
	}
}

// Valid reports whether k is a known block kind.
func (k BlockKind) Valid() bool {
	return k <= BlockDeepTile
}

// IsDeep reports whether blocks of this kind carry per-pixel sample counts.
func (k BlockKind) IsDeep() bool {
	return k == BlockDeepScanLine || k == BlockDeepTile
}

// IsTiled reports whether blocks of this kind are tiles.
func (k BlockKind) IsTiled() bool {
	return k == BlockTile || k == BlockDeepTile
}

// LevelMode defines how multi-resolution levels are stored.
type LevelMode uint8

const (
	// LevelModeOne stores a single resolution level.
	LevelModeOne LevelMode = 0
	// LevelModeMipmap stores power-of-2 mipmap levels.
	LevelModeMipmap LevelMode = 1
	// LevelModeRipmap stores independent X and Y resolution levels.
	LevelModeRipmap LevelMode = 2
)

// LevelRoundingMode defines how level sizes are rounded.
type LevelRoundingMode uint8

const (
	// LevelRoundDown rounds level sizes down.
	LevelRoundDown LevelRoundingMode = 0
	// LevelRoundUp rounds level sizes up.
	LevelRoundUp LevelRoundingMode = 1
)

// TileDescription describes tile dimensions and level modes.
type TileDescription struct {
	XSize        uint32
	YSize        uint32
	Mode         LevelMode
	RoundingMode LevelRoundingMode
}

// Level is a resolution level index. Mipmaps use X == Y; ripmaps index
// each axis independently. Level{0, 0} is full resolution.
type Level struct {
	X, Y int
}

// LevelSize returns the size of a full-resolution extent at the given
// level: size halved level times with the rounding mode, never below 1.
// An empty extent stays empty.
func LevelSize(size, level int, rounding LevelRoundingMode) int {
	if size <= 0 {
		return 0
	}
	for i := 0; i < level && size > 1; i++ {
		if rounding == LevelRoundUp {
			size = (size + 1) / 2
		} else {
			size /= 2
		}
	}
	return size
}

// numLevels returns how many levels an extent of the given size has.
func numLevels(size int, rounding LevelRoundingMode) int {
	n := 1
	for size > 1 {
		size = LevelSize(size, 1, rounding)
		n++
	}
	return n
}

// Geometry locates one block inside its resolution level.
//
// X and Y are the block origin in pixels relative to the top-left corner
// of the level; Width and Height are the nominal block size. Blocks at the
// right and bottom edges are clipped to the level bounds.
type Geometry struct {
	DataWindow Box2i
	Level      Level
	Rounding   LevelRoundingMode

	X, Y          int
	Width, Height int
}

// ScanLineGeometry returns the geometry of the scan-line block that starts
// at absolute row y. Blocks hold method.ScanLinesPerBlock() full-width lines
// and must start on a block boundary.
func ScanLineGeometry(dataWindow Box2i, y int, method Compression) (Geometry, error) {
	if err := checkDataWindow(dataWindow); err != nil {
		return Geometry{}, err
	}
	lines := method.ScanLinesPerBlock()
	rel := y - int(dataWindow.Min.Y)
	if y < int(dataWindow.Min.Y) || y > int(dataWindow.Max.Y) {
		return Geometry{}, fmt.Errorf("%w: scan line %d outside data window", ErrInvalidGeometry, y)
	}
	if rel%lines != 0 {
		return Geometry{}, fmt.Errorf("%w: scan line %d is not the first line of a %d-line block", ErrInvalidGeometry, y, lines)
	}
	return Geometry{
		DataWindow: dataWindow,
		Y:          rel,
		Width:      dataWindow.Width(),
		Height:     lines,
	}, nil
}

// TileGeometry returns the geometry of tile (tileX, tileY) at the given
// level, checking the level against the level mode and the tile index
// against the level's tile grid.
func TileGeometry(dataWindow Box2i, desc TileDescription, tileX, tileY int, level Level) (Geometry, error) {
	if err := checkDataWindow(dataWindow); err != nil {
		return Geometry{}, err
	}
	if desc.XSize == 0 || desc.YSize == 0 || desc.XSize > math.MaxInt32 || desc.YSize > math.MaxInt32 {
		return Geometry{}, fmt.Errorf("%w: tile size %dx%d", ErrInvalidGeometry, desc.XSize, desc.YSize)
	}
	if level.X < 0 || level.Y < 0 {
		return Geometry{}, fmt.Errorf("%w: negative level (%d, %d)", ErrInvalidGeometry, level.X, level.Y)
	}

	w, h := dataWindow.Width(), dataWindow.Height()
	switch desc.Mode {
	case LevelModeOne:
		if level != (Level{}) {
			return Geometry{}, fmt.Errorf("%w: level (%d, %d) in single-level image", ErrInvalidGeometry, level.X, level.Y)
		}
	case LevelModeMipmap:
		if level.X != level.Y {
			return Geometry{}, fmt.Errorf("%w: mipmap level (%d, %d) is not square", ErrInvalidGeometry, level.X, level.Y)
		}
		if n := numLevels(max(w, h), desc.RoundingMode); level.X >= n {
			return Geometry{}, fmt.Errorf("%w: mipmap level %d of %d", ErrInvalidGeometry, level.X, n)
		}
	case LevelModeRipmap:
		if level.X >= numLevels(w, desc.RoundingMode) || level.Y >= numLevels(h, desc.RoundingMode) {
			return Geometry{}, fmt.Errorf("%w: ripmap level (%d, %d) out of range", ErrInvalidGeometry, level.X, level.Y)
		}
	default:
		return Geometry{}, fmt.Errorf("%w: unknown level mode %d", ErrInvalidGeometry, desc.Mode)
	}

	g := Geometry{
		DataWindow: dataWindow,
		Level:      level,
		Rounding:   desc.RoundingMode,
		X:          tileX * int(desc.XSize),
		Y:          tileY * int(desc.YSize),
		Width:      int(desc.XSize),
		Height:     int(desc.YSize),
	}
	lw, lh := g.LevelSize()
	if tileX < 0 || tileY < 0 || g.X >= lw || g.Y >= lh {
		return Geometry{}, fmt.Errorf("%w: tile (%d, %d) outside level (%d, %d)", ErrInvalidGeometry, tileX, tileY, level.X, level.Y)
	}
	return g, nil
}

// LevelSize returns the pixel size of the block's resolution level.
func (g Geometry) LevelSize() (w, h int) {
	return LevelSize(g.DataWindow.Width(), g.Level.X, g.Rounding),
		LevelSize(g.DataWindow.Height(), g.Level.Y, g.Rounding)
}

// validate rejects geometries that would size a block as empty or past its
// level: an invalid data window, a non-positive nominal size, or an origin
// outside the level.
func (g Geometry) validate() error {
	if err := checkDataWindow(g.DataWindow); err != nil {
		return err
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: block size %dx%d", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.Level.X < 0 || g.Level.Y < 0 {
		return fmt.Errorf("%w: negative level (%d, %d)", ErrInvalidGeometry, g.Level.X, g.Level.Y)
	}
	lw, lh := g.LevelSize()
	if g.X < 0 || g.Y < 0 || g.X >= lw || g.Y >= lh {
		return fmt.Errorf("%w: block origin (%d, %d) outside %dx%d level", ErrInvalidGeometry, g.X, g.Y, lw, lh)
	}
	return nil
}

// BlockSize returns the block's pixel size after clipping to its level:
// min(nominal, levelSize - origin), never negative.
func (g Geometry) BlockSize() (w, h int) {
	lw, lh := g.LevelSize()
	return clipExtent(g.Width, lw-g.X), clipExtent(g.Height, lh-g.Y)
}

// PixelCount returns the number of pixels in the clipped block.
func (g Geometry) PixelCount() int {
	w, h := g.BlockSize()
	return w * h
}

func clipExtent(nominal, remaining int) int {
	return max(0, min(nominal, remaining))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// SampleCount returns how many samples of ch a block holds.
//
// For flat blocks this is ceil(w/XSampling) * ceil(h/YSampling) over the
// clipped block size. For deep blocks it is the number of pixels, that is
// the length of the sample count table; the channel buffers themselves
// hold the sum of that table. Deep channels cannot be subsampled.
//
// Every codec sizes its buffers through this function.
func SampleCount(kind BlockKind, g Geometry, ch Channel) (int, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: unknown block kind %d", ErrInvalidGeometry, kind)
	}
	if !ch.Type.Valid() {
		return 0, fmt.Errorf("%w: channel %q has unknown pixel type %d", ErrInvalidGeometry, ch.Name, ch.Type)
	}
	if ch.XSampling < 1 || ch.YSampling < 1 {
		return 0, fmt.Errorf("%w: channel %q has sampling %dx%d", ErrInvalidGeometry, ch.Name, ch.XSampling, ch.YSampling)
	}
	if err := g.validate(); err != nil {
		return 0, err
	}

	w, h := g.BlockSize()
	if kind.IsDeep() {
		if ch.XSampling != 1 || ch.YSampling != 1 {
			return 0, fmt.Errorf("%w: deep channel %q is subsampled", ErrInvalidGeometry, ch.Name)
		}
		return w * h, nil
	}
	return ceilDiv(w, int(ch.XSampling)) * ceilDiv(h, int(ch.YSampling)), nil
}

// UncompressedSize returns the packed byte size of a flat block.
// Deep blocks depend on their sample counts; use DeepUncompressedSize.
func UncompressedSize(kind BlockKind, g Geometry, channels []Channel) (int, error) {
	if kind.IsDeep() {
		return 0, fmt.Errorf("%w: deep block size depends on its sample counts", ErrInvalidGeometry)
	}
	if err := g.validate(); err != nil {
		return 0, err
	}
	size := 0
	for _, ch := range channels {
		n, err := SampleCount(kind, g, ch)
		if err != nil {
			return 0, err
		}
		size += n * ch.Type.Size()
	}
	return size, nil
}

// DeepUncompressedSize returns the packed byte size of a deep block: the
// 4-byte sample count table followed by every channel's samples.
func DeepUncompressedSize(counts []uint32, channels []Channel) int {
	total := TotalSamples(counts)
	size := 4 * len(counts)
	for _, ch := range channels {
		size += total * ch.Type.Size()
	}
	return size
}
