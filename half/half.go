// Package half implements the IEEE 754 binary16 sample type used by
// Float16 channels.
//
// A Half is stored as its raw 16 bit pattern, so copying it through a
// pixel buffer is always bit exact, NaN payloads included. Conversions to
// and from float32 round to nearest even.
package half

import (
	"math"
	"strconv"
)

// Half is an IEEE 754 binary16 value held in its bit representation.
type Half uint16

const (
	signMask     = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF

	exponentBias = 15
	exponentMax  = 31
)

// Frequently used values.
const (
	Zero    Half = 0x0000
	NegZero Half = 0x8000
	One     Half = 0x3C00
	Inf     Half = 0x7C00
	NegInf  Half = 0xFC00
	NaN     Half = 0x7E00
	Max     Half = 0x7BFF // 65504
)

// FromBits returns the Half with the given bit pattern.
func FromBits(bits uint16) Half {
	return Half(bits)
}

// Bits returns the bit pattern of h.
func (h Half) Bits() uint16 {
	return uint16(h)
}

// FromFloat32 converts f to the nearest Half, ties to even.
// Values beyond the half range become infinities; values below the
// smallest subnormal become signed zeros.
func FromFloat32(f float32) Half {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & signMask
	exp := int(bits>>23) & 0xFF
	man := bits & 0x007FFFFF

	switch exp {
	case 0xFF:
		if man == 0 {
			return Half(sign | exponentMask)
		}
		// keep a quiet NaN, carrying the top payload bits
		return Half(sign | exponentMask | 0x0200 | uint16(man>>13))
	case 0:
		return Half(sign)
	}

	exp += exponentBias - 127
	if exp >= exponentMax {
		return Half(sign | exponentMask)
	}

	if exp <= 0 {
		if exp < -10 {
			return Half(sign)
		}
		man |= 0x00800000
		shift := uint(14 - exp)
		hm := man >> shift
		rem := man & (1<<shift - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && hm&1 == 1) {
			hm++
		}
		// a carry out of the mantissa lands on the smallest normal, which is correct
		return Half(sign | uint16(hm))
	}

	hm := man >> 13
	rem := man & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && hm&1 == 1) {
		hm++
		if hm > mantissaMask {
			hm = 0
			exp++
			if exp >= exponentMax {
				return Half(sign | exponentMask)
			}
		}
	}
	return Half(sign | uint16(exp)<<10 | uint16(hm))
}

// Float32 converts h to float32. The conversion is exact.
func (h Half) Float32() float32 {
	sign := uint32(h&signMask) << 16
	exp := int(h&exponentMask) >> 10
	man := uint32(h & mantissaMask)

	switch exp {
	case 0:
		if man == 0 {
			return math.Float32frombits(sign)
		}
		// normalize the subnormal
		for man&0x0400 == 0 {
			man <<= 1
			exp--
		}
		exp++
		man &= mantissaMask
	case exponentMax:
		if man == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7FC00000 | man<<13)
	}
	return math.Float32frombits(sign | uint32(exp-exponentBias+127)<<23 | man<<13)
}

// IsNaN reports whether h is a NaN.
func (h Half) IsNaN() bool {
	return h&exponentMask == exponentMask && h&mantissaMask != 0
}

// IsInf reports whether h is an infinity of either sign.
func (h Half) IsInf() bool {
	return h&^signMask == exponentMask
}

// IsZero reports whether h is +0 or -0.
func (h Half) IsZero() bool {
	return h&^signMask == 0
}

func (h Half) String() string {
	return strconv.FormatFloat(float64(h.Float32()), 'g', -1, 32)
}

// FromFloat32Slice converts every value of src.
func FromFloat32Slice(src []float32) []Half {
	dst := make([]Half, len(src))
	for i, f := range src {
		dst[i] = FromFloat32(f)
	}
	return dst
}

// ToFloat32Slice converts every value of src.
func ToFloat32Slice(src []Half) []float32 {
	dst := make([]float32, len(src))
	for i, h := range src {
		dst[i] = h.Float32()
	}
	return dst
}

// ToBitsSlice returns the bit patterns of src.
func ToBitsSlice(src []Half) []uint16 {
	dst := make([]uint16, len(src))
	for i, h := range src {
		dst[i] = uint16(h)
	}
	return dst
}

// FromBitsSlice stores the values with the bit patterns of src into dst.
// It converts min(len(dst), len(src)) values.
func FromBitsSlice(dst []Half, src []uint16) {
	for i, n := 0, min(len(dst), len(src)); i < n; i++ {
		dst[i] = Half(src[i])
	}
}
