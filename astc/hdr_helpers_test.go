package astc_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/bits"
	"testing"

	"github.com/texturetools/astc/astc"
)

func decodeConstBlockRGBAF32(t *testing.T, block []byte) [4]float32 {
	t.Helper()
	if len(block) < astc.BlockBytes {
		t.Fatalf("block too small: %d", len(block))
	}

	constU16Prefix := []byte{0xFC, 0xFD, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	constF16Prefix := []byte{0xFC, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

	isU16 := bytes.Equal(block[:8], constU16Prefix)
	isF16 := bytes.Equal(block[:8], constF16Prefix)
	if !isU16 && !isF16 {
		t.Fatalf("block is not a constant-color block (prefix=%x)", block[:8])
	}

	r := binary.LittleEndian.Uint16(block[8:10])
	g := binary.LittleEndian.Uint16(block[10:12])
	b := binary.LittleEndian.Uint16(block[12:14])
	a := binary.LittleEndian.Uint16(block[14:16])

	var out [4]float32
	if isU16 {
		out[0] = halfToFloat32(unorm16ToSF16(r))
		out[1] = halfToFloat32(unorm16ToSF16(g))
		out[2] = halfToFloat32(unorm16ToSF16(b))
		out[3] = halfToFloat32(unorm16ToSF16(a))
	} else {
		out[0] = halfToFloat32(r)
		out[1] = halfToFloat32(g)
		out[2] = halfToFloat32(b)
		out[3] = halfToFloat32(a)
	}
	return out
}

// decodeRGBAF32 decodes a 2D container into a float32 pixel buffer.
func decodeRGBAF32(t *testing.T, data []byte, profile astc.Profile) (pix []float32, width, height int) {
	t.Helper()
	img, err := astc.Decode(data, astc.TypeF32, &astc.DecodeOptions{Profile: profile})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.DimZ != 1 {
		t.Fatalf("unexpected depth: %d", img.DimZ)
	}
	return img.DataF32, img.DimX, img.DimY
}

// halfToFloat32 converts an IEEE 754 binary16 float to float32.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1F
	mant := uint32(h) & 0x3FF

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign << 31)
		}
		// Subnormal -> normalized float32.
		e := int32(-14)
		for (mant & 0x400) == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3FF
		exp32 := uint32(e + 127)
		mant32 := mant << 13
		return math.Float32frombits((sign << 31) | (exp32 << 23) | mant32)
	case 0x1F:
		// Inf/NaN
		return math.Float32frombits((sign << 31) | 0x7F800000 | (mant << 13))
	default:
		// Normal number.
		exp32 := exp + (127 - 15)
		mant32 := mant << 13
		return math.Float32frombits((sign << 31) | (exp32 << 23) | mant32)
	}
}

// unorm16ToSF16 converts an unorm16 value to a float16 bit pattern.
func unorm16ToSF16(p uint16) uint16 {
	if p == 0xFFFF {
		return 0x3C00 // FP16 1.0
	}
	if p < 4 {
		return p << 8
	}

	lz := bits.LeadingZeros32(uint32(p)) - 16
	if lz < 0 {
		lz = 0
	} else if lz > 32 {
		lz = 32
	}

	p32 := uint32(p) * (1 << uint(lz+1))
	p32 &= 0xFFFF
	p32 >>= 6

	exp := uint32(14 - lz)
	p32 |= exp << 10
	return uint16(p32)
}
