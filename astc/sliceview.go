package astc

// sliceView presents a caller-owned, tightly packed 4-channel pixel buffer
// as a table of per-depth-slice windows, one per z in [0, DimZ). Slice z
// starts at element offset z*DimX*DimY*4; the slice stride in bytes is
// that count times the element size of the sample kind.
//
// The view borrows the backing buffer and is valid only for the call it was
// built for; it is rebuilt per call and never cached on a context.
//
// Construction checks dimensions and buffer presence but deliberately does
// not check that the buffer is long enough for DimZ slices when used as
// compression input; a short input buffer is a caller contract violation
// and faults at the point of access. Output buffers are length-checked by
// the decompression path before the view is built.
type sliceView struct {
	dimX int
	dimY int
	dimZ int
	kind DataType

	u8  [][]byte
	f16 [][]uint16
	f32 [][]float32
}

// sliceElems returns the number of elements in one depth slice.
func (v *sliceView) sliceElems() int {
	return v.dimX * v.dimY * 4
}

// newSliceView builds the per-slice table for img.
//
// It fails with ErrInvalidArgument when any dimension is zero, when the
// buffer matching DataType is absent, or when DataType is not one of the
// supported kinds.
func newSliceView(img *Image) (*sliceView, error) {
	if img == nil {
		return nil, newError(ErrInvalidArgument, "astc: nil image")
	}
	if img.DimX <= 0 || img.DimY <= 0 || img.DimZ <= 0 {
		return nil, newError(ErrInvalidArgument, "astc: invalid image dimensions")
	}

	v := &sliceView{
		dimX: img.DimX,
		dimY: img.DimY,
		dimZ: img.DimZ,
		kind: img.DataType,
	}
	stride := v.sliceElems()

	switch img.DataType {
	case TypeU8:
		if img.DataU8 == nil {
			return nil, newError(ErrInvalidArgument, "astc: nil RGBA8 buffer")
		}
		v.u8 = make([][]byte, v.dimZ)
		for z := 0; z < v.dimZ; z++ {
			v.u8[z] = img.DataU8[z*stride:]
		}
	case TypeF16:
		if img.DataF16 == nil {
			return nil, newError(ErrInvalidArgument, "astc: nil RGBAF16 buffer")
		}
		v.f16 = make([][]uint16, v.dimZ)
		for z := 0; z < v.dimZ; z++ {
			v.f16[z] = img.DataF16[z*stride:]
		}
	case TypeF32:
		if img.DataF32 == nil {
			return nil, newError(ErrInvalidArgument, "astc: nil RGBAF32 buffer")
		}
		v.f32 = make([][]float32, v.dimZ)
		for z := 0; z < v.dimZ; z++ {
			v.f32[z] = img.DataF32[z*stride:]
		}
	default:
		return nil, newError(ErrInvalidArgument, "astc: unknown image data type")
	}

	return v, nil
}

// requireOutputLen checks that img's buffer covers the exact byte count
// implied by its dimensions and element kind. The codec itself never sizes
// output buffers, so the decompression path runs this before any write.
func requireOutputLen(img *Image) error {
	if img == nil {
		return newError(ErrInvalidArgument, "astc: nil image")
	}
	elems := img.DimX * img.DimY * img.DimZ * 4
	if elems <= 0 {
		return newError(ErrInvalidArgument, "astc: invalid image dimensions")
	}

	switch img.DataType {
	case TypeU8:
		if len(img.DataU8) < elems {
			return newError(ErrOutOfSpace, "astc: output buffer too small")
		}
	case TypeF16:
		if len(img.DataF16) < elems {
			return newError(ErrOutOfSpace, "astc: output buffer too small")
		}
	case TypeF32:
		if len(img.DataF32) < elems {
			return newError(ErrOutOfSpace, "astc: output buffer too small")
		}
	default:
		return newError(ErrInvalidArgument, "astc: unknown image data type")
	}
	return nil
}

// extract copies the block at texel origin (x0, y0, z0) into dst as RGBA8
// (for U8 views) clamping reads at the image edge, replicating the border
// texel for partial blocks.
func (v *sliceView) extractU8(x0, y0, z0, blockX, blockY, blockZ int, dst []byte) {
	for zz := 0; zz < blockZ; zz++ {
		z := clampIndex(z0+zz, v.dimZ)
		sliceData := v.u8[z]
		for yy := 0; yy < blockY; yy++ {
			y := clampIndex(y0+yy, v.dimY)
			rowBase := y * v.dimX * 4
			for xx := 0; xx < blockX; xx++ {
				x := clampIndex(x0+xx, v.dimX)
				src := rowBase + x*4
				dstOff := ((zz*blockY+yy)*blockX + xx) * 4
				dst[dstOff+0] = sliceData[src+0]
				dst[dstOff+1] = sliceData[src+1]
				dst[dstOff+2] = sliceData[src+2]
				dst[dstOff+3] = sliceData[src+3]
			}
		}
	}
}

// extractF32 copies the block at (x0, y0, z0) into dst as float32 RGBA,
// converting from the view's element kind.
func (v *sliceView) extractF32(x0, y0, z0, blockX, blockY, blockZ int, dst []float32) {
	for zz := 0; zz < blockZ; zz++ {
		z := clampIndex(z0+zz, v.dimZ)
		for yy := 0; yy < blockY; yy++ {
			y := clampIndex(y0+yy, v.dimY)
			rowBase := y * v.dimX * 4
			for xx := 0; xx < blockX; xx++ {
				x := clampIndex(x0+xx, v.dimX)
				src := rowBase + x*4
				dstOff := ((zz*blockY+yy)*blockX + xx) * 4
				switch v.kind {
				case TypeF16:
					s := v.f16[z]
					dst[dstOff+0] = halfToFloat32(s[src+0])
					dst[dstOff+1] = halfToFloat32(s[src+1])
					dst[dstOff+2] = halfToFloat32(s[src+2])
					dst[dstOff+3] = halfToFloat32(s[src+3])
				case TypeF32:
					s := v.f32[z]
					dst[dstOff+0] = s[src+0]
					dst[dstOff+1] = s[src+1]
					dst[dstOff+2] = s[src+2]
					dst[dstOff+3] = s[src+3]
				default:
					const inv255 = 1.0 / 255.0
					s := v.u8[z]
					dst[dstOff+0] = float32(s[src+0]) * inv255
					dst[dstOff+1] = float32(s[src+1]) * inv255
					dst[dstOff+2] = float32(s[src+2]) * inv255
					dst[dstOff+3] = float32(s[src+3]) * inv255
				}
			}
		}
	}
}

// storeU8 writes a decoded RGBA8 block back into the view, dropping texels
// that fall outside the image.
func (v *sliceView) storeU8(x0, y0, z0, blockX, blockY, blockZ int, block []byte) {
	rowBytes := blockX * 4
	for zz := 0; zz < blockZ; zz++ {
		z := z0 + zz
		if z >= v.dimZ {
			break
		}
		s := v.u8[z]
		for yy := 0; yy < blockY; yy++ {
			y := y0 + yy
			if y >= v.dimY {
				break
			}
			copyBytes := rowBytes
			if x0+blockX > v.dimX {
				copyBytes = (v.dimX - x0) * 4
			}
			dstOff := y*v.dimX*4 + x0*4
			srcOff := (zz*blockY + yy) * rowBytes
			copy(s[dstOff:dstOff+copyBytes], block[srcOff:srcOff+copyBytes])
		}
	}
}

// storeF32 writes a decoded float block back into the view, converting to
// the view's element kind.
func (v *sliceView) storeF32(x0, y0, z0, blockX, blockY, blockZ int, block []float32) {
	rowElems := blockX * 4
	for zz := 0; zz < blockZ; zz++ {
		z := z0 + zz
		if z >= v.dimZ {
			break
		}
		for yy := 0; yy < blockY; yy++ {
			y := y0 + yy
			if y >= v.dimY {
				break
			}
			rowTexels := blockX
			if x0+blockX > v.dimX {
				rowTexels = v.dimX - x0
			}
			dstOff := y*v.dimX*4 + x0*4
			srcOff := (zz*blockY + yy) * rowElems
			switch v.kind {
			case TypeF16:
				s := v.f16[z]
				for xx := 0; xx < rowTexels*4; xx++ {
					s[dstOff+xx] = float32ToHalf(block[srcOff+xx])
				}
			case TypeF32:
				copy(v.f32[z][dstOff:dstOff+rowTexels*4], block[srcOff:srcOff+rowTexels*4])
			default:
				s := v.u8[z]
				for xx := 0; xx < rowTexels*4; xx++ {
					s[dstOff+xx] = quantF32ToU8(block[srcOff+xx])
				}
			}
		}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func quantF32ToU8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
