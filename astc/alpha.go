package astc

// computeInputAlphaAverages runs the separable box filter that backs
// alpha-scale rate distortion: per texel, the average swizzled alpha over
// a (2r+1)-wide window, with edge replication. 2D images skip the Z pass.
func computeInputAlphaAverages(view *sliceView, alphaSwz Swz, radius int) []float32 {
	if view == nil || radius <= 0 {
		return nil
	}

	width, height, depth := view.dimX, view.dimY, view.dimZ
	texelCount := width * height * depth
	if texelCount <= 0 {
		return nil
	}
	planeSize := width * height
	haveZ := depth > 1

	alpha := make([]float32, texelCount)
	for z := 0; z < depth; z++ {
		zBase := z * planeSize
		switch view.kind {
		case TypeU8:
			const inv255 = 1.0 / 255.0
			s := view.u8[z]
			for i := 0; i < planeSize; i++ {
				off := i * 4
				alpha[zBase+i] = float32(swzU8(alphaSwz, s[off+0], s[off+1], s[off+2], s[off+3])) * inv255
			}
		case TypeF16:
			s := view.f16[z]
			for i := 0; i < planeSize; i++ {
				off := i * 4
				alpha[zBase+i] = swzF32(alphaSwz,
					halfToFloat32(s[off+0]), halfToFloat32(s[off+1]),
					halfToFloat32(s[off+2]), halfToFloat32(s[off+3]))
			}
		case TypeF32:
			s := view.f32[z]
			for i := 0; i < planeSize; i++ {
				off := i * 4
				alpha[zBase+i] = swzF32(alphaSwz, s[off+0], s[off+1], s[off+2], s[off+3])
			}
		default:
			return nil
		}
	}

	rad := radius
	kdim := 2*rad + 1
	if kdim <= 1 {
		return alpha
	}

	tmp := make([]float32, texelCount)

	// Pass 1: X box filter.
	for z := 0; z < depth; z++ {
		zBase := z * planeSize
		for y := 0; y < height; y++ {
			rowBase := zBase + y*width

			sum := float32(0)
			for dx := -rad; dx <= rad; dx++ {
				sum += alpha[rowBase+clampIndex(dx, width)]
			}
			tmp[rowBase+0] = sum

			for x := 1; x < width; x++ {
				removeX := clampIndex(x-rad-1, width)
				addX := clampIndex(x+rad, width)
				sum += alpha[rowBase+addX] - alpha[rowBase+removeX]
				tmp[rowBase+x] = sum
			}
		}
	}

	// Pass 2: Y box filter, writing back into alpha.
	for z := 0; z < depth; z++ {
		zBase := z * planeSize
		for x := 0; x < width; x++ {
			sum := float32(0)
			for dy := -rad; dy <= rad; dy++ {
				sum += tmp[zBase+clampIndex(dy, height)*width+x]
			}
			alpha[zBase+x] = sum

			for y := 1; y < height; y++ {
				removeY := clampIndex(y-rad-1, height)
				addY := clampIndex(y+rad, height)
				sum += tmp[zBase+addY*width+x] - tmp[zBase+removeY*width+x]
				alpha[zBase+y*width+x] = sum
			}
		}
	}

	// Pass 3: Z box filter for volumes.
	if haveZ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				sum := float32(0)
				for dz := -rad; dz <= rad; dz++ {
					sum += alpha[clampIndex(dz, depth)*planeSize+y*width+x]
				}
				tmp[y*width+x] = sum

				for z := 1; z < depth; z++ {
					removeZ := clampIndex(z-rad-1, depth)
					addZ := clampIndex(z+rad, depth)
					sum += alpha[addZ*planeSize+y*width+x] - alpha[removeZ*planeSize+y*width+x]
					tmp[z*planeSize+y*width+x] = sum
				}
			}
		}

		inv := 1.0 / float32(kdim*kdim*kdim)
		for i := range tmp {
			tmp[i] *= inv
		}
		return tmp
	}

	inv := 1.0 / float32(kdim*kdim)
	for i := range alpha {
		alpha[i] *= inv
	}
	return alpha
}
