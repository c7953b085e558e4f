package astc

import "math"

func applySwizzleRGBA8InPlace(pix []byte, swz Swizzle) {
	if swz == SwizzleRGBA {
		return
	}
	for i := 0; i < len(pix); i += 4 {
		r0 := pix[i+0]
		g0 := pix[i+1]
		b0 := pix[i+2]
		a0 := pix[i+3]
		pix[i+0] = swzU8(swz.R, r0, g0, b0, a0)
		pix[i+1] = swzU8(swz.G, r0, g0, b0, a0)
		pix[i+2] = swzU8(swz.B, r0, g0, b0, a0)
		pix[i+3] = swzU8(swz.A, r0, g0, b0, a0)
	}
}

func swzU8(s Swz, r, g, b, a byte) byte {
	switch s {
	case SwzR:
		return r
	case SwzG:
		return g
	case SwzB:
		return b
	case SwzA:
		return a
	case Swz0:
		return 0
	case Swz1:
		return 255
	case SwzZ:
		// Reconstruct the Z component of a unit normal from X in red and
		// Y in alpha.
		xN := (float32(r) * (2.0 / 255.0)) - 1.0
		yN := (float32(a) * (2.0 / 255.0)) - 1.0
		zN := 1.0 - xN*xN - yN*yN
		if zN < 0 {
			zN = 0
		}
		z := float32(math.Sqrt(float64(zN)))*0.5 + 0.5
		if z > 1 {
			z = 1
		}
		return uint8(flt2intRTN(z * 255.0))
	default:
		return 0
	}
}

func applySwizzleRGBAF32InPlace(pix []float32, swz Swizzle) {
	if swz == SwizzleRGBA {
		return
	}
	for i := 0; i < len(pix); i += 4 {
		r0 := pix[i+0]
		g0 := pix[i+1]
		b0 := pix[i+2]
		a0 := pix[i+3]
		pix[i+0] = swzF32(swz.R, r0, g0, b0, a0)
		pix[i+1] = swzF32(swz.G, r0, g0, b0, a0)
		pix[i+2] = swzF32(swz.B, r0, g0, b0, a0)
		pix[i+3] = swzF32(swz.A, r0, g0, b0, a0)
	}
}

func swzF32(s Swz, r, g, b, a float32) float32 {
	switch s {
	case SwzR:
		return r
	case SwzG:
		return g
	case SwzB:
		return b
	case SwzA:
		return a
	case Swz0:
		return 0
	case Swz1:
		return 1
	case SwzZ:
		xN := (r * 2.0) - 1.0
		yN := (a * 2.0) - 1.0
		zN := 1.0 - xN*xN - yN*yN
		if zN < 0 {
			zN = 0
		}
		z := float32(math.Sqrt(float64(zN)))*0.5 + 0.5
		if z > 1 {
			z = 1
		}
		return z
	default:
		return 0
	}
}
