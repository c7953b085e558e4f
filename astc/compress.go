package astc

// CompressImage encodes img into out as raw ASTC blocks, laid out in block
// raster order. out must hold 16 bytes per block of the padded image; the
// input buffer itself is trusted to match the image dimensions.
//
// threadIndex selects this worker's lane in [0, threadCount). All workers
// of a multi-threaded compression call this once each with the same image
// and output buffer; work is handed out a block at a time.
//
// swz remaps input channels before encoding; nil means identity.
// progressHandle is an opaque value forwarded with progress updates for
// the duration of this call; it is registered for the calling goroutine
// and the previous registration is restored on return.
func (c *Context) CompressImage(img *Image, swz *Swizzle, out []byte, threadIndex int, progressHandle uintptr) error {
	if c == nil {
		return newError(ErrBadContext, "astc: nil context")
	}
	if contextState(c.state.Load()) == ctxClosed {
		return newError(ErrBadContext, "astc: context closed")
	}
	if c.cfg.Flags&FlagDecompressOnly != 0 {
		return newError(ErrBadContext, "astc: context is decompress-only")
	}
	if threadIndex < 0 || threadIndex >= c.threadCount {
		return newError(ErrInvalidArgument, "astc: invalid thread index")
	}

	swizzle := resolveSwizzle(swz)
	if err := validateCompressionSwizzle(swizzle); err != nil {
		return err
	}

	view, err := newSliceView(img)
	if err != nil {
		return err
	}

	// Single-threaded contexts implicitly reset between images.
	if c.threadCount == 1 {
		_ = c.CompressReset()
	}

	blockX, blockY, blockZ := c.blockX, c.blockY, c.blockZ
	blocksX := (img.DimX + blockX - 1) / blockX
	blocksY := (img.DimY + blockY - 1) / blockY
	blocksZ := (img.DimZ + blockZ - 1) / blockZ
	totalBlocks := blocksX * blocksY * blocksZ
	if len(out) < totalBlocks*BlockBytes {
		return newError(ErrOutOfSpace, "astc: output buffer too small")
	}

	restore := setProgressHandle(progressHandle)
	defer restore()

	if err := c.beginCompress(uint32(totalBlocks), view, swizzle); err != nil {
		return err
	}
	defer c.endCompress()

	planeBlocks := blocksX * blocksY
	texelCount := blockX * blockY * blockZ
	u8BlockTexels := make([]byte, texelCount*4)
	f32BlockTexels := make([]float32, texelCount*4)

	quality := encodeQualityFromConfig(c.cfg)
	baseWeight := [4]float32{c.cfg.CWRWeight, c.cfg.CWGWeight, c.cfg.CWBWeight, c.cfg.CWAWeight}
	tune := encoderTuningFromConfig(c.cfg)

	total := int(c.compress.totalBlocks.Load())
	for {
		if c.compress.cancel.Load() != 0 {
			break
		}
		i := int(c.compress.nextBlock.Add(1) - 1)
		if i < 0 || i >= total {
			break
		}

		bz := i / planeBlocks
		rem := i - bz*planeBlocks
		by := rem / blocksX
		bx := rem - by*blocksX

		x0 := bx * blockX
		y0 := by * blockY
		z0 := bz * blockZ

		dst := out[i*BlockBytes : (i+1)*BlockBytes]

		var blk [BlockBytes]byte
		if c.blockIsAllTransparent(view, swizzle, x0, y0, z0) {
			if c.cfg.Profile == ProfileLDR || c.cfg.Profile == ProfileLDRSRGB {
				blk = EncodeConstBlockRGBA8(0, 0, 0, 0)
			} else {
				blk = EncodeConstBlockF16(0, 0, 0, 0)
			}
			err = nil
		} else {
			switch view.kind {
			case TypeU8:
				view.extractU8(x0, y0, z0, blockX, blockY, blockZ, u8BlockTexels)
				applySwizzleRGBA8InPlace(u8BlockTexels, swizzle)
				if c.cfg.Flags&FlagMapRGBM != 0 {
					// RGBM reconstruction divides by M, so M must never
					// quantize to zero.
					clampAlphaMinU8(u8BlockTexels, 1)
				}
				blk, err = encodeBlockRGBA8LDR(c.cfg.Profile, blockX, blockY, blockZ, u8BlockTexels, quality, c.blockWeightU8(baseWeight, u8BlockTexels), &tune)
			case TypeF16, TypeF32:
				view.extractF32(x0, y0, z0, blockX, blockY, blockZ, f32BlockTexels)
				applySwizzleRGBAF32InPlace(f32BlockTexels, swizzle)
				if c.cfg.Flags&FlagMapRGBM != 0 {
					clampAlphaMinF32(f32BlockTexels, 1.0/255.0)
				}
				blk, err = encodeBlockForF32Input(c.cfg.Profile, blockX, blockY, blockZ, f32BlockTexels, quality, c.blockWeightF32(baseWeight, f32BlockTexels), &tune)
			default:
				return newError(ErrInvalidArgument, "astc: unsupported image data type")
			}
		}

		if err != nil {
			return err
		}
		copy(dst, blk[:])

		done := c.compress.doneBlocks.Add(1)
		c.maybeReportProgress(done, uint32(total))
	}

	return nil
}

// blockIsAllTransparent reports whether alpha-scale RDO decided the block
// footprint, padded by the averaging radius, holds no visible alpha at
// all. Such blocks are replaced with a constant transparent color.
func (c *Context) blockIsAllTransparent(view *sliceView, swizzle Swizzle, x0, y0, z0 int) bool {
	if c.cfg.AScaleRadius == 0 || c.blockZ != 1 {
		return false
	}
	switch swizzle.A {
	case Swz1:
		return false
	case Swz0:
		return true
	}

	alphaAverages := c.compress.inputAlphaAverages
	if alphaAverages == nil {
		return false
	}

	startX := x0
	endX := x0 + c.blockX
	if endX > view.dimX {
		endX = view.dimX
	}
	startY := y0
	endY := y0 + c.blockY
	if endY > view.dimY {
		endY = view.dimY
	}

	ext := int(c.cfg.AScaleRadius) - 1
	if ext < 0 {
		ext = 0
	}
	xFootprint := c.blockX + 2*ext
	yFootprint := c.blockY + 2*ext
	footprint := float32(xFootprint * yFootprint)
	threshold := float32(0.0)
	if footprint > 0 {
		threshold = 0.9 / (255.0 * footprint)
	}

	zBase := z0 * view.dimY * view.dimX
	for ay := startY; ay < endY; ay++ {
		rowBase := zBase + ay*view.dimX
		for ax := startX; ax < endX; ax++ {
			if alphaAverages[rowBase+ax] > threshold {
				return false
			}
		}
	}
	return true
}

// blockWeightU8 scales the RGB channel error weights by the block's peak
// alpha when alpha weighting is enabled.
func (c *Context) blockWeightU8(base [4]float32, texels []byte) [4]float32 {
	if c.cfg.Flags&FlagUseAlphaWeight == 0 {
		return base
	}
	maxA := uint8(0)
	for t := 3; t < len(texels); t += 4 {
		if texels[t] > maxA {
			maxA = texels[t]
		}
	}
	alphaScale := float32(maxA) * (1.0 / 255.0)
	base[0] *= alphaScale
	base[1] *= alphaScale
	base[2] *= alphaScale
	return base
}

func (c *Context) blockWeightF32(base [4]float32, texels []float32) [4]float32 {
	if c.cfg.Flags&FlagUseAlphaWeight == 0 {
		return base
	}
	alphaScale := float32(0)
	if c.cfg.Profile == ProfileHDR {
		// HDR alpha is encoded in the log domain; scale by the peak code.
		maxCode := uint16(0)
		for t := 3; t < len(texels); t += 4 {
			code := hdrTexelToLNS(texels[t])
			if code > maxCode {
				maxCode = code
			}
		}
		alphaScale = float32(maxCode) * (1.0 / 65535.0)
	} else {
		for t := 3; t < len(texels); t += 4 {
			if texels[t] > alphaScale {
				alphaScale = texels[t]
			}
		}
		if !(alphaScale >= 0) {
			alphaScale = 0
		}
	}
	base[0] *= alphaScale
	base[1] *= alphaScale
	base[2] *= alphaScale
	return base
}

func clampAlphaMinU8(texels []byte, minA uint8) {
	for t := 3; t < len(texels); t += 4 {
		if texels[t] < minA {
			texels[t] = minA
		}
	}
}

func clampAlphaMinF32(texels []float32, minA float32) {
	for t := 3; t < len(texels); t += 4 {
		if !(texels[t] >= minA) {
			texels[t] = minA
		}
	}
}

// encodeBlockForF32Input routes float texels to the HDR encoder for HDR
// profiles; LDR float inputs are quantized to 8-bit and reuse the LDR
// encoder.
func encodeBlockForF32Input(profile Profile, blockX, blockY, blockZ int, texels []float32, quality EncodeQuality, channelWeight [4]float32, tuneOverride *encoderTuning) ([BlockBytes]byte, error) {
	if profile == ProfileHDR || profile == ProfileHDRRGBLDRAlpha {
		return encodeBlockRGBAF32HDR(profile, blockX, blockY, blockZ, texels, quality, channelWeight, tuneOverride)
	}

	tmp := make([]byte, len(texels))
	quantizeRGBAF32ToU8(texels, tmp)
	return encodeBlockRGBA8LDR(profile, blockX, blockY, blockZ, tmp, quality, channelWeight, tuneOverride)
}

func quantizeRGBAF32ToU8(src []float32, dst []byte) {
	if len(dst) < len(src) {
		return
	}
	for i := 0; i < len(src); i++ {
		v := src[i]
		if !(v >= 0) {
			v = 0
		}
		if v <= 0 {
			v = 0
		} else if v >= 1 {
			v = 1
		}
		dst[i] = uint8(flt2intRTN(v * 255.0))
	}
}

// encodeQualityFromConfig maps the clamped block mode limit back onto the
// encoder effort presets it came from.
func encodeQualityFromConfig(cfg Config) EncodeQuality {
	v := cfg.TuneBlockModeLimit
	switch {
	case v <= 43:
		return EncodeFastest
	case v <= 55:
		return EncodeFast
	case v <= 77:
		return EncodeMedium
	case v <= 94:
		return EncodeThorough
	case v <= 98:
		return EncodeVeryThorough
	default:
		return EncodeExhaustive
	}
}
