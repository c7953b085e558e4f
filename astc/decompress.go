package astc

// DecompressImage decodes raw ASTC block data into imgOut. The output
// buffer must cover the full image implied by imgOut's dimensions and
// element kind; that is checked before anything is written.
//
// Like CompressImage, each worker of a multi-threaded decompression calls
// this once with a distinct threadIndex and the same arguments.
func (c *Context) DecompressImage(data []byte, imgOut *Image, swz *Swizzle, threadIndex int) error {
	if c == nil {
		return newError(ErrBadContext, "astc: nil context")
	}
	if contextState(c.state.Load()) == ctxClosed {
		return newError(ErrBadContext, "astc: context closed")
	}
	if len(data) == 0 {
		return newError(ErrInvalidArgument, "astc: empty input data")
	}
	if threadIndex < 0 || threadIndex >= c.threadCount {
		return newError(ErrInvalidArgument, "astc: invalid thread index")
	}

	swizzle := resolveSwizzle(swz)
	if err := validateDecompressionSwizzle(swizzle); err != nil {
		return err
	}

	if err := requireOutputLen(imgOut); err != nil {
		return err
	}
	view, err := newSliceView(imgOut)
	if err != nil {
		return err
	}

	if c.threadCount == 1 {
		_ = c.DecompressReset()
	}

	blockX, blockY, blockZ := c.blockX, c.blockY, c.blockZ
	blocksX := (imgOut.DimX + blockX - 1) / blockX
	blocksY := (imgOut.DimY + blockY - 1) / blockY
	blocksZ := (imgOut.DimZ + blockZ - 1) / blockZ
	totalBlocks := blocksX * blocksY * blocksZ
	if len(data) < totalBlocks*BlockBytes {
		return truncated("astc block data", totalBlocks*BlockBytes, len(data))
	}

	if err := c.beginDecompress(uint32(totalBlocks)); err != nil {
		return err
	}
	defer c.endDecompress()

	planeBlocks := blocksX * blocksY
	texelCount := blockX * blockY * blockZ
	u8Decoded := make([]byte, texelCount*4)
	f32Decoded := make([]float32, texelCount*4)

	total := int(c.decompress.totalBlocks.Load())
	for {
		i := int(c.decompress.nextBlock.Add(1) - 1)
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

		block := data[i*BlockBytes : (i+1)*BlockBytes]

		switch view.kind {
		case TypeU8:
			if c.cfg.Profile == ProfileLDR || c.cfg.Profile == ProfileLDRSRGB {
				decodeBlockToRGBA8(c.cfg.Profile, c.coding, block, u8Decoded)
			} else {
				// HDR content decoded to 8-bit goes through float.
				decodeBlockToRGBAF32(c.cfg.Profile, c.coding, block, f32Decoded)
				quantizeRGBAF32ToU8(f32Decoded, u8Decoded)
			}
			applySwizzleRGBA8InPlace(u8Decoded, swizzle)
			view.storeU8(x0, y0, z0, blockX, blockY, blockZ, u8Decoded)
		case TypeF16, TypeF32:
			decodeBlockToRGBAF32(c.cfg.Profile, c.coding, block, f32Decoded)
			applySwizzleRGBAF32InPlace(f32Decoded, swizzle)
			view.storeF32(x0, y0, z0, blockX, blockY, blockZ, f32Decoded)
		default:
			return newError(ErrInvalidArgument, "astc: unsupported output image type")
		}
	}

	return nil
}
