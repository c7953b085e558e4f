package astc

import "testing"

func TestEncodeRGBA8Volume_Uses3DBlockModes(t *testing.T) {
	const (
		w  = 4
		h  = 4
		d  = 4
		bx = 4
		by = 4
		bz = 4
	)

	pix := make([]byte, w*h*d*4)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := ((z*h+y)*w + x) * 4
				pix[off+0] = uint8(x * 37)
				pix[off+1] = uint8(y * 53)
				pix[off+2] = uint8(z * 71)
				pix[off+3] = uint8(255 - x*11 - z*7)
			}
		}
	}

	img := Image{DimX: w, DimY: h, DimZ: d, DataType: TypeU8, DataU8: pix}
	out, err := Encode(&img, bx, by, bz, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	hdr, blocks, err := ParseFile(out)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if hdr.BlockZ != bz || hdr.SizeZ != d {
		t.Fatalf("unexpected header: block=%dx%dx%d size=%dx%dx%d", hdr.BlockX, hdr.BlockY, hdr.BlockZ, hdr.SizeX, hdr.SizeY, hdr.SizeZ)
	}
	if len(blocks) < BlockBytes {
		t.Fatalf("unexpected blocks payload size: %d", len(blocks))
	}

	// Ensure the first block isn't constant-color (which wouldn't exercise 3D block modes).
	if _, _, _, _, err := DecodeConstBlockRGBA8(blocks[:BlockBytes]); err == nil {
		t.Fatalf("unexpected const block; test input should produce non-const blocks")
	}

	blockMode := int(readBits(11, 0, blocks[:BlockBytes]))
	_, _, zw, _, _, _, ok := decodeBlockMode3D(blockMode)
	if !ok {
		t.Fatalf("expected a valid 3D block mode, got mode=%d", blockMode)
	}
	if zw <= 0 {
		t.Fatalf("unexpected zWeights=%d for 3D block mode=%d", zw, blockMode)
	}
}

func TestEncodeBlockRGBA8LDR_ConfigTuningGradientNonConst(t *testing.T) {
	cfg, err := ConfigInit(ProfileLDR, 4, 4, 1, QualityMedium, 0)
	if err != nil {
		t.Fatalf("ConfigInit: %v", err)
	}
	// The medium presets allow 3- and 4-partition search; a decoded block
	// caps color integers at blockMaxColorInts, so a CEM 12 candidate with
	// more than two partitions can never assemble. Such candidates must be
	// skipped, not won and then degraded to a constant block.
	if cfg.TunePartitionCountLimit < 3 {
		t.Fatalf("TunePartitionCountLimit = %d, want >= 3 for this input", cfg.TunePartitionCountLimit)
	}
	tune := encoderTuningFromConfig(cfg)

	texels := make([]byte, 4*4*4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			off := (y*4 + x) * 4
			texels[off+0] = uint8(x * 60)
			texels[off+1] = uint8(y * 60)
			texels[off+2] = uint8(200 - x*40)
			texels[off+3] = 255
		}
	}

	weight := [4]float32{cfg.CWRWeight, cfg.CWGWeight, cfg.CWBWeight, cfg.CWAWeight}
	block, err := encodeBlockRGBA8LDR(ProfileLDR, 4, 4, 1, texels, encodeQualityFromConfig(cfg), weight, &tune)
	if err != nil {
		t.Fatalf("encodeBlockRGBA8LDR: %v", err)
	}

	scb := physicalToSymbolic(block[:], 4, 4, 1)
	if scb.blockType != symBlockNonConst {
		t.Fatalf("gradient block type = %d, want non-constant", scb.blockType)
	}
	if scb.partitionCount > 2 {
		t.Fatalf("partitionCount = %d, want <= 2 for CEM 12", scb.partitionCount)
	}
}

func TestEncoderTuningFromConfig_ModeLimitPercentile(t *testing.T) {
	cfg, err := ConfigInit(ProfileLDR, 6, 6, 1, QualityMedium, 0)
	if err != nil {
		t.Fatalf("ConfigInit: %v", err)
	}
	tune := encoderTuningFromConfig(cfg)
	if tune.modeLimit != 0 {
		t.Fatalf("modeLimit = %d, want 0 (config tunings carry a percentile)", tune.modeLimit)
	}
	if tune.modeLimitPercentile != int(cfg.TuneBlockModeLimit) {
		t.Fatalf("modeLimitPercentile = %d, want %d", tune.modeLimitPercentile, cfg.TuneBlockModeLimit)
	}

	// Over a 100-entry mode list the percentile is the count itself.
	if got, want := tune.resolveModeLimit(100), int(cfg.TuneBlockModeLimit); got != want {
		t.Fatalf("resolveModeLimit(100) = %d, want %d", got, want)
	}
	// Short lists still search at least one mode and never overrun.
	if got := tune.resolveModeLimit(2); got < 1 || got > 2 {
		t.Fatalf("resolveModeLimit(2) = %d, want 1..2", got)
	}

	// Preset tunings keep their hand-picked counts.
	preset := encoderTuningFor(EncodeMedium, 36)
	if got, want := preset.resolveModeLimit(100), preset.modeLimit; got != want {
		t.Fatalf("preset resolveModeLimit(100) = %d, want %d", got, want)
	}
}
