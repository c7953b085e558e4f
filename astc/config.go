package astc

import (
	"math"
	"math/bits"
)

// Named stops on the [0, 100] quality axis accepted by ConfigInit.
const (
	QualityFastest      float32 = 0
	QualityFast         float32 = 10
	QualityMedium       float32 = 60
	QualityThorough     float32 = 98
	QualityVeryThorough float32 = 99
	QualityExhaustive   float32 = 100
)

// quality preset stops. Each table row is one quality stop; configurations
// between stops are linearly interpolated.
type presetConfig struct {
	quality float32

	tunePartitionCountLimit            uint32
	tune2PartitionIndexLimit           uint32
	tune3PartitionIndexLimit           uint32
	tune4PartitionIndexLimit           uint32
	tuneBlockModeLimit                 uint32
	tuneRefinementLimit                uint32
	tuneCandidateLimit                 uint32
	tune2PartitioningCandidateLimit    uint32
	tune3PartitioningCandidateLimit    uint32
	tune4PartitioningCandidateLimit    uint32
	tuneDBLimitABase                   float32
	tuneDBLimitBBase                   float32
	tuneMSEOvershoot                   float32
	tune2PartitionEarlyOutLimitFactor  float32
	tune3PartitionEarlyOutLimitFactor  float32
	tune2PlaneEarlyOutLimitCorrelation float32
}

// Preset tables by block bandwidth: high for blocks under 25 texels, mid for
// 25..63, low for 64 and up.
var presetConfigsHigh = []presetConfig{
	{0, 2, 10, 6, 4, 43, 2, 2, 2, 2, 2, 85.2, 63.2, 3.5, 1.0, 1.0, 0.85},
	{10, 3, 18, 10, 8, 55, 3, 3, 2, 2, 2, 85.2, 63.2, 3.5, 1.0, 1.0, 0.90},
	{60, 4, 34, 28, 16, 77, 3, 3, 2, 2, 2, 95.0, 70.0, 2.5, 1.1, 1.05, 0.95},
	{98, 4, 82, 60, 30, 94, 4, 4, 3, 2, 2, 105.0, 77.0, 10.0, 1.35, 1.15, 0.97},
	{99, 4, 256, 128, 64, 98, 4, 6, 8, 6, 4, 200.0, 200.0, 10.0, 1.6, 1.4, 0.98},
	{100, 4, 512, 512, 512, 100, 4, 8, 8, 8, 8, 200.0, 200.0, 10.0, 2.0, 2.0, 0.99},
}

var presetConfigsMid = []presetConfig{
	{0, 2, 10, 6, 4, 43, 2, 2, 2, 2, 2, 85.2, 63.2, 3.5, 1.0, 1.0, 0.80},
	{10, 3, 18, 12, 10, 55, 3, 3, 2, 2, 2, 85.2, 63.2, 3.5, 1.0, 1.0, 0.85},
	{60, 3, 34, 28, 16, 77, 3, 3, 2, 2, 2, 95.0, 70.0, 3.0, 1.1, 1.05, 0.90},
	{98, 4, 82, 60, 30, 94, 4, 4, 3, 2, 2, 105.0, 77.0, 10.0, 1.4, 1.2, 0.95},
	{99, 4, 256, 128, 64, 98, 4, 6, 8, 6, 3, 200.0, 200.0, 10.0, 1.6, 1.4, 0.98},
	{100, 4, 256, 256, 256, 100, 4, 8, 8, 8, 8, 200.0, 200.0, 10.0, 2.0, 2.0, 0.99},
}

var presetConfigsLow = []presetConfig{
	{0, 2, 10, 6, 4, 40, 2, 2, 2, 2, 2, 85.0, 63.0, 3.5, 1.0, 1.0, 0.80},
	{10, 2, 18, 12, 10, 55, 3, 3, 2, 2, 2, 85.0, 63.0, 3.5, 1.0, 1.0, 0.85},
	{60, 3, 34, 28, 16, 77, 3, 3, 2, 2, 2, 95.0, 70.0, 3.5, 1.1, 1.05, 0.90},
	{98, 4, 82, 60, 30, 93, 4, 4, 3, 2, 2, 105.0, 77.0, 10.0, 1.3, 1.2, 0.97},
	{99, 4, 256, 128, 64, 98, 4, 6, 8, 5, 2, 200.0, 200.0, 10.0, 1.6, 1.4, 0.98},
	{100, 4, 256, 256, 256, 100, 4, 8, 8, 8, 8, 200.0, 200.0, 10.0, 2.0, 2.0, 0.99},
}

func (p *presetConfig) apply(cfg *Config, ltexels float64) {
	cfg.TunePartitionCountLimit = p.tunePartitionCountLimit
	cfg.Tune2PartitionIndexLimit = p.tune2PartitionIndexLimit
	cfg.Tune3PartitionIndexLimit = p.tune3PartitionIndexLimit
	cfg.Tune4PartitionIndexLimit = p.tune4PartitionIndexLimit
	cfg.TuneBlockModeLimit = p.tuneBlockModeLimit
	cfg.TuneRefinementLimit = p.tuneRefinementLimit
	cfg.TuneCandidateLimit = p.tuneCandidateLimit
	cfg.Tune2PartitioningCandidateLimit = p.tune2PartitioningCandidateLimit
	cfg.Tune3PartitioningCandidateLimit = p.tune3PartitioningCandidateLimit
	cfg.Tune4PartitioningCandidateLimit = p.tune4PartitioningCandidateLimit

	cfg.TuneDBLimit = float32(math.Max(
		float64(p.tuneDBLimitABase)-35*ltexels,
		float64(p.tuneDBLimitBBase)-19*ltexels,
	))

	cfg.TuneMSEOvershoot = p.tuneMSEOvershoot
	cfg.Tune2PartitionEarlyOutLimitFactor = p.tune2PartitionEarlyOutLimitFactor
	cfg.Tune3PartitionEarlyOutLimitFactor = p.tune3PartitionEarlyOutLimitFactor
	cfg.Tune2PlaneEarlyOutLimitCorrelation = p.tune2PlaneEarlyOutLimitCorrelation
}

// lerpPresets interpolates between two adjacent quality stops.
func lerpPresets(a, b *presetConfig, quality float32, cfg *Config, ltexels float64) error {
	wtRange := b.quality - a.quality
	if wtRange <= 0 {
		return newError(ErrBadQuality, "astc: invalid quality preset table")
	}

	wtA := (b.quality - quality) / wtRange
	wtB := (quality - a.quality) / wtRange

	lerp := func(av, bv float32) float32 { return av*wtA + bv*wtB }
	lerpi := func(av, bv uint32) uint32 {
		v := float32(av)*wtA + float32(bv)*wtB
		return uint32(int(v + 0.5))
	}

	cfg.TunePartitionCountLimit = lerpi(a.tunePartitionCountLimit, b.tunePartitionCountLimit)
	cfg.Tune2PartitionIndexLimit = lerpi(a.tune2PartitionIndexLimit, b.tune2PartitionIndexLimit)
	cfg.Tune3PartitionIndexLimit = lerpi(a.tune3PartitionIndexLimit, b.tune3PartitionIndexLimit)
	cfg.Tune4PartitionIndexLimit = lerpi(a.tune4PartitionIndexLimit, b.tune4PartitionIndexLimit)
	cfg.TuneBlockModeLimit = lerpi(a.tuneBlockModeLimit, b.tuneBlockModeLimit)
	cfg.TuneRefinementLimit = lerpi(a.tuneRefinementLimit, b.tuneRefinementLimit)
	cfg.TuneCandidateLimit = lerpi(a.tuneCandidateLimit, b.tuneCandidateLimit)
	cfg.Tune2PartitioningCandidateLimit = lerpi(a.tune2PartitioningCandidateLimit, b.tune2PartitioningCandidateLimit)
	cfg.Tune3PartitioningCandidateLimit = lerpi(a.tune3PartitioningCandidateLimit, b.tune3PartitioningCandidateLimit)
	cfg.Tune4PartitioningCandidateLimit = lerpi(a.tune4PartitioningCandidateLimit, b.tune4PartitioningCandidateLimit)

	cfg.TuneDBLimit = float32(math.Max(
		float64(lerp(a.tuneDBLimitABase, b.tuneDBLimitABase))-35*ltexels,
		float64(lerp(a.tuneDBLimitBBase, b.tuneDBLimitBBase))-19*ltexels,
	))

	cfg.TuneMSEOvershoot = lerp(a.tuneMSEOvershoot, b.tuneMSEOvershoot)
	cfg.Tune2PartitionEarlyOutLimitFactor = lerp(a.tune2PartitionEarlyOutLimitFactor, b.tune2PartitionEarlyOutLimitFactor)
	cfg.Tune3PartitionEarlyOutLimitFactor = lerp(a.tune3PartitionEarlyOutLimitFactor, b.tune3PartitionEarlyOutLimitFactor)
	cfg.Tune2PlaneEarlyOutLimitCorrelation = lerp(a.tune2PlaneEarlyOutLimitCorrelation, b.tune2PlaneEarlyOutLimitCorrelation)
	return nil
}

// ConfigInit derives a full Config from coarse parameters.
//
// quality is a preset in [0, 100]; blockZ may be 0 for 2D block footprints
// and is normalized to 1.
func ConfigInit(profile Profile, blockX, blockY, blockZ int, quality float32, flags Flags) (Config, error) {
	if blockZ == 0 {
		blockZ = 1
	}

	if quality < 0 || quality > 100 {
		return Config{}, newError(ErrBadQuality, "astc: invalid quality")
	}
	if err := validateBlockSize(blockX, blockY, blockZ); err != nil {
		return Config{}, err
	}
	if err := validateProfile(profile); err != nil {
		return Config{}, err
	}
	if err := validateFlags(flags); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Profile: profile,
		Flags:   flags,
		BlockX:  uint32(blockX),
		BlockY:  uint32(blockY),
		BlockZ:  uint32(blockZ),

		CWRWeight: 1,
		CWGWeight: 1,
		CWBWeight: 1,
		CWAWeight: 1,
	}

	texels := float64(blockX * blockY * blockZ)
	ltexels := math.Log10(texels)

	presets := presetConfigsLow
	if texels < 25 {
		presets = presetConfigsHigh
	} else if texels < 64 {
		presets = presetConfigsMid
	}

	end := 0
	for end < len(presets) && presets[end].quality < quality {
		end++
	}
	start := 0
	if end > 0 {
		start = end - 1
	}
	if end >= len(presets) {
		end = len(presets) - 1
		start = end
	}

	if start == end {
		presets[start].apply(&cfg, ltexels)
	} else if err := lerpPresets(&presets[start], &presets[end], quality, &cfg, ltexels); err != nil {
		return Config{}, err
	}

	switch profile {
	case ProfileLDR, ProfileLDRSRGB:
		// LDR defaults are fine.
	case ProfileHDRRGBLDRAlpha, ProfileHDR:
		cfg.TuneDBLimit = 999.0
	}

	if (flags & FlagMapNormal) != 0 {
		// Normal map encoding uses L+A blocks, so allow one more
		// partitioning than the preset would.
		if cfg.TunePartitionCountLimit < 4 {
			cfg.TunePartitionCountLimit++
		}

		cfg.CWGWeight = 0
		cfg.CWBWeight = 0
		cfg.Tune2PartitionEarlyOutLimitFactor *= 1.5
		cfg.Tune3PartitionEarlyOutLimitFactor *= 1.5
		cfg.Tune2PlaneEarlyOutLimitCorrelation = 0.99

		// Normals show blocking artifacts on smooth curves, so try harder.
		cfg.TuneDBLimit *= 1.03
	} else if (flags & FlagMapRGBM) != 0 {
		cfg.RGBMMScale = 5.0
		cfg.CWAWeight = 2.0 * cfg.RGBMMScale
	} else if (flags & FlagUsePerceptual) != 0 {
		cfg.CWRWeight = 0.30 * 2.25
		cfg.CWGWeight = 0.59 * 2.25
		cfg.CWBWeight = 0.11 * 2.25
	}

	return cfg, nil
}

func validateProfile(profile Profile) error {
	switch profile {
	case ProfileLDR, ProfileLDRSRGB, ProfileHDRRGBLDRAlpha, ProfileHDR:
		return nil
	default:
		return newError(ErrBadProfile, "astc: invalid profile")
	}
}

func validateFlags(flags Flags) error {
	if flags&^FlagAll != 0 {
		return newError(ErrBadFlags, "astc: invalid flags")
	}
	if bits.OnesCount32(uint32(flags&(FlagMapNormal|FlagMapRGBM))) > 1 {
		return newError(ErrBadFlags, "astc: normal map and RGBM flags are mutually exclusive")
	}
	return nil
}

func validateBlockSize(blockX, blockY, blockZ int) error {
	if blockX <= 0 || blockY <= 0 || blockZ <= 0 ||
		blockX > 255 || blockY > 255 || blockZ > 255 ||
		blockX*blockY*blockZ > blockMaxTexels {
		return newError(ErrBadBlockSize, "astc: invalid block dimensions")
	}
	if blockZ <= 1 {
		if !isLegal2DBlockSize(blockX, blockY) {
			return newError(ErrBadBlockSize, "astc: invalid block dimensions")
		}
		return nil
	}
	if !isLegal3DBlockSize(blockX, blockY, blockZ) {
		return newError(ErrBadBlockSize, "astc: invalid block dimensions")
	}
	return nil
}

// The legal footprints are fixed by the format.
func isLegal2DBlockSize(xdim, ydim int) bool {
	switch (xdim << 8) | ydim {
	case 0x0404,
		0x0504,
		0x0505,
		0x0605,
		0x0606,
		0x0805,
		0x0806,
		0x0808,
		0x0A05,
		0x0A06,
		0x0A08,
		0x0A0A,
		0x0C0A,
		0x0C0C:
		return true
	default:
		return false
	}
}

func isLegal3DBlockSize(xdim, ydim, zdim int) bool {
	switch (xdim << 16) | (ydim << 8) | zdim {
	case 0x030303,
		0x040303,
		0x040403,
		0x040404,
		0x050404,
		0x050504,
		0x050505,
		0x060505,
		0x060605,
		0x060606:
		return true
	default:
		return false
	}
}

// validateAndClampConfig checks profile, flags, and block footprint, and
// clamps the tuning limits into their working ranges.
func validateAndClampConfig(cfg *Config) error {
	if cfg == nil {
		return newError(ErrInvalidArgument, "astc: nil config")
	}
	if err := validateProfile(cfg.Profile); err != nil {
		return err
	}
	if err := validateFlags(cfg.Flags); err != nil {
		return err
	}
	if err := validateBlockSize(int(cfg.BlockX), int(cfg.BlockY), int(cfg.BlockZ)); err != nil {
		return err
	}

	if cfg.RGBMMScale < 1 {
		cfg.RGBMMScale = 1
	}

	cfg.TunePartitionCountLimit = clampU32(cfg.TunePartitionCountLimit, 1, 4)
	cfg.Tune2PartitionIndexLimit = clampU32(cfg.Tune2PartitionIndexLimit, 1, 1024)
	cfg.Tune3PartitionIndexLimit = clampU32(cfg.Tune3PartitionIndexLimit, 1, 1024)
	cfg.Tune4PartitionIndexLimit = clampU32(cfg.Tune4PartitionIndexLimit, 1, 1024)
	cfg.TuneBlockModeLimit = clampU32(cfg.TuneBlockModeLimit, 1, 100)
	if cfg.TuneRefinementLimit < 1 {
		cfg.TuneRefinementLimit = 1
	}
	cfg.TuneCandidateLimit = clampU32(cfg.TuneCandidateLimit, 1, 8)
	cfg.Tune2PartitioningCandidateLimit = clampU32(cfg.Tune2PartitioningCandidateLimit, 1, 8)
	cfg.Tune3PartitioningCandidateLimit = clampU32(cfg.Tune3PartitioningCandidateLimit, 1, 8)
	cfg.Tune4PartitioningCandidateLimit = clampU32(cfg.Tune4PartitioningCandidateLimit, 1, 8)

	if cfg.TuneDBLimit < 0 {
		cfg.TuneDBLimit = 0
	}
	if cfg.TuneMSEOvershoot < 1 {
		cfg.TuneMSEOvershoot = 1
	}
	if cfg.Tune2PartitionEarlyOutLimitFactor < 0 {
		cfg.Tune2PartitionEarlyOutLimitFactor = 0
	}
	if cfg.Tune3PartitionEarlyOutLimitFactor < 0 {
		cfg.Tune3PartitionEarlyOutLimitFactor = 0
	}
	if cfg.Tune2PlaneEarlyOutLimitCorrelation < 0 {
		cfg.Tune2PlaneEarlyOutLimitCorrelation = 0
	}

	maxWeight := max4(cfg.CWRWeight, cfg.CWGWeight, cfg.CWBWeight, cfg.CWAWeight)
	if !(maxWeight > 0) {
		return newError(ErrInvalidArgument, "astc: invalid component weights")
	}
	minWeight := maxWeight / 1000.0
	if cfg.CWRWeight < minWeight {
		cfg.CWRWeight = minWeight
	}
	if cfg.CWGWeight < minWeight {
		cfg.CWGWeight = minWeight
	}
	if cfg.CWBWeight < minWeight {
		cfg.CWBWeight = minWeight
	}
	if cfg.CWAWeight < minWeight {
		cfg.CWAWeight = minWeight
	}

	return nil
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max4(a, b, c, d float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}

func validateCompressionSwizzle(swz Swizzle) error {
	// SwzZ is only meaningful when decoding.
	if swz.R > Swz1 || swz.G > Swz1 || swz.B > Swz1 || swz.A > Swz1 {
		return newError(ErrBadSwizzle, "astc: invalid swizzle")
	}
	return nil
}

func validateDecompressionSwizzle(swz Swizzle) error {
	if swz.R > SwzZ || swz.G > SwzZ || swz.B > SwzZ || swz.A > SwzZ {
		return newError(ErrBadSwizzle, "astc: invalid swizzle")
	}
	return nil
}
