package astc

import (
	"sync"
	"sync/atomic"
)

// Profile selects the codec operating mode. ASTC payloads do not store a
// profile; it is a usage convention that changes how endpoint data is
// interpreted, so compressor and decompressor must agree on it out of band.
type Profile uint8

const (
	// ProfileLDR uses linear low-dynamic-range rules.
	ProfileLDR Profile = iota
	// ProfileLDRSRGB uses sRGB low-dynamic-range rules.
	ProfileLDRSRGB
	// ProfileHDRRGBLDRAlpha uses HDR RGB with LDR alpha.
	ProfileHDRRGBLDRAlpha
	// ProfileHDR uses HDR rules for all four channels.
	ProfileHDR
)

// Flags is a bitset of codec options.
type Flags uint32

const (
	// FlagMapNormal optimizes for two-channel normal maps stored as X in
	// red and Y in alpha.
	FlagMapNormal Flags = 1 << 0
	// FlagUseAlphaWeight scales RGB error weighting by block alpha.
	FlagUseAlphaWeight Flags = 1 << 1
	// FlagUsePerceptual weights channels by perceptual importance.
	FlagUsePerceptual Flags = 1 << 2
	// FlagDecompressOnly marks a context that rejects compression calls.
	FlagDecompressOnly Flags = 1 << 3
	// FlagMapRGBM optimizes for RGBM-encoded HDR stored in LDR channels.
	FlagMapRGBM Flags = 1 << 4
	// FlagAll is the set of all defined flags.
	FlagAll Flags = (1 << 5) - 1
)

// Swz is a channel selector.
type Swz uint8

const (
	SwzR Swz = iota
	SwzG
	SwzB
	SwzA
	Swz0
	Swz1
	SwzZ
)

// Swizzle maps each output channel to an input channel or a constant.
type Swizzle struct {
	R Swz
	G Swz
	B Swz
	A Swz
}

// SwizzleRGBA is the identity mapping.
var SwizzleRGBA = Swizzle{R: SwzR, G: SwzG, B: SwzB, A: SwzA}

// resolveSwizzle maps an optional descriptor to its concrete form. A nil
// descriptor resolves to the identity mapping.
func resolveSwizzle(swz *Swizzle) Swizzle {
	if swz == nil {
		return SwizzleRGBA
	}
	return *swz
}

// DataType is the per-channel sample encoding of an image buffer.
type DataType uint8

const (
	// TypeU8 stores 8-bit normalized samples, one byte per channel.
	TypeU8 DataType = iota
	// TypeF16 stores IEEE binary16 samples, two bytes per channel.
	TypeF16
	// TypeF32 stores float32 samples, four bytes per channel.
	TypeF32
)

// ElementSize returns the per-channel byte size, or 0 for unknown kinds.
func (t DataType) ElementSize() int {
	switch t {
	case TypeU8:
		return 1
	case TypeF16:
		return 2
	case TypeF32:
		return 4
	default:
		return 0
	}
}

// Config is the flat configuration record a context is allocated from.
//
// Every field should be a value produced by ConfigInit or copied verbatim
// from one; the tuning limits are clamped by ContextAlloc and forwarded to
// the encoder, never otherwise interpreted.
type Config struct {
	Profile Profile
	Flags   Flags

	BlockX uint32
	BlockY uint32
	BlockZ uint32

	CWRWeight float32
	CWGWeight float32
	CWBWeight float32
	CWAWeight float32

	AScaleRadius uint32
	RGBMMScale   float32

	TunePartitionCountLimit            uint32
	Tune2PartitionIndexLimit           uint32
	Tune3PartitionIndexLimit           uint32
	Tune4PartitionIndexLimit           uint32
	TuneBlockModeLimit                 uint32 // percentile (1..100) of the sorted block mode list
	TuneRefinementLimit                uint32
	TuneCandidateLimit                 uint32
	Tune2PartitioningCandidateLimit    uint32
	Tune3PartitioningCandidateLimit    uint32
	Tune4PartitioningCandidateLimit    uint32
	TuneDBLimit                        float32
	TuneMSEOvershoot                   float32
	Tune2PartitionEarlyOutLimitFactor  float32
	Tune3PartitionEarlyOutLimitFactor  float32
	Tune2PlaneEarlyOutLimitCorrelation float32
}

// Image describes one tightly packed 4-channel image over a caller-owned
// buffer. Exactly one of the Data slices is used, selected by DataType.
//
// The buffer is borrowed, never retained: it must stay alive for the
// duration of any call the Image is passed to, and per-slice addressing is
// derived from the dimensions alone (slice z starts at element offset
// z*DimX*DimY*4).
type Image struct {
	DimX     int
	DimY     int
	DimZ     int
	DataType DataType

	DataU8  []byte
	DataF16 []uint16
	DataF32 []float32
}

// BlockInfo is a descriptive snapshot of one compressed block's encoding.
type BlockInfo struct {
	Profile Profile

	BlockX     uint32
	BlockY     uint32
	BlockZ     uint32
	TexelCount uint32

	IsErrorBlock     bool
	IsConstantBlock  bool
	IsHDRBlock       bool
	IsDualPlaneBlock bool

	PartitionCount     uint32
	PartitionIndex     uint32
	DualPlaneComponent uint32

	ColorEndpointModes [4]uint32
	ColorLevelCount    uint32
	WeightLevelCount   uint32

	WeightX uint32
	WeightY uint32
	WeightZ uint32

	ColorEndpoints      [4][2][4]float32
	WeightValuesPlane1  [216]float32
	WeightValuesPlane2  [216]float32
	PartitionAssignment [216]uint8
}

type contextState uint32

const (
	ctxIdle contextState = iota
	ctxCompressActive
	ctxDecompressActive
	ctxClosed
)

// ProgressFunc receives throttled compression progress in percent together
// with the opaque handle registered by the caller that owns the call.
type ProgressFunc func(handle uintptr, progress float32)

// Context is a reusable codec context.
//
// A context runs one compression or one decompression at a time. For
// multi-threaded use callers spawn their own goroutines and invoke
// CompressImage/DecompressImage once per worker, each with a distinct
// thread index in [0, threadCount).
type Context struct {
	cfg         Config
	threadCount int

	blockX int
	blockY int
	blockZ int

	coding *blockCoding

	progressSink ProgressFunc

	// Lifecycle: idle -> compress/decompress active -> idle, or -> closed.
	state atomic.Uint32

	compress   opState
	decompress opState
}

type opState struct {
	needsReset atomic.Uint32

	// 0 idle, 1 initializing, 2 active
	initState atomic.Uint32
	workers   atomic.Int32

	// Workers that have joined the current operation. Teardown waits for
	// all threadCount of them, not just for workers to reach zero.
	arrived atomic.Uint32

	cancel atomic.Uint32

	totalBlocks atomic.Uint32
	nextBlock   atomic.Uint32
	doneBlocks  atomic.Uint32

	// Progress throttling state.
	progressMu            sync.Mutex
	progressMinDiffBits   atomic.Uint32 // float32 bits
	progressLastValueBits atomic.Uint32 // float32 bits

	inputAlphaAverages []float32
}
