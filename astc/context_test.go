package astc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texturetools/astc/astc"
)

func TestContextAlloc_Validation(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)

	_, err = astc.ContextAlloc(nil, 1)
	assert.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(err))

	_, err = astc.ContextAlloc(&cfg, 0)
	assert.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(err))

	bad := cfg
	bad.BlockX = 7
	_, err = astc.ContextAlloc(&bad, 1)
	assert.Equal(t, astc.ErrBadBlockSize, astc.ErrorCodeOf(err))
}

func TestContext_Close(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)

	require.NoError(t, ctx.Close())
	require.NoError(t, ctx.Close(), "Close must be idempotent")

	const w, h = 4, 4
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: make([]byte, w*h*4)}
	out := make([]byte, astc.BlockBytes)

	err = ctx.CompressImage(&img, nil, out, 0, 0)
	assert.Equal(t, astc.ErrBadContext, astc.ErrorCodeOf(err))
	err = ctx.DecompressImage(out, &img, nil, 0)
	assert.Equal(t, astc.ErrBadContext, astc.ErrorCodeOf(err))
	err = ctx.CompressReset()
	assert.Equal(t, astc.ErrBadContext, astc.ErrorCodeOf(err))
}

func TestContext_BadThreadIndex(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 2)
	require.NoError(t, err)
	defer ctx.Close()

	const w, h = 4, 4
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: make([]byte, w*h*4)}
	out := make([]byte, astc.BlockBytes)

	for _, idx := range []int{-1, 2, 7} {
		err = ctx.CompressImage(&img, nil, out, idx, 0)
		assert.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(err), "thread index %d", idx)
	}
}

func TestContext_DecompressOnly(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, astc.FlagDecompressOnly)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	defer ctx.Close()

	const w, h = 4, 4
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: make([]byte, w*h*4)}
	out := make([]byte, astc.BlockBytes)

	err = ctx.CompressImage(&img, nil, out, 0, 0)
	assert.Equal(t, astc.ErrBadContext, astc.ErrorCodeOf(err))

	// Decompression still works.
	blk := astc.EncodeConstBlockRGBA8(9, 8, 7, 6)
	require.NoError(t, ctx.DecompressImage(blk[:], &img, nil, 0))
	assert.Equal(t, []byte{9, 8, 7, 6}, img.DataU8[:4])
}

func TestContext_OutputBufferChecks(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	defer ctx.Close()

	const w, h = 8, 8
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: make([]byte, w*h*4)}

	// Four blocks needed, room for three.
	small := make([]byte, 3*astc.BlockBytes)
	err = ctx.CompressImage(&img, nil, small, 0, 0)
	assert.Equal(t, astc.ErrOutOfSpace, astc.ErrorCodeOf(err))
	for _, b := range small {
		require.Zero(t, b, "short output must stay untouched")
	}

	// Decompression of a short payload reports truncation.
	err = ctx.DecompressImage(small, &img, nil, 0)
	assert.Equal(t, astc.ErrTruncated, astc.ErrorCodeOf(err))

	// Decompression into a short pixel buffer reports out of space.
	blocks := make([]byte, 4*astc.BlockBytes)
	shortImg := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: make([]byte, w*h*4-4)}
	err = ctx.DecompressImage(blocks, &shortImg, nil, 0)
	assert.Equal(t, astc.ErrOutOfSpace, astc.ErrorCodeOf(err))
}

func TestContext_CompressionSwizzleRange(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	defer ctx.Close()

	const w, h = 4, 4
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: make([]byte, w*h*4)}
	out := make([]byte, astc.BlockBytes)

	// SwzZ is a decompression-only selector.
	swz := astc.Swizzle{R: astc.SwzR, G: astc.SwzG, B: astc.SwzB, A: astc.SwzZ}
	err = ctx.CompressImage(&img, &swz, out, 0, 0)
	assert.Equal(t, astc.ErrBadSwizzle, astc.ErrorCodeOf(err))

	// It is legal for decompression.
	blk := astc.EncodeConstBlockRGBA8(255, 128, 0, 255)
	require.NoError(t, ctx.DecompressImage(blk[:], &img, &swz, 0))
}
