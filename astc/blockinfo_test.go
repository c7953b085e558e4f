package astc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texturetools/astc/astc"
)

func TestGetBlockInfo_ConstantBlock(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	defer ctx.Close()

	blk := astc.EncodeConstBlockRGBA8(255, 0, 128, 255)
	info, err := ctx.GetBlockInfo(blk)
	require.NoError(t, err)

	assert.True(t, info.IsConstantBlock)
	assert.False(t, info.IsErrorBlock)
	assert.Equal(t, uint32(4), info.BlockX)
	assert.Equal(t, uint32(4), info.BlockY)
	assert.Equal(t, uint32(1), info.BlockZ)
	assert.Equal(t, uint32(16), info.TexelCount)
}

func TestGetBlockInfo_ErrorBlock(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	defer ctx.Close()

	// All-zero bits decode to a reserved block mode.
	var blk [astc.BlockBytes]byte
	info, err := ctx.GetBlockInfo(blk)
	require.NoError(t, err)
	assert.True(t, info.IsErrorBlock)
}

func TestGetBlockInfo_EncodedBlock(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	defer ctx.Close()

	// A gradient block encodes with real weights and endpoints.
	const w, h = 4, 4
	src := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 4
			src[off+0] = uint8(x * 80)
			src[off+1] = uint8(y * 80)
			src[off+2] = uint8(255 - x*60)
			src[off+3] = 255
		}
	}
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: src}
	out := make([]byte, astc.BlockBytes)
	require.NoError(t, ctx.CompressImage(&img, nil, out, 0, 0))

	var blk [astc.BlockBytes]byte
	copy(blk[:], out)
	info, err := ctx.GetBlockInfo(blk)
	require.NoError(t, err)

	require.False(t, info.IsErrorBlock)
	require.False(t, info.IsConstantBlock)
	assert.GreaterOrEqual(t, info.PartitionCount, uint32(1))
	assert.NotZero(t, info.WeightX)
	assert.NotZero(t, info.WeightY)
	assert.NotZero(t, info.WeightLevelCount)
	assert.NotZero(t, info.ColorLevelCount)

	// Weights land in [0, 1] after unquantization.
	texels := int(info.TexelCount)
	for i := 0; i < texels; i++ {
		assert.GreaterOrEqual(t, info.WeightValuesPlane1[i], float32(0))
		assert.LessOrEqual(t, info.WeightValuesPlane1[i], float32(1))
	}

	// Partition assignment only names live partitions.
	for i := 0; i < texels; i++ {
		assert.Less(t, uint32(info.PartitionAssignment[i]), info.PartitionCount)
	}
}

func TestGetBlockInfo_ClosedContext(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	ctx, err := astc.ContextAlloc(&cfg, 1)
	require.NoError(t, err)
	require.NoError(t, ctx.Close())

	_, err = ctx.GetBlockInfo(astc.EncodeConstBlockRGBA8(1, 2, 3, 4))
	assert.Equal(t, astc.ErrBadContext, astc.ErrorCodeOf(err))
}
