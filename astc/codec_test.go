package astc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texturetools/astc/astc"
)

func TestEncodeDecode_RGBA8_ConstRoundTrip(t *testing.T) {
	const w, h = 12, 8
	src := make([]byte, w*h*4)
	for i := 0; i < len(src); i += 4 {
		src[i+0] = 40
		src[i+1] = 80
		src[i+2] = 120
		src[i+3] = 255
	}

	data, err := astc.EncodeRGBA8(src, w, h, 4, 4)
	require.NoError(t, err)

	hdr, blocks, err := astc.ParseFile(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(w), hdr.SizeX)
	assert.Equal(t, uint32(h), hdr.SizeY)
	assert.Equal(t, 6*astc.BlockBytes, len(blocks))

	got, w2, h2, err := astc.DecodeRGBA8(data)
	require.NoError(t, err)
	assert.Equal(t, w, w2)
	assert.Equal(t, h, h2)
	assert.True(t, bytes.Equal(got, src))
}

func TestEncode_MultiThreadMatchesSingle(t *testing.T) {
	const w, h = 64, 64
	src := make([]byte, w*h*4)
	for i := 0; i < len(src); i++ {
		src[i] = byte(i*13 + i/7)
	}
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: src}

	single, err := astc.Encode(&img, 6, 6, 1, &astc.EncodeOptions{Quality: astc.QualityFast, Threads: 1})
	require.NoError(t, err)
	multi, err := astc.Encode(&img, 6, 6, 1, &astc.EncodeOptions{Quality: astc.QualityFast, Threads: 4})
	require.NoError(t, err)

	// Block encoding is deterministic regardless of which worker takes which
	// block.
	assert.True(t, bytes.Equal(single, multi))
}

func TestEncode_Volume(t *testing.T) {
	const w, h, d = 8, 8, 6
	src := make([]byte, w*h*d*4)
	for i := 0; i < len(src); i += 4 {
		src[i+0] = 200
		src[i+1] = 100
		src[i+2] = 50
		src[i+3] = 255
	}
	img := astc.Image{DimX: w, DimY: h, DimZ: d, DataType: astc.TypeU8, DataU8: src}

	data, err := astc.Encode(&img, 3, 3, 3, nil)
	require.NoError(t, err)

	dec, err := astc.Decode(data, astc.TypeU8, nil)
	require.NoError(t, err)
	assert.Equal(t, d, dec.DimZ)
	assert.True(t, bytes.Equal(dec.DataU8, src))
}

func TestEncodeHelpers_Validation(t *testing.T) {
	_, err := astc.EncodeRGBA8(make([]byte, 10), 4, 4, 4, 4)
	assert.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(err))

	_, err = astc.EncodeRGBA8(make([]byte, 4*4*4), 4, 4, 7, 7)
	assert.Equal(t, astc.ErrBadBlockSize, astc.ErrorCodeOf(err))

	_, err = astc.EncodeRGBAF32(make([]float32, 3), 4, 4, 4, 4, nil)
	assert.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(err))

	src := make([]byte, 4*4*4)
	_, err = astc.EncodeRGBA8WithOptions(src, 4, 4, 4, 4, &astc.EncodeOptions{Quality: 101})
	assert.Equal(t, astc.ErrBadQuality, astc.ErrorCodeOf(err))
}

func TestDecode_Failures(t *testing.T) {
	_, err := astc.Decode([]byte{1, 2, 3}, astc.TypeU8, nil)
	assert.Equal(t, astc.ErrTruncated, astc.ErrorCodeOf(err))

	src := make([]byte, 4*4*4)
	data, err := astc.EncodeRGBA8(src, 4, 4, 4, 4)
	require.NoError(t, err)

	_, err = astc.Decode(data, astc.DataType(9), nil)
	assert.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(err))

	bad := append([]byte{}, data...)
	bad[0] ^= 0x01
	_, err = astc.Decode(bad, astc.TypeU8, nil)
	assert.Equal(t, astc.ErrBadMagic, astc.ErrorCodeOf(err))
}
