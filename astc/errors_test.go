package astc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturetools/astc/astc"
)

func TestErrorString_StableNames(t *testing.T) {
	cases := []struct {
		code astc.ErrorCode
		want string
	}{
		{astc.Success, "SUCCESS"},
		{astc.ErrInvalidArgument, "ERR_INVALID_ARGUMENT"},
		{astc.ErrOutOfSpace, "ERR_OUT_OF_SPACE"},
		{astc.ErrBadMagic, "ERR_BAD_MAGIC"},
		{astc.ErrTruncated, "ERR_TRUNCATED"},
		{astc.ErrBadBlockSize, "ERR_BAD_BLOCK_SIZE"},
		{astc.ErrBadProfile, "ERR_BAD_PROFILE"},
		{astc.ErrBadQuality, "ERR_BAD_QUALITY"},
		{astc.ErrBadSwizzle, "ERR_BAD_SWIZZLE"},
		{astc.ErrBadFlags, "ERR_BAD_FLAGS"},
		{astc.ErrBadContext, "ERR_BAD_CONTEXT"},
		{astc.ErrNotSupported, "ERR_NOT_SUPPORTED"},
	}

	for _, c := range cases {
		require.Equal(t, c.want, astc.ErrorString(c.code))
	}

	require.Equal(t, "", astc.ErrorString(astc.ErrorCode(0xDEADBEEF)))
}

func TestErrorCodeOf(t *testing.T) {
	require.Equal(t, astc.Success, astc.ErrorCodeOf(nil))

	_, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, -1, 0)
	require.Error(t, err)
	require.Equal(t, astc.ErrBadQuality, astc.ErrorCodeOf(err))

	_, err = astc.ConfigInit(astc.ProfileLDR, 7, 7, 1, astc.QualityMedium, 0)
	require.Error(t, err)
	require.Equal(t, astc.ErrBadBlockSize, astc.ErrorCodeOf(err))

	// Non-astc errors classify conservatively.
	require.Equal(t, astc.ErrInvalidArgument, astc.ErrorCodeOf(errors.New("some other error")))
}

func TestError_AsTarget(t *testing.T) {
	_, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, 200, 0)
	require.Error(t, err)

	var e *astc.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, astc.ErrBadQuality, e.Code)
	require.NotEmpty(t, e.Error())
}
