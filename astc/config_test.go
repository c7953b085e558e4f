package astc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texturetools/astc/astc"
)

func TestConfigInit_Presets(t *testing.T) {
	fast, err := astc.ConfigInit(astc.ProfileLDR, 6, 6, 1, astc.QualityFast, 0)
	require.NoError(t, err)
	thorough, err := astc.ConfigInit(astc.ProfileLDR, 6, 6, 1, astc.QualityThorough, 0)
	require.NoError(t, err)

	// Higher presets search more of the configuration space.
	assert.Less(t, fast.TuneBlockModeLimit, thorough.TuneBlockModeLimit)
	assert.LessOrEqual(t, fast.TunePartitionCountLimit, thorough.TunePartitionCountLimit)
	assert.LessOrEqual(t, fast.TuneCandidateLimit, thorough.TuneCandidateLimit)

	// Channel weights default to uniform.
	assert.Equal(t, float32(1), fast.CWRWeight)
	assert.Equal(t, float32(1), fast.CWGWeight)
	assert.Equal(t, float32(1), fast.CWBWeight)
	assert.Equal(t, float32(1), fast.CWAWeight)
}

func TestConfigInit_InterpolatesBetweenStops(t *testing.T) {
	lo, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, 10, 0)
	require.NoError(t, err)
	mid, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, 35, 0)
	require.NoError(t, err)
	hi, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, 60, 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, lo.TuneBlockModeLimit, mid.TuneBlockModeLimit)
	assert.LessOrEqual(t, mid.TuneBlockModeLimit, hi.TuneBlockModeLimit)
	assert.Less(t, lo.TuneBlockModeLimit, hi.TuneBlockModeLimit)
}

func TestConfigInit_BlockZZeroNormalizes(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 8, 8, 0, astc.QualityMedium, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), cfg.BlockZ)
}

func TestConfigInit_HDRProfileDisablesDBCutoff(t *testing.T) {
	ldr, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	hdr, err := astc.ConfigInit(astc.ProfileHDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)

	assert.Less(t, ldr.TuneDBLimit, float32(999))
	assert.Equal(t, float32(999), hdr.TuneDBLimit)
}

func TestConfigInit_NormalMapFlag(t *testing.T) {
	plain, err := astc.ConfigInit(astc.ProfileLDR, 12, 12, 1, astc.QualityMedium, 0)
	require.NoError(t, err)
	normal, err := astc.ConfigInit(astc.ProfileLDR, 12, 12, 1, astc.QualityMedium, astc.FlagMapNormal)
	require.NoError(t, err)

	// Normal maps encode X in R and Y in A, so G and B carry no error weight.
	assert.Equal(t, float32(0), normal.CWGWeight)
	assert.Equal(t, float32(0), normal.CWBWeight)
	assert.NotZero(t, normal.CWRWeight)
	assert.NotZero(t, normal.CWAWeight)
	assert.Greater(t, normal.TunePartitionCountLimit, plain.TunePartitionCountLimit)
}

func TestConfigInit_Failures(t *testing.T) {
	cases := []struct {
		name    string
		profile astc.Profile
		bx, by  int
		bz      int
		quality float32
		flags   astc.Flags
		code    astc.ErrorCode
	}{
		{"quality-low", astc.ProfileLDR, 4, 4, 1, -0.5, 0, astc.ErrBadQuality},
		{"quality-high", astc.ProfileLDR, 4, 4, 1, 100.5, 0, astc.ErrBadQuality},
		{"block-7x7", astc.ProfileLDR, 7, 7, 1, 60, 0, astc.ErrBadBlockSize},
		{"block-3d-7", astc.ProfileLDR, 7, 7, 7, 60, 0, astc.ErrBadBlockSize},
		{"profile", astc.Profile(99), 4, 4, 1, 60, 0, astc.ErrBadProfile},
		{"unknown-flag", astc.ProfileLDR, 4, 4, 1, 60, astc.Flags(1 << 30), astc.ErrBadFlags},
		{"normal-and-rgbm", astc.ProfileLDR, 4, 4, 1, 60, astc.FlagMapNormal | astc.FlagMapRGBM, astc.ErrBadFlags},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := astc.ConfigInit(c.profile, c.bx, c.by, c.bz, c.quality, c.flags)
			require.Error(t, err)
			assert.Equal(t, c.code, astc.ErrorCodeOf(err))
		})
	}
}

func TestConfigInit_Legal3DBlockSizes(t *testing.T) {
	for _, n := range []int{3, 4, 5, 6} {
		cfg, err := astc.ConfigInit(astc.ProfileLDR, n, n, n, astc.QualityMedium, 0)
		require.NoError(t, err, "%dx%dx%d", n, n, n)
		assert.Equal(t, uint32(n), cfg.BlockZ)
	}
}
