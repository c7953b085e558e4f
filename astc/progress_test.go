package astc_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/texturetools/astc/astc"
)

func TestContext_CompressCancel_StopsEarly(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)

	var ctx *astc.Context
	var cancelOnce sync.Once
	sink := func(handle uintptr, p float32) {
		if p >= 1 {
			cancelOnce.Do(func() {
				_ = ctx.CompressCancel()
			})
		}
	}

	ctx, err = astc.ContextAllocWithProgress(&cfg, 1, sink)
	require.NoError(t, err)
	defer ctx.Close()

	// Large enough that progress throttling reports before completion.
	const w, h, d = 512, 512, 1
	src := make([]byte, w*h*d*4)
	for i := 0; i < len(src); i++ {
		src[i] = byte(i * 17)
	}

	blocks := make([]byte, blocksLenBytes(w, h, d, int(cfg.BlockX), int(cfg.BlockY), int(cfg.BlockZ)))
	for i := range blocks {
		blocks[i] = 0xCD
	}

	img := astc.Image{DimX: w, DimY: h, DimZ: d, DataType: astc.TypeU8, DataU8: src}
	require.NoError(t, ctx.CompressImage(&img, nil, blocks, 0, 0))

	// Cancellation must leave a tail of blocks unwritten.
	totalBlocks := len(blocks) / astc.BlockBytes
	untouched := 0
	for i := 0; i < totalBlocks; i++ {
		block := blocks[i*astc.BlockBytes : (i+1)*astc.BlockBytes]
		allSentinel := true
		for _, b := range block {
			if b != 0xCD {
				allSentinel = false
				break
			}
		}
		if allSentinel {
			untouched++
		}
	}
	require.NotZero(t, untouched, "expected cancellation to leave some blocks untouched")
	require.Less(t, untouched, totalBlocks, "expected cancellation to still encode some blocks")
}

func TestContext_Progress_ThrottledAndHits100(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityMedium, 0)
	require.NoError(t, err)

	var calls []float32
	ctx, err := astc.ContextAllocWithProgress(&cfg, 1, func(handle uintptr, p float32) {
		calls = append(calls, p)
	})
	require.NoError(t, err)
	defer ctx.Close()

	// 128x128 @ 4x4 gives 1024 blocks, so throttling leaves only the forced
	// 100% completion callback.
	const w, h, d = 128, 128, 1
	src := make([]byte, w*h*d*4)
	for i := 0; i < len(src); i++ {
		src[i] = byte(i * 17)
	}

	blocks := make([]byte, blocksLenBytes(w, h, d, int(cfg.BlockX), int(cfg.BlockY), int(cfg.BlockZ)))
	img := astc.Image{DimX: w, DimY: h, DimZ: d, DataType: astc.TypeU8, DataU8: src}
	require.NoError(t, ctx.CompressImage(&img, nil, blocks, 0, 0))

	require.Equal(t, []float32{100}, calls)
}

func TestContext_Progress_HandleRouting(t *testing.T) {
	cfg, err := astc.ConfigInit(astc.ProfileLDR, 4, 4, 1, astc.QualityFastest, 0)
	require.NoError(t, err)

	var mu sync.Mutex
	seen := map[uintptr]bool{}
	ctx, err := astc.ContextAllocWithProgress(&cfg, 2, func(handle uintptr, p float32) {
		mu.Lock()
		seen[handle] = true
		mu.Unlock()
	})
	require.NoError(t, err)
	defer ctx.Close()

	const w, h = 64, 64
	src := make([]byte, w*h*4)
	for i := 0; i < len(src); i++ {
		src[i] = byte(i * 31)
	}
	img := astc.Image{DimX: w, DimY: h, DimZ: 1, DataType: astc.TypeU8, DataU8: src}
	blocks := make([]byte, blocksLenBytes(w, h, 1, 4, 4, 1))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = ctx.CompressImage(&img, nil, blocks, idx, uintptr(1000+idx))
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// The forced completion event fires once, on whichever worker finishes
	// last, tagged with that worker's handle.
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	for h := range seen {
		require.True(t, h == 1000 || h == 1001, "unexpected handle %d", h)
	}
}
