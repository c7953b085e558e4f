package astc

import (
	"math"
	"runtime"
)

// ContextAlloc builds a reusable codec context from a validated config.
//
// threadCount is the number of workers the caller intends to drive the
// context with. The context itself spawns no goroutines; callers invoke
// CompressImage or DecompressImage once per worker with distinct thread
// indices.
func ContextAlloc(cfg *Config, threadCount int) (*Context, error) {
	return ContextAllocWithProgress(cfg, threadCount, nil)
}

// ContextAllocWithProgress is ContextAlloc with a compression progress
// sink. The sink receives throttled percentage updates tagged with the
// opaque handle the calling goroutine registered for the operation.
func ContextAllocWithProgress(cfg *Config, threadCount int, sink ProgressFunc) (*Context, error) {
	if cfg == nil {
		return nil, newError(ErrInvalidArgument, "astc: nil config")
	}
	if threadCount <= 0 {
		return nil, newError(ErrInvalidArgument, "astc: invalid thread count")
	}

	blockX := int(cfg.BlockX)
	blockY := int(cfg.BlockY)
	blockZ := int(cfg.BlockZ)
	if err := validateBlockSize(blockX, blockY, blockZ); err != nil {
		return nil, err
	}

	// The context keeps a private clamped copy so later caller mutation of
	// cfg cannot change an active context.
	cfgi := *cfg
	if err := validateAndClampConfig(&cfgi); err != nil {
		return nil, err
	}

	ctx := &Context{
		cfg:          cfgi,
		threadCount:  threadCount,
		blockX:       blockX,
		blockY:       blockY,
		blockZ:       blockZ,
		coding:       blockCodingFor(blockX, blockY, blockZ),
		progressSink: sink,
	}
	ctx.state.Store(uint32(ctxIdle))
	return ctx, nil
}

// ContextCreate is the quick path: derive a config from coarse parameters
// and allocate a context for it in one call.
func ContextCreate(profile Profile, blockX, blockY, blockZ int, quality float32, flags Flags, threadCount int) (*Context, error) {
	cfg, err := ConfigInit(profile, blockX, blockY, blockZ, quality, flags)
	if err != nil {
		return nil, err
	}
	return ContextAlloc(&cfg, threadCount)
}

// Close marks the context unusable. It fails while a compression or
// decompression is in flight; closing an already closed context is a no-op.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	for {
		st := contextState(c.state.Load())
		switch st {
		case ctxClosed:
			return nil
		case ctxIdle:
			if c.state.CompareAndSwap(uint32(ctxIdle), uint32(ctxClosed)) {
				return nil
			}
		default:
			return newError(ErrBadContext, "astc: close while operation active")
		}
	}
}

// CompressReset rearms the context for the next compression. Contexts
// driven by more than one worker must be reset between images; resetting
// while workers are still inside CompressImage is an error.
func (c *Context) CompressReset() error {
	if c == nil {
		return newError(ErrBadContext, "astc: nil context")
	}
	if contextState(c.state.Load()) == ctxClosed {
		return newError(ErrBadContext, "astc: context closed")
	}
	if c.compress.workers.Load() != 0 {
		return newError(ErrBadContext, "astc: compress reset while compress active")
	}
	c.compress.needsReset.Store(0)
	c.compress.cancel.Store(0)
	c.compress.initState.Store(0)
	c.compress.arrived.Store(0)
	// Recover from an image that fewer than threadCount workers drove.
	c.state.CompareAndSwap(uint32(ctxCompressActive), uint32(ctxIdle))
	return nil
}

// CompressCancel asks all workers of the in-flight compression to stop at
// the next block boundary. Already written blocks keep their content.
func (c *Context) CompressCancel() error {
	if c == nil {
		return newError(ErrBadContext, "astc: nil context")
	}
	if contextState(c.state.Load()) == ctxClosed {
		return newError(ErrBadContext, "astc: context closed")
	}
	c.compress.cancel.Store(1)
	return nil
}

// DecompressReset rearms the context for the next decompression.
func (c *Context) DecompressReset() error {
	if c == nil {
		return newError(ErrBadContext, "astc: nil context")
	}
	if contextState(c.state.Load()) == ctxClosed {
		return newError(ErrBadContext, "astc: context closed")
	}
	if c.decompress.workers.Load() != 0 {
		return newError(ErrBadContext, "astc: decompress reset while decompress active")
	}
	c.decompress.needsReset.Store(0)
	c.decompress.initState.Store(0)
	c.decompress.arrived.Store(0)
	c.state.CompareAndSwap(uint32(ctxDecompressActive), uint32(ctxIdle))
	return nil
}

// beginCompress moves the context into the compressing state, or joins an
// operation another worker already started. The first worker through the
// init gate seeds the shared work queue and progress throttle.
func (c *Context) beginCompress(totalBlocks uint32, view *sliceView, swizzle Swizzle) error {
	if c.compress.needsReset.Load() != 0 {
		return newError(ErrBadContext, "astc: compress requires reset")
	}

	for {
		switch contextState(c.state.Load()) {
		case ctxIdle:
			if c.state.CompareAndSwap(uint32(ctxIdle), uint32(ctxCompressActive)) {
				// Acquired.
			} else {
				continue
			}
		case ctxCompressActive:
			// Join.
		case ctxClosed:
			return newError(ErrBadContext, "astc: context closed")
		default:
			return newError(ErrBadContext, "astc: context busy")
		}
		break
	}

	for {
		st := c.compress.initState.Load()
		if st == 2 {
			break
		}
		if st == 0 && c.compress.initState.CompareAndSwap(0, 1) {
			c.compress.totalBlocks.Store(totalBlocks)
			c.compress.nextBlock.Store(0)
			c.compress.doneBlocks.Store(0)
			c.compress.cancel.Store(0)
			c.compress.arrived.Store(0)
			c.compress.inputAlphaAverages = nil

			// Emit at most every 1%, opened up to every 4096 blocks for
			// small images.
			minDiff := float32(1.0)
			if totalBlocks != 0 {
				d := (4096.0 / float32(totalBlocks)) * 100.0
				if d > minDiff {
					minDiff = d
				}
			}
			c.compress.progressMinDiffBits.Store(math.Float32bits(minDiff))
			c.compress.progressLastValueBits.Store(math.Float32bits(0.0))

			if c.cfg.AScaleRadius != 0 && c.blockZ == 1 && swizzle.A != Swz0 && swizzle.A != Swz1 {
				c.compress.inputAlphaAverages = computeInputAlphaAverages(view, swizzle.A, int(c.cfg.AScaleRadius))
			}

			c.compress.initState.Store(2)
			break
		}
		runtime.Gosched()
	}

	// The worker count must rise before the arrival count so that a zero
	// worker count with a full arrival count can only mean every worker has
	// both joined and left.
	c.compress.workers.Add(1)
	c.compress.arrived.Add(1)
	return nil
}

// endCompress releases one worker. Teardown happens once all threadCount
// workers have joined and left the operation; a worker scheduled after its
// siblings drained the block queue still joins the same image rather than
// tripping the reset latch.
func (c *Context) endCompress() {
	if c.compress.workers.Add(-1) != 0 {
		return
	}
	if c.compress.arrived.Load() < uint32(c.threadCount) {
		return
	}

	if c.threadCount > 1 {
		c.compress.needsReset.Store(1)
	}

	c.compress.inputAlphaAverages = nil
	c.compress.initState.Store(0)
	c.state.Store(uint32(ctxIdle))
}

func (c *Context) beginDecompress(totalBlocks uint32) error {
	if c.decompress.needsReset.Load() != 0 {
		return newError(ErrBadContext, "astc: decompress requires reset")
	}

	for {
		switch contextState(c.state.Load()) {
		case ctxIdle:
			if c.state.CompareAndSwap(uint32(ctxIdle), uint32(ctxDecompressActive)) {
				// Acquired.
			} else {
				continue
			}
		case ctxDecompressActive:
			// Join.
		case ctxClosed:
			return newError(ErrBadContext, "astc: context closed")
		default:
			return newError(ErrBadContext, "astc: context busy")
		}
		break
	}

	for {
		st := c.decompress.initState.Load()
		if st == 2 {
			break
		}
		if st == 0 && c.decompress.initState.CompareAndSwap(0, 1) {
			c.decompress.totalBlocks.Store(totalBlocks)
			c.decompress.nextBlock.Store(0)
			c.decompress.doneBlocks.Store(0)
			c.decompress.arrived.Store(0)
			c.decompress.initState.Store(2)
			break
		}
		runtime.Gosched()
	}

	c.decompress.workers.Add(1)
	c.decompress.arrived.Add(1)
	return nil
}

func (c *Context) endDecompress() {
	if c.decompress.workers.Add(-1) != 0 {
		return
	}
	if c.decompress.arrived.Load() < uint32(c.threadCount) {
		return
	}

	if c.threadCount > 1 {
		c.decompress.needsReset.Store(1)
	}

	c.decompress.initState.Store(0)
	c.state.Store(uint32(ctxIdle))
}

// maybeReportProgress forwards throttled progress to the context sink,
// addressed to whatever handle the current goroutine has registered. The
// final 100% update is always delivered exactly once.
func (c *Context) maybeReportProgress(done, total uint32) {
	if c.progressSink == nil || total == 0 {
		return
	}

	if done >= total {
		c.compress.progressMu.Lock()
		last := math.Float32frombits(c.compress.progressLastValueBits.Load())
		if last != 100.0 {
			dispatchProgress(c.progressSink, 100.0)
			c.compress.progressLastValueBits.Store(math.Float32bits(100.0))
		}
		c.compress.progressMu.Unlock()
		return
	}

	minDiff := math.Float32frombits(c.compress.progressMinDiffBits.Load())
	last := math.Float32frombits(c.compress.progressLastValueBits.Load())
	thisValue := (float32(done) / float32(total)) * 100.0

	// Lockless pre-test; recheck under the mutex because another worker
	// may have reported first.
	if (thisValue - last) <= minDiff {
		return
	}

	c.compress.progressMu.Lock()
	last = math.Float32frombits(c.compress.progressLastValueBits.Load())
	if (thisValue - last) > minDiff {
		dispatchProgress(c.progressSink, thisValue)
		c.compress.progressLastValueBits.Store(math.Float32bits(thisValue))
	}
	c.compress.progressMu.Unlock()
}
