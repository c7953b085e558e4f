package astc

import (
	"sync"

	"github.com/petermattis/goid"
)

// The codec raises progress as a bare 0..100 float with no caller-identifying
// payload, yet many concurrent compress calls may share one context. Routing
// works by keying a handle slot on the identity of the goroutine executing
// the call: the codec only ever reports progress from the goroutine running
// block work for that call, so reading the slot on the reporting goroutine
// recovers the right handle.
//
// Slots are scoped, not ambient: setProgressHandle stores the handle and
// returns a restore closure that reinstates the previous slot value, so
// nested calls on one goroutine unwind correctly on every exit path.

var progressSlots struct {
	mu sync.RWMutex
	m  map[int64]uintptr
}

// setProgressHandle registers handle for the current goroutine and returns a
// function restoring the previous registration. The returned function must
// run on the same goroutine, typically via defer.
func setProgressHandle(handle uintptr) (restore func()) {
	gid := goid.Get()

	progressSlots.mu.Lock()
	if progressSlots.m == nil {
		progressSlots.m = make(map[int64]uintptr)
	}
	prev, had := progressSlots.m[gid]
	progressSlots.m[gid] = handle
	progressSlots.mu.Unlock()

	return func() {
		progressSlots.mu.Lock()
		if had {
			progressSlots.m[gid] = prev
		} else {
			delete(progressSlots.m, gid)
		}
		progressSlots.mu.Unlock()
	}
}

// currentProgressHandle returns the handle registered on the calling
// goroutine, or 0 and false when none is registered.
func currentProgressHandle() (uintptr, bool) {
	progressSlots.mu.RLock()
	h, ok := progressSlots.m[goid.Get()]
	progressSlots.mu.RUnlock()
	return h, ok
}

// dispatchProgress delivers one progress event to sink, tagged with the
// handle registered on the calling goroutine. Events on goroutines with no
// registration are dropped.
func dispatchProgress(sink ProgressFunc, progress float32) {
	if sink == nil {
		return
	}
	h, ok := currentProgressHandle()
	if !ok {
		return
	}
	sink(h, progress)
}
