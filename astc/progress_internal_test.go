package astc

import "testing"

func TestProgressHandle_NestedScopesRestore(t *testing.T) {
	var handles []uintptr
	sink := func(handle uintptr, p float32) {
		handles = append(handles, handle)
	}

	restoreOuter := setProgressHandle(7)
	dispatchProgress(sink, 10)

	// An inner registration shadows the outer one; its restore must bring
	// the outer handle back.
	restoreInner := setProgressHandle(9)
	dispatchProgress(sink, 50)
	restoreInner()

	dispatchProgress(sink, 90)
	restoreOuter()

	// No registration remains on this goroutine, so the event is dropped.
	dispatchProgress(sink, 100)

	want := []uintptr{7, 9, 7}
	if len(handles) != len(want) {
		t.Fatalf("handles = %v, want %v", handles, want)
	}
	for i := range want {
		if handles[i] != want[i] {
			t.Fatalf("handles[%d] = %d, want %d", i, handles[i], want[i])
		}
	}
}
