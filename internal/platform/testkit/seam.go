package testkit

import (
	"sync"
	"testing"
)

// seams guards the package-level driver hooks (pg newPool, ch openConn) that
// store tests replace
var seams sync.Mutex

// Swap points *target at replacement until the test ends and returns the
// previous value, so a fake can still delegate to the real driver hook
func Swap[T any](t *testing.T, target *T, replacement T) T {
	t.Helper()
	prev := *target
	*target = replacement
	t.Cleanup(func() { *target = prev })
	return prev
}

// Serial holds the seam lock for the rest of the test. Call it before Swap
// in any test that may run in parallel with another swapping the same hook
func Serial(t *testing.T) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}
