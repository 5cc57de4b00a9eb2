package testkit

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var (
	openDriver  = func(dsn string) (string, error) { return "conn:" + dsn, nil }
	dialTimeout = 5 * time.Second
)

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("fake driver", func(t *testing.T) {
		prev := Swap(t, &openDriver, func(string) (string, error) { return "", errors.New("no server") })
		if _, err := openDriver("pg://x"); err == nil {
			t.Fatalf("fake not installed")
		}
		if got, _ := prev("pg://x"); got != "conn:pg://x" {
			t.Fatalf("previous hook = %q", got)
		}
	})
	if got, err := openDriver("pg://x"); err != nil || got != "conn:pg://x" {
		t.Fatalf("hook not restored: %q %v", got, err)
	}
}

func TestSwap_Value(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		if prev := Swap(t, &dialTimeout, time.Millisecond); prev != 5*time.Second {
			t.Fatalf("prev=%v", prev)
		}
		if dialTimeout != time.Millisecond {
			t.Fatalf("dialTimeout=%v", dialTimeout)
		}
	})
	if dialTimeout != 5*time.Second {
		t.Fatalf("dialTimeout not restored: %v", dialTimeout)
	}
}

func TestSerial_NoOverlap(t *testing.T) {
	var (
		mu               sync.Mutex
		active, overlaps int
	)
	enter := func() {
		mu.Lock()
		defer mu.Unlock()
		active++
		if active > 1 {
			overlaps++
		}
	}
	leave := func() {
		mu.Lock()
		defer mu.Unlock()
		active--
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"pg", "ch", "rds"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				enter()
				time.Sleep(20 * time.Millisecond)
				leave()
			})
		}
	})
	if overlaps != 0 {
		t.Fatalf("serial tests overlapped %d times", overlaps)
	}
}
