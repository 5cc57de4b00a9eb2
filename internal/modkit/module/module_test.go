package module

import (
	"slices"
	"sync"
	"testing"

	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/testkit"
)

type Runner interface{ Run() int }

type runnerImpl struct{ v int }

func (r *runnerImpl) Run() int { return r.v }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string { return m.name }
func (m fakeModule) Ports() any   { return m.ports }

func TestPortsOf(t *testing.T) {
	type bundle struct {
		Runner Runner
		Count  int
	}
	type hidden struct {
		runner Runner
	}
	r := &runnerImpl{v: 7}

	cases := []struct {
		name  string
		ports any
		want  int
		ok    bool
	}{
		{"nil ports", nil, 0, false},
		{"direct", Runner(r), 7, true},
		{"struct field", bundle{Runner: r, Count: 1}, 7, true},
		{"pointer to struct", &bundle{Runner: r}, 7, true},
		{"nil field", bundle{}, 0, false},
		{"unexported field", hidden{runner: r}, 0, false},
		{"scalar", 42, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[Runner](fakeModule{name: tc.name, ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok=%v want %v", ok, tc.ok)
			}
			if ok && got.Run() != tc.want {
				t.Fatalf("Run()=%d want %d", got.Run(), tc.want)
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	r := &runnerImpl{v: 3}
	if got := MustPortsOf[Runner](fakeModule{name: "ok", ports: r}); got.Run() != 3 {
		t.Fatalf("Run()=%d", got.Run())
	}

	defer func() {
		v := recover()
		if v == nil {
			t.Fatal("expected panic")
		}
		testkit.MustContain(t, v.(string), "parking")
	}()
	MustPortsOf[Runner](fakeModule{name: "parking"})
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("flights", 1)
	Register("exchange", "x")
	Register("flights", 2)

	if v, ok := PortsAs[int]("flights"); !ok || v != 2 {
		t.Fatalf("flights=%v ok=%v", v, ok)
	}
	if _, ok := PortsAs[int]("exchange"); ok {
		t.Fatal("type mismatch must report false")
	}
	if _, ok := PortsAs[int]("missing"); ok {
		t.Fatal("missing name must report false")
	}
	if got := Names(); !slices.Equal(got, []string{"exchange", "flights"}) {
		t.Fatalf("Names()=%v", got)
	}

	Reset()
	if len(Names()) != 0 {
		t.Fatal("Reset left entries behind")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Register("parking", i)
		}()
		go func() {
			defer wg.Done()
			_, _ = PortsAs[int]("parking")
			_ = Names()
		}()
	}
	wg.Wait()
	if _, ok := PortsAs[int]("parking"); !ok {
		t.Fatal("parking not registered")
	}
}
