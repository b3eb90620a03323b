package boundary_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	boundary "github.com/palisade/boundary.go"
)

// hookCounters builds Hooks that count every notification.
type hookCounters struct {
	noPanic    int64
	suppressed int64
	propagated int64
}

func (h *hookCounters) hooks() boundary.Hooks {
	return boundary.Hooks{
		OnNoPanic: func() {
			atomic.AddInt64(&h.noPanic, 1)
		},
		OnSuppress: func(*boundary.Capture) {
			atomic.AddInt64(&h.suppressed, 1)
		},
		OnPropagate: func(*boundary.Capture) {
			atomic.AddInt64(&h.propagated, 1)
		},
	}
}

func TestCleanCompletion(t *testing.T) {
	var counters hookCounters
	spy := &spyLogger{}
	p, err := boundary.New(boundary.Config{
		Loggers: []boundary.Logger{spy},
		Hooks:   counters.hooks(),
	})
	if err != nil {
		t.Fatal(err)
	}

	result := 0
	p.Do(func() {
		result = 42
	})

	if result != 42 {
		t.Errorf("Expected the region body to run unaffected, result = %d", result)
	}
	if counters.noPanic != 1 {
		t.Errorf("Expected OnNoPanic to fire exactly once, got %d", counters.noPanic)
	}
	if counters.suppressed != 0 || counters.propagated != 0 {
		t.Errorf(
			"Expected no other hooks on clean completion, got suppressed=%d propagated=%d",
			counters.suppressed,
			counters.propagated,
		)
	}
	if len(spy.captures) != 0 {
		t.Errorf("Expected no logging on clean completion, got %d captures", len(spy.captures))
	}
}

func TestSuppression(t *testing.T) {
	var counters hookCounters
	spy := &spyLogger{}
	p, err := boundary.New(boundary.Config{
		Loggers: []boundary.Logger{spy},
		Hooks:   counters.hooks(),
	})
	if err != nil {
		t.Fatal(err)
	}

	reached := false
	p.Do(func() {
		panic("boom")
	})
	reached = true

	if !reached {
		t.Fatal("Expected Do to return normally after suppression")
	}
	if counters.suppressed != 1 {
		t.Errorf("Expected OnSuppress to fire exactly once, got %d", counters.suppressed)
	}
	if counters.noPanic != 0 || counters.propagated != 0 {
		t.Errorf(
			"Expected only OnSuppress, got noPanic=%d propagated=%d",
			counters.noPanic,
			counters.propagated,
		)
	}
	if len(spy.captures) != 1 {
		t.Fatalf("Expected exactly one capture, got %d", len(spy.captures))
	}

	c := spy.captures[0]
	if c.Value != "boom" {
		t.Errorf("Expected capture value %q, got %v", "boom", c.Value)
	}
	var pe *boundary.PanicError
	if !errors.As(c.Err, &pe) || pe.Value != "boom" {
		t.Errorf("Expected Err to be a *PanicError wrapping the value, got %v", c.Err)
	}
	if !strings.Contains(string(c.Stack), "guard_test.go") {
		t.Errorf("Expected the capture stack to point at the raising site:\n%s", c.Stack)
	}
}

func TestPropagationPreservesIdentity(t *testing.T) {
	original := &typedError{msg: "do not touch"}
	p, err := boundary.New(boundary.Config{
		DontCatch: []interface{}{(*typedError)(nil)},
		Loggers:   []boundary.Logger{&spyLogger{}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var recovered interface{}
	func() {
		defer func() {
			recovered = recover()
		}()
		p.Do(func() {
			panic(original)
		})
	}()

	if recovered != original {
		t.Errorf("Expected the exact original panic value, got %#v", recovered)
	}
}

func TestCaptureErrPassthrough(t *testing.T) {
	original := errors.New("already an error")
	spy := &spyLogger{}
	p, err := boundary.New(boundary.Config{
		Loggers: []boundary.Logger{spy},
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Do(func() {
		panic(original)
	})

	if len(spy.captures) != 1 {
		t.Fatalf("Expected one capture, got %d", len(spy.captures))
	}
	if spy.captures[0].Err != original {
		t.Errorf("Expected Err to be the panic value itself, got %v", spy.captures[0].Err)
	}
}

func TestSequentialReuse(t *testing.T) {
	var counters hookCounters
	spy := &spyLogger{}
	p, err := boundary.New(boundary.Config{
		Loggers: []boundary.Logger{spy},
		Hooks:   counters.hooks(),
	})
	if err != nil {
		t.Fatal(err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		i := i
		p.Do(func() {
			if i%2 == 0 {
				panic(fmt.Sprintf("boom %d", i))
			}
		})
	}

	if want := int64(3); counters.suppressed != want {
		t.Errorf("Expected %d suppressions, got %d", want, counters.suppressed)
	}
	if want := int64(2); counters.noPanic != want {
		t.Errorf("Expected %d clean completions, got %d", want, counters.noPanic)
	}
	if len(spy.captures) != 3 {
		t.Fatalf("Expected 3 captures, got %d", len(spy.captures))
	}
	// Each activation carries its own capture.
	for i, want := range []string{"boom 0", "boom 2", "boom 4"} {
		if got := spy.captures[i].Value; got != want {
			t.Errorf("capture %d: expected %q, got %v", i, want, got)
		}
	}
}

func TestNestedBoundaries(t *testing.T) {
	t.Run("inner-suppresses", func(t *testing.T) {
		var outer hookCounters
		outerPolicy, err := boundary.New(boundary.Config{
			Loggers: []boundary.Logger{&spyLogger{}},
			Hooks:   outer.hooks(),
		})
		if err != nil {
			t.Fatal(err)
		}
		innerPolicy, err := boundary.New(boundary.Config{
			Loggers: []boundary.Logger{&spyLogger{}},
		})
		if err != nil {
			t.Fatal(err)
		}

		outerPolicy.Do(func() {
			innerPolicy.Do(func() {
				panic("boom")
			})
		})

		if outer.noPanic != 1 || outer.suppressed != 0 {
			t.Errorf(
				"Expected the outer boundary to observe a clean region, got noPanic=%d suppressed=%d",
				outer.noPanic,
				outer.suppressed,
			)
		}
	})

	t.Run("inner-propagates", func(t *testing.T) {
		original := &typedError{msg: "escapes inner"}

		outerSpy := &spyLogger{}
		var outer hookCounters
		outerPolicy, err := boundary.New(boundary.Config{
			Loggers: []boundary.Logger{outerSpy},
			Hooks:   outer.hooks(),
		})
		if err != nil {
			t.Fatal(err)
		}
		innerPolicy, err := boundary.New(boundary.Config{
			DontCatch: []interface{}{(*typedError)(nil)},
			Loggers:   []boundary.Logger{&spyLogger{}},
		})
		if err != nil {
			t.Fatal(err)
		}

		outerPolicy.Do(func() {
			innerPolicy.Do(func() {
				panic(original)
			})
		})

		if outer.suppressed != 1 {
			t.Errorf("Expected the outer boundary to resolve the escaped panic, suppressed=%d", outer.suppressed)
		}
		if len(outerSpy.captures) != 1 || outerSpy.captures[0].Value != original {
			t.Errorf("Expected the outer boundary to capture the same panic value, got %+v", outerSpy.captures)
		}
	})
}

func TestConcurrentReuse(t *testing.T) {
	var counters hookCounters
	p, err := boundary.New(boundary.Config{
		Loggers: []boundary.Logger{boundary.LoggerFunc(func(*boundary.Capture) {})},
		Hooks:   counters.hooks(),
	})
	if err != nil {
		t.Fatal(err)
	}

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			p.Do(func() {
				if i%2 == 0 {
					panic(i)
				}
			})
		}()
	}
	wg.Wait()

	if counters.suppressed != n/2 || counters.noPanic != n/2 {
		t.Errorf(
			"Expected %d suppressions and %d clean completions, got %d and %d",
			n/2, n/2,
			counters.suppressed,
			counters.noPanic,
		)
	}
}
