package reactive

import "testing"

func TestSignalGetSet(t *testing.T) {
	s := NewSimpleSignal(1)
	if s.Get() != 1 {
		t.Fatalf("expected 1, got %d", s.Get())
	}
	s.Set(2)
	if s.Get() != 2 {
		t.Fatalf("expected 2, got %d", s.Get())
	}
}

func TestDerivedRecomputesOnDependencyChange(t *testing.T) {
	a := NewSimpleSignal(1)
	b := NewSimpleSignal(2)
	sum := NewSimpleDerived(func() int { return a.Get() + b.Get() })

	if got := sum.Get(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	a.Set(10)
	if got := sum.Get(); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestDerivedStopsPropagationWhenUnchanged(t *testing.T) {
	a := NewSimpleSignal(5)
	runs := 0
	isPositive := NewSimpleDerived(func() bool { return a.Get() > 0 })
	NewEffect(func() func() {
		_ = isPositive.Get()
		runs++
		return nil
	})
	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}
	a.Set(6) // still positive: isPositive's value doesn't change
	if runs != 1 {
		t.Fatalf("expected propagation to stop, got %d runs", runs)
	}
	a.Set(-1) // flips to false: should propagate
	if runs != 2 {
		t.Fatalf("expected 2 runs after flip, got %d", runs)
	}
}

func TestEffectReRunsAndCleansUp(t *testing.T) {
	s := NewSimpleSignal(0)
	var cleanups, runs int
	NewEffect(func() func() {
		_ = s.Get()
		runs++
		return func() { cleanups++ }
	})
	if runs != 1 || cleanups != 0 {
		t.Fatalf("unexpected initial state: runs=%d cleanups=%d", runs, cleanups)
	}
	s.Set(1)
	if runs != 2 || cleanups != 1 {
		t.Fatalf("expected rerun with prior cleanup: runs=%d cleanups=%d", runs, cleanups)
	}
}

func TestBatchCoalescesEffectRuns(t *testing.T) {
	a := NewSimpleSignal(1)
	b := NewSimpleSignal(2)
	runs := 0
	NewEffect(func() func() {
		_ = a.Get() + b.Get()
		runs++
		return nil
	})
	runs = 0 // reset after initial run
	Batch(func() {
		a.Set(10)
		b.Set(20)
	})
	if runs != 1 {
		t.Fatalf("expected exactly 1 run per batch, got %d", runs)
	}
}

func TestUntrackedReadDoesNotRegisterDependency(t *testing.T) {
	a := NewSimpleSignal(1)
	runs := 0
	NewEffect(func() func() {
		Untracked(func() int { return a.Get() })
		runs++
		return nil
	})
	runs = 0
	a.Set(2)
	if runs != 0 {
		t.Fatalf("expected untracked read to avoid dependency, got %d runs", runs)
	}
}

func TestScopeDisposalRunsCleanupsInReverseAndChildrenFirst(t *testing.T) {
	var order []string
	root := NewScope()
	child := root.Child()
	child.OnCleanup(func() { order = append(order, "child") })
	root.OnCleanup(func() { order = append(order, "root-1") })
	root.OnCleanup(func() { order = append(order, "root-2") })

	root.Dispose()

	if len(order) != 3 || order[0] != "child" || order[1] != "root-2" || order[2] != "root-1" {
		t.Fatalf("unexpected dispose order: %v", order)
	}
	if !root.Disposed() {
		t.Fatalf("expected root scope disposed")
	}
}

func TestEffectPanicIsCaughtAndDoesNotAbortScheduler(t *testing.T) {
	s := NewSimpleSignal(0)
	runs := 0
	NewEffect(func() func() {
		v := s.Get()
		runs++
		if v == 1 {
			panic("boom")
		}
		return nil
	})
	s.Set(1) // triggers the panic path; must not crash the test
	s.Set(2) // subsequent invalidations must still run the effect
	if runs != 3 {
		t.Fatalf("expected 3 runs (initial + panic + recovery), got %d", runs)
	}
}
