package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", Vec2{1.5, -2}, true},
		{"with NaN", Vec2{math.NaN(), 0}, false},
		{"with +Inf", Vec2{0, math.Inf(1)}, false},
		{"with -Inf", Vec2{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec2_Arithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(4, 6)

	if got := a.Add(b); got != V(5, 8) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != V(3, 4) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != V(2, 4) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot = %v, want 16", got)
	}
	if got := a.Cross(b); got != -2 {
		t.Errorf("Cross = %v, want -2", got)
	}
	if got := b.Sub(a).Len(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.Dist(b); math.Abs(got-5) > 1e-12 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestIndexError(t *testing.T) {
	err := error(&IndexError{Kind: "particle", Index: 7, Len: 4})
	if !errors.Is(err, ErrInvalidIndex) {
		t.Error("IndexError should unwrap to ErrInvalidIndex")
	}
	want := "clothsim: index out of range: particle index 7 not in [0, 4)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrUnstable}
	if !errors.Is(err, ErrUnstable) {
		t.Error("SimulationError should unwrap")
	}
	expected := "step 150 (t=1.5000): clothsim: simulation unstable (state diverged)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		seen := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}
