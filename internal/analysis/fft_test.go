package analysis

import (
	"math"
	"testing"
)

func sine(n int, hz, dt float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3 + math.Sin(2*math.Pi*hz*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	dt := 1.0 / 64
	tests := []struct {
		hz float64
		n  int
	}{
		{2, 256},
		{5, 256},
		{4, 200},
	}
	for _, tt := range tests {
		got := DominantFrequency(sine(tt.n, tt.hz, dt), dt)
		res := 1 / (float64(tt.n) * dt)
		if math.Abs(got-tt.hz) > res {
			t.Errorf("n=%d: expected %.2f Hz, got %.2f", tt.n, tt.hz, got)
		}
	}
}

func TestDominantFrequency_Flat(t *testing.T) {
	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 7
	}
	if f := DominantFrequency(flat, 0.01); f != 0 {
		t.Errorf("expected 0 for flat series, got %f", f)
	}
	if f := DominantFrequency([]float64{1}, 0.01); f != 0 {
		t.Errorf("expected 0 for short series, got %f", f)
	}
}

func TestPowerSpectrum_RemovesMean(t *testing.T) {
	ps := PowerSpectrum(sine(128, 4, 1.0/128))
	if len(ps) != 65 {
		t.Fatalf("expected 65 bins, got %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("expected no DC power, got %g", ps[0])
	}
}

func TestSettleStep(t *testing.T) {
	series := []float64{0, 5, -3, 2, 1.05, 0.98, 1.01, 1}
	if got := SettleStep(series, 0.1); got != 4 {
		t.Errorf("expected settle at 4, got %d", got)
	}
	if got := SettleStep(nil, 0.1); got != -1 {
		t.Errorf("expected -1 for empty series, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Min != 1 || s.Max != 4 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(5.0/3)) > 1e-12 {
		t.Errorf("expected sample std dev, got %f", s.StdDev)
	}
}
