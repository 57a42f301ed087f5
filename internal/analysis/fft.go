package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k|² for k in [0, n/2] of the series with its mean
// removed. Any length is accepted.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}
	mean := stat.Mean(series, nil)
	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(spectrum[k])
		ps[k] = a * a
	}
	return ps
}

// DominantFrequency is the frequency in Hz of the strongest non-DC bin of a
// series sampled every dt seconds. It is 0 for a flat or too short series.
func DominantFrequency(series []float64, dt float64) float64 {
	ps := PowerSpectrum(series)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] == 0 {
		return 0
	}
	return float64(k) / (float64(len(series)) * dt)
}

// SettleStep returns the first index from which every later sample lies
// within tol of the final sample, or -1 for an empty series.
func SettleStep(series []float64, tol float64) int {
	if len(series) == 0 {
		return -1
	}
	final := series[len(series)-1]
	i := len(series) - 1
	for i > 0 && math.Abs(series[i-1]-final) <= tol {
		i--
	}
	return i
}

type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(series, nil),
		Min:  floats.Min(series),
		Max:  floats.Max(series),
	}
	if len(series) > 1 {
		s.StdDev = stat.StdDev(series, nil)
	}
	return s
}
