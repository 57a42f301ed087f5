// Package analysis characterises recorded cloth runs.
//
// It works on plain per-step series such as the bottom-row sag of a run:
//
//   - [PowerSpectrum]: one-sided power of a mean-removed series
//   - [DominantFrequency]: strongest sway frequency in Hz
//   - [SettleStep]: first step after which a series stays within a band
//   - [Summarize]: mean, spread and range
//
// # Sway
//
// A released cloth swings before it settles. The dominant frequency of its
// sag series is the sway rate:
//
//	hz := analysis.DominantFrequency(sag, dt)
package analysis
