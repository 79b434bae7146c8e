package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/spinsim/internal/mag"
)

// Spectrum returns the magnitude spectrum of the energy history (mean
// removed), one entry per non-negative frequency bin. Useful for spotting
// oscillatory instabilities in long relaxation runs.
func Spectrum(history []mag.EnergySample) []float64 {
	if len(history) < 2 {
		return nil
	}

	values := make([]float64, len(history))
	mean := 0.0
	for i, s := range history {
		values[i] = s.Energy
		mean += s.Energy
	}
	mean /= float64(len(values))
	for i := range values {
		values[i] -= mean
	}

	coeffs := fft.FFTReal(values)
	half := len(coeffs)/2 + 1
	mags := make([]float64, half)
	for i := 0; i < half; i++ {
		mags[i] = cmplx.Abs(coeffs[i])
	}
	return mags
}

// DominantPeriod returns the period, in steps, of the strongest non-DC
// spectral component, or 0 when the history is too short or flat.
func DominantPeriod(history []mag.EnergySample) float64 {
	mags := Spectrum(history)
	if len(mags) < 2 {
		return 0
	}

	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}
	if mags[best] == 0 || math.IsNaN(mags[best]) {
		return 0
	}
	return float64(len(history)) / float64(best)
}
