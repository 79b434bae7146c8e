package analysis

import (
	"math"

	"github.com/san-kum/spinsim/internal/mag"
)

// Correlation returns the Pearson correlation between two fields of equal
// size; a high value between the input manifold and the final m_z indicates
// successful data encoding. Returns 0 for degenerate (constant) inputs.
func Correlation(a, b *mag.ScalarField) float64 {
	if a.N != b.N {
		return 0
	}
	meanA, meanB := a.Mean(), b.Mean()

	var cov, varA, varB float64
	for i := range a.Data {
		da := a.Data[i] - meanA
		db := b.Data[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// TextureEntropy computes the Shannon entropy of the spin-orientation
// distribution over polar and azimuthal histograms. Lower values indicate
// a more ordered texture.
func TextureEntropy(m *mag.VectorField) float64 {
	const bins = 16
	histTheta := make([]int, bins)
	histPhi := make([]int, bins)

	sites := m.N * m.N
	for i := 0; i < sites; i++ {
		j := 3 * i
		mx, my, mz := m.Data[j], m.Data[j+1], m.Data[j+2]
		theta := math.Atan2(math.Sqrt(mx*mx+my*my), mz)
		phi := math.Atan2(my, mx)
		histTheta[binIndex(theta, bins)]++
		histPhi[binIndex(phi, bins)]++
	}

	return shannon(histTheta, sites) + shannon(histPhi, sites)
}

// binIndex maps an angle in [−π, π] onto [0, bins).
func binIndex(angle float64, bins int) int {
	i := int((angle + math.Pi) / (2 * math.Pi) * float64(bins))
	if i < 0 {
		i = 0
	}
	if i >= bins {
		i = bins - 1
	}
	return i
}

func shannon(hist []int, total int) float64 {
	e := 0.0
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}
