package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/mag"
)

func backgroundMz(n int) *mag.ScalarField {
	f := mag.NewScalarField(n)
	for i := range f.Data {
		f.Data[i] = 1
	}
	return f
}

func punchCore(f *mag.ScalarField, x0, y0, side int) {
	for y := y0; y < y0+side; y++ {
		for x := x0; x < x0+side; x++ {
			f.Set(x, y, 0)
		}
	}
}

func TestDetectSkyrmionsNone(t *testing.T) {
	stats := DetectSkyrmions(backgroundMz(16), 0.3)
	require.Zero(t, stats.Count)
	require.Empty(t, stats.Centers)
	require.Zero(t, stats.MeanSize)
}

func TestDetectSkyrmionsSingleCore(t *testing.T) {
	mz := backgroundMz(16)
	punchCore(mz, 5, 7, 3)

	stats := DetectSkyrmions(mz, 0.3)
	require.Equal(t, 1, stats.Count)
	require.InDelta(t, 6.0, stats.Centers[0][0], 1e-12)
	require.InDelta(t, 8.0, stats.Centers[0][1], 1e-12)
	require.InDelta(t, 3.0, stats.Sizes[0], 1e-12) // sqrt(9)
	require.Equal(t, stats.Sizes[0], stats.MeanSize)
	require.Zero(t, stats.StdSize)
}

func TestDetectSkyrmionsSeparateCores(t *testing.T) {
	mz := backgroundMz(32)
	punchCore(mz, 2, 2, 3)
	punchCore(mz, 20, 20, 5)

	stats := DetectSkyrmions(mz, 0.3)
	require.Equal(t, 2, stats.Count)
	require.Greater(t, stats.StdSize, 0.0)
}

func TestDetectSkyrmionsDoesNotWrap(t *testing.T) {
	// One band touching the left edge, one touching the right: the labels
	// stay separate because components never merge across the boundary.
	mz := backgroundMz(16)
	punchCore(mz, 0, 6, 2)
	punchCore(mz, 14, 6, 2)

	stats := DetectSkyrmions(mz, 0.3)
	require.Equal(t, 2, stats.Count)
}

// skyrmionField builds a Néel-like texture: m_z = −1 at the center winding
// up to +1 at radius R, uniform +z outside.
func skyrmionField(n int, r float64) *mag.VectorField {
	m := mag.NewVectorField(n)
	cx, cy := float64(n)/2, float64(n)/2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			rho := math.Sqrt(dx*dx + dy*dy)
			if rho >= r {
				m.Set(x, y, 0, 0, 1)
				continue
			}
			theta := math.Pi * (1 - rho/r)
			phi := math.Atan2(dy, dx)
			m.Set(x, y,
				math.Sin(theta)*math.Cos(phi),
				math.Sin(theta)*math.Sin(phi),
				math.Cos(theta))
		}
	}
	return m
}

func TestTotalChargeUniformState(t *testing.T) {
	m := mag.NewVectorField(16)
	for i := 0; i < 256; i++ {
		m.Data[3*i+2] = 1
	}
	require.Zero(t, TotalCharge(m))
}

func TestTotalChargeSingleSkyrmion(t *testing.T) {
	m := skyrmionField(32, 10)
	q := TotalCharge(m)
	require.InDelta(t, 1.0, math.Abs(q), 0.3)
}

func TestTopologicalChargeDensityShape(t *testing.T) {
	q := TopologicalChargeDensity(skyrmionField(16, 5))
	require.Equal(t, 16, q.N)
	require.Len(t, q.Data, 256)
}

func TestCorrelation(t *testing.T) {
	a := mag.NewScalarField(8)
	rng := rand.New(rand.NewSource(2))
	for i := range a.Data {
		a.Data[i] = rng.NormFloat64()
	}

	require.InDelta(t, 1.0, Correlation(a, a), 1e-12)

	neg := a.Clone()
	for i := range neg.Data {
		neg.Data[i] = -neg.Data[i]
	}
	require.InDelta(t, -1.0, Correlation(a, neg), 1e-12)

	// Degenerate inputs.
	flat := mag.NewScalarField(8)
	require.Zero(t, Correlation(a, flat))
	require.Zero(t, Correlation(a, mag.NewScalarField(4)))
}

func TestTextureEntropyOrdering(t *testing.T) {
	uniform := mag.NewVectorField(16)
	for i := 0; i < 256; i++ {
		uniform.Data[3*i+2] = 1
	}

	disordered := mag.NewVectorField(16)
	rng := rand.New(rand.NewSource(9))
	for i := range disordered.Data {
		disordered.Data[i] = rng.NormFloat64()
	}
	disordered.NormalizeAll()

	require.Less(t, TextureEntropy(uniform), TextureEntropy(disordered))
}

func TestSpectrumAndDominantPeriod(t *testing.T) {
	history := make([]mag.EnergySample, 200)
	for i := range history {
		history[i] = mag.EnergySample{
			Step:   i,
			Energy: 3 + math.Sin(2*math.Pi*float64(i)/20),
		}
	}

	mags := Spectrum(history)
	require.Len(t, mags, 101)
	require.InDelta(t, 20.0, DominantPeriod(history), 1e-9)
}

func TestDominantPeriodDegenerate(t *testing.T) {
	require.Zero(t, DominantPeriod(nil))
	require.Zero(t, DominantPeriod([]mag.EnergySample{{Step: 0, Energy: 1}}))

	flat := make([]mag.EnergySample, 64)
	for i := range flat {
		flat[i] = mag.EnergySample{Step: i, Energy: 2.5}
	}
	require.Zero(t, DominantPeriod(flat))
}
