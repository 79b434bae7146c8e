package llg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/mag"
)

func testParams(n int) mag.Params {
	p := mag.Default()
	p.GridSize = n
	return p
}

func constantK(n int, k0 float64) *mag.ScalarField {
	k := mag.NewScalarField(n)
	for i := range k.Data {
		k.Data[i] = k0
	}
	return k
}

func noisyUnitM(n int, seed int64) *mag.VectorField {
	rng := rand.New(rand.NewSource(seed))
	m := mag.NewVectorField(n)
	for i := 0; i < n*n; i++ {
		j := 3 * i
		m.Data[j] = rng.NormFloat64() * 0.2
		m.Data[j+1] = rng.NormFloat64() * 0.2
		m.Data[j+2] = 0.9 + rng.NormFloat64()*0.2
	}
	m.NormalizeAll()
	return m
}

// A uniform easy-axis state with no chiral or Zeeman field is aligned with
// H_eff, so both torque terms vanish and the state must not move at all.
func TestSteppersLeaveAlignedStateFixed(t *testing.T) {
	p := testParams(8)
	p.D = 0
	p.Bz = 0
	k := constantK(8, p.K0)

	for name, s := range map[string]Stepper{"euler": NewEuler(p), "heun": NewHeun(p)} {
		t.Run(name, func(t *testing.T) {
			m := mag.NewVectorField(8)
			for i := 0; i < 64; i++ {
				m.Data[3*i+2] = 1
			}
			want := m.Clone()
			for i := 0; i < 10; i++ {
				require.NoError(t, s.Step(m, k, p.Dt))
			}
			require.Equal(t, want.Data, m.Data)
		})
	}
}

func TestSteppersPreserveUnitNorm(t *testing.T) {
	p := testParams(16)
	k := constantK(16, p.K0)

	for name, s := range map[string]Stepper{"euler": NewEuler(p), "heun": NewHeun(p)} {
		t.Run(name, func(t *testing.T) {
			m := noisyUnitM(16, 3)
			for i := 0; i < 100; i++ {
				require.NoError(t, s.Step(m, k, p.Dt))
			}
			require.Less(t, m.MaxNormDeviation(), 1e-9)
			require.True(t, m.IsFinite())
		})
	}
}

// With damping on and only a Zeeman field, a tilted uniform state must
// relax toward +z.
func TestDampedRelaxationTowardField(t *testing.T) {
	p := testParams(8)
	p.D = 0
	p.K0 = 0
	p.Bz = 0.1
	p.Alpha = 0.5
	p.Dt = 1e-11
	k := constantK(8, 0)

	m := mag.NewVectorField(8)
	for i := 0; i < 64; i++ {
		j := 3 * i
		m.Data[j] = 1 / 1.4142135623730951
		m.Data[j+2] = 1 / 1.4142135623730951
	}
	start := m.Component(2).Mean()

	s := NewEuler(p)
	for i := 0; i < 5000; i++ {
		require.NoError(t, s.Step(m, k, p.Dt))
	}

	end := m.Component(2).Mean()
	require.Greater(t, end, start)
	require.Less(t, m.MaxNormDeviation(), 1e-9)
}

// Without damping the z-component under a pure Zeeman field is a constant
// of motion; the spin precesses about z.
func TestUndampedPrecessionKeepsMz(t *testing.T) {
	p := testParams(4)
	p.D = 0
	p.K0 = 0
	p.Bz = 0.1
	p.Alpha = 0
	p.Dt = 1e-12
	k := constantK(4, 0)

	m := mag.NewVectorField(4)
	for i := 0; i < 16; i++ {
		j := 3 * i
		m.Data[j] = 0.6
		m.Data[j+2] = 0.8
	}

	s := NewHeun(p)
	for i := 0; i < 1000; i++ {
		require.NoError(t, s.Step(m, k, p.Dt))
	}

	require.InDelta(t, 0.8, m.Component(2).Mean(), 1e-6)

	// Phase check: m_x(t) = 0.6·cos(ωt) with ω = γ·Bz/μ₀.
	omega := p.Gamma * p.Bz / mag.Mu0
	wantMx := 0.6 * math.Cos(omega*1000*p.Dt)
	require.InDelta(t, wantMx, m.Component(0).Mean(), 1e-3)
}

func TestStepShapeMismatch(t *testing.T) {
	p := testParams(8)
	s := NewEuler(p)
	err := s.Step(mag.NewVectorField(4), constantK(8, p.K0), p.Dt)
	require.ErrorIs(t, err, mag.ErrShape)
}
