package mag

import (
	"fmt"
	"math/rand"
)

// EnergySample is one entry of the energy history.
type EnergySample struct {
	Step   int
	Energy float64 // J/m²
}

// State is the mutable simulation state: the magnetization field, the
// anisotropy map derived once at construction, and the append-only energy
// history. Exactly one integration loop owns and mutates it.
type State struct {
	p       Params
	m       *VectorField
	k       *ScalarField
	history []EnergySample
}

// InitOptions controls construction of the initial magnetization.
type InitOptions struct {
	// Bias is the mean direction before normalization.
	Bias [3]float64
	// Noise is the per-component Gaussian perturbation amplitude; zero
	// gives an exactly uniform field.
	Noise float64
	// Rng supplies the noise. Injected for reproducibility; when nil a
	// fixed-seed generator is used.
	Rng *rand.Rand
	// Manifold optionally modulates the anisotropy map. Values are
	// rescaled to [−1, 1] before use.
	Manifold *ScalarField
}

// DefaultInit matches the historical initialization: a positive
// out-of-plane bias with strong perturbation so the chiral term can
// nucleate reversed cores.
func DefaultInit() InitOptions {
	return InitOptions{Bias: [3]float64{0, 0, 0.9}, Noise: 0.18}
}

// NewState validates p and builds the initial state. The anisotropy map is
// K(x,y) = K0·(1 + EpsK·d(x,y)) where d is the rescaled manifold, or the
// constant K0 when no manifold is supplied. The map is immutable afterwards.
func NewState(p Params, opts InitOptions) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.GridSize
	m := NewVectorField(n)

	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	for i := 0; i < n*n; i++ {
		j := 3 * i
		m.Data[j] = opts.Bias[0]
		m.Data[j+1] = opts.Bias[1]
		m.Data[j+2] = opts.Bias[2]
		if opts.Noise != 0 {
			m.Data[j] += rng.NormFloat64() * opts.Noise
			m.Data[j+1] += rng.NormFloat64() * opts.Noise
			m.Data[j+2] += rng.NormFloat64() * opts.Noise
		}
	}
	m.NormalizeAll()

	k := NewScalarField(n)
	if opts.Manifold != nil {
		if opts.Manifold.N != n {
			return nil, fmt.Errorf("%w: manifold side %d, grid %d", ErrShape, opts.Manifold.N, n)
		}
		d := opts.Manifold.Clone()
		lo, hi := d.MinMax()
		if lo < -1 || hi > 1 {
			d.RescaleToUnit()
		}
		for i, v := range d.Data {
			k.Data[i] = p.K0 * (1 + p.EpsK*v)
		}
	} else {
		for i := range k.Data {
			k.Data[i] = p.K0
		}
	}

	return &State{p: p, m: m, k: k}, nil
}

// Params returns the configuration the state was built with.
func (s *State) Params() Params { return s.p }

// M returns the live magnetization field. Only the integrator may write
// through it; every other consumer must use Magnetization.
func (s *State) M() *VectorField { return s.m }

// Anisotropy returns the anisotropy map. It must not be mutated.
func (s *State) Anisotropy() *ScalarField { return s.k }

// Magnetization returns a read-only copy of the magnetization field.
func (s *State) Magnetization() *VectorField { return s.m.Clone() }

// Mz returns a copy of the out-of-plane component.
func (s *State) Mz() *ScalarField { return s.m.Component(2) }

// RecordEnergy appends one accepted step to the energy history.
func (s *State) RecordEnergy(step int, energy float64) {
	s.history = append(s.history, EnergySample{Step: step, Energy: energy})
}

// History returns a copy of the energy history in step order.
func (s *State) History() []EnergySample {
	out := make([]EnergySample, len(s.history))
	copy(out, s.history)
	return out
}
