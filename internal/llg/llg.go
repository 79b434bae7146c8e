// Package llg advances the magnetization under the Landau-Lifshitz-Gilbert
// equation:
//
//	dm/dt = −γ/(1+α²)·[m×H_eff + α·m×(m×H_eff)]
//
// The continuous equation preserves |m| = 1; the discrete update does not,
// so every stepper renormalizes all site vectors after each update.
package llg

import (
	"github.com/san-kum/spinsim/internal/field"
	"github.com/san-kum/spinsim/internal/mag"
)

// Stepper advances the magnetization in place by one time step.
type Stepper interface {
	Step(m *mag.VectorField, k *mag.ScalarField, dt float64) error
}

// derivative writes dm/dt into out given the effective field h.
func derivative(p mag.Params, m, h, out *mag.VectorField) {
	pref := -p.Gamma / (1 + p.Alpha*p.Alpha)
	alpha := p.Alpha
	mag.ParallelFor(m.N*m.N, 512, func(start, end int) {
		for i := start; i < end; i++ {
			j := 3 * i
			mx, my, mz := m.Data[j], m.Data[j+1], m.Data[j+2]
			hx, hy, hz := h.Data[j], h.Data[j+1], h.Data[j+2]

			// precession m×H
			px := my*hz - mz*hy
			py := mz*hx - mx*hz
			pz := mx*hy - my*hx

			// damping m×(m×H)
			dx := my*pz - mz*py
			dy := mz*px - mx*pz
			dz := mx*py - my*px

			out.Data[j] = pref * (px + alpha*dx)
			out.Data[j+1] = pref * (py + alpha*dy)
			out.Data[j+2] = pref * (pz + alpha*dz)
		}
	})
}

// axpy computes m += dt·dm.
func axpy(m *mag.VectorField, dt float64, dm *mag.VectorField) {
	mag.ParallelFor(len(m.Data), 4096, func(start, end int) {
		for i := start; i < end; i++ {
			m.Data[i] += dt * dm.Data[i]
		}
	})
}

// Euler is the explicit first-order scheme.
type Euler struct {
	p     mag.Params
	calc  *field.Calculator
	h, dm *mag.VectorField
}

func NewEuler(p mag.Params) *Euler {
	return &Euler{
		p:    p,
		calc: field.New(p),
		h:    mag.NewVectorField(p.GridSize),
		dm:   mag.NewVectorField(p.GridSize),
	}
}

func (e *Euler) Step(m *mag.VectorField, k *mag.ScalarField, dt float64) error {
	if err := e.calc.Effective(m, k, e.h); err != nil {
		return err
	}
	derivative(e.p, m, e.h, e.dm)
	axpy(m, dt, e.dm)
	m.NormalizeAll()
	return nil
}

// Heun is the second-order scheme: the full-step slope is re-evaluated at
// the predictor state and averaged with the initial slope, improving
// accuracy at the same dt.
type Heun struct {
	p          mag.Params
	calc       *field.Calculator
	h          *mag.VectorField
	k1, k2     *mag.VectorField
	prediction *mag.VectorField
}

func NewHeun(p mag.Params) *Heun {
	return &Heun{
		p:          p,
		calc:       field.New(p),
		h:          mag.NewVectorField(p.GridSize),
		k1:         mag.NewVectorField(p.GridSize),
		k2:         mag.NewVectorField(p.GridSize),
		prediction: mag.NewVectorField(p.GridSize),
	}
}

func (s *Heun) Step(m *mag.VectorField, k *mag.ScalarField, dt float64) error {
	if err := s.calc.Effective(m, k, s.h); err != nil {
		return err
	}
	derivative(s.p, m, s.h, s.k1)

	s.prediction.CopyFrom(m)
	axpy(s.prediction, dt, s.k1)
	s.prediction.NormalizeAll()

	if err := s.calc.Effective(s.prediction, k, s.h); err != nil {
		return err
	}
	derivative(s.p, s.prediction, s.h, s.k2)

	half := dt / 2
	mag.ParallelFor(len(m.Data), 4096, func(start, end int) {
		for i := start; i < end; i++ {
			m.Data[i] += half * (s.k1.Data[i] + s.k2.Data[i])
		}
	})
	m.NormalizeAll()
	return nil
}
