// Package energy evaluates the four micromagnetic energy densities of a
// thin-film state. All terms share one normalization: a spatial sum of the
// local volumetric density, multiplied by cell area and film thickness, then
// divided by the total sample area, giving J/m² comparable across grid
// resolutions.
package energy

import (
	"fmt"

	"github.com/san-kum/spinsim/internal/mag"
)

// Breakdown is the per-term energy density in J/m².
type Breakdown struct {
	Exchange   float64
	DMI        float64
	Anisotropy float64
	Zeeman     float64
	Total      float64
}

// Evaluator computes energy breakdowns for a fixed parameter set.
type Evaluator struct {
	p      mag.Params
	inv2Dx float64
	// areaScale folds dx²·thickness/(N·dx)² = thickness/N² into one factor.
	areaScale float64
}

func New(p mag.Params) *Evaluator {
	return &Evaluator{
		p:         p,
		inv2Dx:    1 / (2 * p.CellSize),
		areaScale: p.Thickness / float64(p.Sites()),
	}
}

// Evaluate computes all four terms and their sum. Derivatives are central
// differences with periodic wraparound, matching the effective-field
// discretization. The anisotropy term uses the sin²θ zero point
// K·(1 − m_z²) so a uniform easy-axis state carries zero energy; its
// gradient, and therefore the dynamics, is identical to −K·m_z².
func (e *Evaluator) Evaluate(m *mag.VectorField, k *mag.ScalarField) (Breakdown, error) {
	n := e.p.GridSize
	if m.N != n || k.N != n {
		return Breakdown{}, fmt.Errorf("%w: got sides %d/%d, want %d", mag.ErrShape, m.N, k.N, n)
	}

	var ex, dmi, anis, zee float64
	for y := 0; y < n; y++ {
		ym := (y - 1 + n) % n
		yp := (y + 1) % n
		for x := 0; x < n; x++ {
			xm := (x - 1 + n) % n
			xp := (x + 1) % n
			i := 3 * (y*n + x)
			il, ir := 3*(y*n+xm), 3*(y*n+xp)
			id, iu := 3*(ym*n+x), 3*(yp*n+x)

			var gx, gy [3]float64
			for comp := 0; comp < 3; comp++ {
				gx[comp] = (m.Data[ir+comp] - m.Data[il+comp]) * e.inv2Dx
				gy[comp] = (m.Data[iu+comp] - m.Data[id+comp]) * e.inv2Dx
				ex += gx[comp]*gx[comp] + gy[comp]*gy[comp]
			}

			mx, my, mz := m.Data[i], m.Data[i+1], m.Data[i+2]

			// Lifshitz invariants for interfacial DMI.
			dmi += mz*gx[0] - mx*gx[2] + mz*gy[1] - my*gy[2]

			anis += k.Data[y*n+x] * (1 - mz*mz)
			zee += -mag.Mu0 * e.p.Ms * e.p.Bz * mz
		}
	}

	b := Breakdown{
		Exchange:   e.p.A * ex * e.areaScale,
		DMI:        e.p.D * dmi * e.areaScale,
		Anisotropy: anis * e.areaScale,
		Zeeman:     zee * e.areaScale,
	}
	b.Total = b.Exchange + b.DMI + b.Anisotropy + b.Zeeman
	return b, nil
}
