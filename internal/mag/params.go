package mag

import (
	"fmt"
	"math"
)

// Mu0 is the vacuum permeability in T·m/A.
const Mu0 = 4 * math.Pi * 1e-7

// Params is the immutable configuration for a run. Length-like fields
// (CellSize, Thickness) are in meters; the config layer converts from
// user-facing nanometers before constructing a Params.
type Params struct {
	GridSize  int     // cells per side
	CellSize  float64 // m
	Thickness float64 // m

	A     float64 // exchange stiffness, J/m
	D     float64 // DMI constant, J/m²
	K0    float64 // base perpendicular anisotropy, J/m³
	EpsK  float64 // anisotropy modulation strength
	Bz    float64 // external field, T
	Ms    float64 // saturation magnetization, A/m
	Alpha float64 // Gilbert damping
	Gamma float64 // gyromagnetic scaling, 1/(T·s)

	Dt           float64 // s
	NumSteps     int
	SaveInterval int

	DtFloor         float64 // dt below this aborts the run
	GrowthThreshold float64 // relative energy growth triggering soft correction
	SoftFactor      float64 // dt multiplier applied on soft correction
}

func Default() Params {
	return Params{
		GridSize:  128,
		CellSize:  1e-9,
		Thickness: 10e-9,

		A:     15e-12,
		D:     4e-3,
		K0:    0.8e6,
		EpsK:  0.2,
		Bz:    0.01,
		Ms:    4e5,
		Alpha: 0.3,
		Gamma: 1e4,

		Dt:           1e-12,
		NumSteps:     15000,
		SaveInterval: 250,

		DtFloor:         1e-16,
		GrowthThreshold: 0.1,
		SoftFactor:      0.9,
	}
}

// Validate checks the configuration before any stepping begins. The sign
// conventions for Bz, D, K0 and EpsK are up to the caller; only strictly
// structural constants must be positive.
func (p Params) Validate() error {
	if p.GridSize <= 0 {
		return fmt.Errorf("%w: grid size %d", ErrConfig, p.GridSize)
	}
	if p.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %g", ErrConfig, p.CellSize)
	}
	if p.Thickness <= 0 {
		return fmt.Errorf("%w: thickness %g", ErrConfig, p.Thickness)
	}
	if p.A <= 0 {
		return fmt.Errorf("%w: exchange stiffness %g", ErrConfig, p.A)
	}
	if p.Ms <= 0 {
		return fmt.Errorf("%w: saturation magnetization %g", ErrConfig, p.Ms)
	}
	if p.Gamma <= 0 {
		return fmt.Errorf("%w: gyromagnetic scaling %g", ErrConfig, p.Gamma)
	}
	if p.Alpha < 0 {
		return fmt.Errorf("%w: damping %g", ErrConfig, p.Alpha)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt %g", ErrConfig, p.Dt)
	}
	if p.DtFloor <= 0 || p.DtFloor >= p.Dt {
		return fmt.Errorf("%w: dt floor %g (dt %g)", ErrConfig, p.DtFloor, p.Dt)
	}
	if p.NumSteps < 0 {
		return fmt.Errorf("%w: step count %d", ErrConfig, p.NumSteps)
	}
	if p.SaveInterval <= 0 {
		return fmt.Errorf("%w: save interval %d", ErrConfig, p.SaveInterval)
	}
	if p.GrowthThreshold <= 0 {
		return fmt.Errorf("%w: growth threshold %g", ErrConfig, p.GrowthThreshold)
	}
	if p.SoftFactor <= 0 || p.SoftFactor >= 1 {
		return fmt.Errorf("%w: soft factor %g", ErrConfig, p.SoftFactor)
	}
	return nil
}

// Sites returns the number of grid sites N².
func (p Params) Sites() int { return p.GridSize * p.GridSize }
