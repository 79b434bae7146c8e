// Package stability implements the per-step divergence control that keeps
// long explicit-Euler runs numerically bounded without manual dt tuning.
package stability

import (
	"math"

	"github.com/san-kum/spinsim/internal/mag"
)

// Decision is the controller's verdict on a freshly computed step.
type Decision int

const (
	// Accept commits the step and appends its energy to the history.
	Accept Decision = iota
	// Retry discards the step; the caller must restore the previous state
	// and re-attempt with the reduced dt.
	Retry
)

// Controller adapts the time step in response to the energy of each step.
// Reductions are permanent for the remainder of the run: dt never grows
// back, which avoids oscillating between step sizes.
type Controller struct {
	p  mag.Params
	dt float64

	prev     float64
	havePrev bool

	halvings   int
	softenings int
}

func New(p mag.Params) *Controller {
	return &Controller{p: p, dt: p.Dt}
}

// Dt returns the time step currently in effect.
func (c *Controller) Dt() float64 { return c.dt }

// Reduced reports whether the controller has left the nominal-dt state.
func (c *Controller) Reduced() bool { return c.dt < c.p.Dt }

// Halvings returns the number of hard (non-finite energy) corrections.
func (c *Controller) Halvings() int { return c.halvings }

// Softenings returns the number of soft (energy growth) corrections.
func (c *Controller) Softenings() int { return c.softenings }

// Check inspects the total energy produced by the step at the given index.
//
// Non-finite energy halves dt and requests a retry from the previous valid
// state; if dt falls below the floor the returned error is fatal. Finite
// energy that grew past the relative threshold while damping is active
// triggers a soft correction: dt shrinks but the step stands. Everything
// else is accepted at the current dt.
func (c *Controller) Check(step int, total float64) (Decision, error) {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		c.dt *= 0.5
		c.halvings++
		if c.dt < c.p.DtFloor {
			return Retry, &mag.UnstableError{Step: step, Dt: c.dt, Params: c.p}
		}
		return Retry, nil
	}

	if c.havePrev && c.p.Alpha > 0 && total > c.prev &&
		total-c.prev > c.p.GrowthThreshold*math.Abs(c.prev) {
		// Transient instability: shrink dt, keep the state, and keep the
		// last stable energy as the comparison point so sustained growth
		// keeps shrinking dt.
		c.dt *= c.p.SoftFactor
		c.softenings++
		return Accept, nil
	}

	c.prev = total
	c.havePrev = true
	return Accept, nil
}
