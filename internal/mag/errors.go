package mag

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfig indicates an invalid Params value, detected before stepping.
	ErrConfig = errors.New("mag: invalid parameter")

	// ErrShape indicates an array whose side length does not match Params.GridSize.
	ErrShape = errors.New("mag: grid shape mismatch")

	// ErrDtFloor indicates the adaptive time step was driven below its floor.
	ErrDtFloor = errors.New("mag: time step below floor")
)

// UnstableError reports a run aborted because repeated divergence drove dt
// below the configured floor. It carries the parameter values in effect so
// the caller can adjust and retry.
type UnstableError struct {
	Step   int
	Dt     float64
	Params Params
}

func (e *UnstableError) Error() string {
	return fmt.Sprintf(
		"mag: sustained instability at step %d: dt %.3e below floor %.3e (A=%.3e D=%.3e K0=%.3e Bz=%.3e alpha=%.2f dt0=%.3e)",
		e.Step, e.Dt, e.Params.DtFloor,
		e.Params.A, e.Params.D, e.Params.K0, e.Params.Bz, e.Params.Alpha, e.Params.Dt)
}

func (e *UnstableError) Unwrap() error { return ErrDtFloor }
