// Package sim runs the sequential integration loop: effective field → LLG
// step → energy → stability decision, once per step. Step N+1 never begins
// before step N is committed, because the controller's revert path needs a
// complete previous state.
package sim

import (
	"context"

	"github.com/san-kum/spinsim/internal/energy"
	"github.com/san-kum/spinsim/internal/llg"
	"github.com/san-kum/spinsim/internal/mag"
	"github.com/san-kum/spinsim/internal/stability"
)

// Observer receives the progress signal: a pure notification, never a
// control input.
type Observer interface {
	OnStep(step int, energy, dt float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, energy, dt float64)

func (f ObserverFunc) OnStep(step int, energy, dt float64) { f(step, energy, dt) }

// Snapshot is a read-only copy of the magnetization at a saved step.
type Snapshot struct {
	Step int
	M    *mag.VectorField
}

// Result collects everything external consumers need after a run.
type Result struct {
	Params      mag.Params
	History     []mag.EnergySample
	Snapshots   []Snapshot
	Final       *mag.VectorField
	FinalEnergy energy.Breakdown
	StepsTaken  int
	FinalDt     float64
	Halvings    int
	Softenings  int
}

type Simulator struct {
	p         mag.Params
	state     *mag.State
	stepper   llg.Stepper
	eval      *energy.Evaluator
	ctrl      *stability.Controller
	observers []Observer

	// progressEvery controls the observer cadence; 0 derives one from the
	// step count at run time.
	progressEvery int
}

// New wires a simulator around an already constructed state. The stepper
// owns the effective-field calculation; the simulator owns stepping order,
// snapshots and the stability decisions.
func New(st *mag.State, stepper llg.Stepper) (*Simulator, error) {
	p := st.Params()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		p:       p,
		state:   st,
		stepper: stepper,
		eval:    energy.New(p),
		ctrl:    stability.New(p),
	}, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetProgressInterval overrides the observer cadence in steps.
func (s *Simulator) SetProgressInterval(steps int) { s.progressEvery = steps }

// State exposes the owned state for analysis consumers. Mutating the
// returned state outside the simulator is a contract violation.
func (s *Simulator) State() *mag.State { return s.state }

// Run advances numSteps steps (Params.NumSteps when numSteps <= 0). All
// recoverable instabilities are handled internally; the returned error is
// either a context cancellation or a fatal dt-floor abort. The partial
// result is valid in both cases.
func (s *Simulator) Run(ctx context.Context, numSteps int) (*Result, error) {
	if numSteps <= 0 {
		numSteps = s.p.NumSteps
	}

	cadence := s.progressEvery
	if cadence <= 0 {
		cadence = numSteps / 20
		if cadence < 1 {
			cadence = 1
		}
	}

	res := &Result{Params: s.p}
	m := s.state.M()
	k := s.state.Anisotropy()
	prev := mag.NewVectorField(s.p.GridSize)

	for step := 0; step < numSteps; step++ {
		select {
		case <-ctx.Done():
			s.finish(res)
			return res, ctx.Err()
		default:
		}

		// Retry loop: bounded because every retry halves dt and the
		// controller aborts at the floor.
		for {
			prev.CopyFrom(m)
			if err := s.stepper.Step(m, k, s.ctrl.Dt()); err != nil {
				s.finish(res)
				return res, err
			}

			bd, err := s.eval.Evaluate(m, k)
			if err != nil {
				s.finish(res)
				return res, err
			}

			decision, ctlErr := s.ctrl.Check(step, bd.Total)
			if ctlErr != nil {
				m.CopyFrom(prev)
				s.finish(res)
				return res, ctlErr
			}
			if decision == stability.Retry {
				m.CopyFrom(prev)
				continue
			}

			s.state.RecordEnergy(step, bd.Total)
			break
		}

		res.StepsTaken++

		if step%s.p.SaveInterval == 0 {
			res.Snapshots = append(res.Snapshots, Snapshot{Step: step, M: m.Clone()})
		}
		if (step+1)%cadence == 0 {
			hist := s.state.History()
			last := hist[len(hist)-1].Energy
			for _, o := range s.observers {
				o.OnStep(step, last, s.ctrl.Dt())
			}
		}
	}

	s.finish(res)
	return res, nil
}

func (s *Simulator) finish(res *Result) {
	res.History = s.state.History()
	res.Final = s.state.Magnetization()
	res.FinalDt = s.ctrl.Dt()
	res.Halvings = s.ctrl.Halvings()
	res.Softenings = s.ctrl.Softenings()
	if bd, err := s.eval.Evaluate(s.state.M(), s.state.Anisotropy()); err == nil {
		res.FinalEnergy = bd
	}
}
