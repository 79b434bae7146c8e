// Package sweep explores a grid of parameter values, scoring each
// combination with a caller-supplied objective (for example the final
// energy or a skyrmion-count deviation). Lower scores win.
package sweep

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spinsim/internal/mag"
)

// Score runs a simulation for one parameter combination and returns its
// objective value.
type Score func(ctx context.Context, p mag.Params) (float64, error)

type Sweep struct {
	names  []string
	ranges [][]float64
}

// New builds a sweep over the named parameters. Supported names: dmi,
// anisotropy, field, damping, modulation, dt.
func New(names []string, ranges [][]float64) (*Sweep, error) {
	if len(names) != len(ranges) {
		return nil, fmt.Errorf("%w: %d names, %d ranges", mag.ErrConfig, len(names), len(ranges))
	}
	for _, name := range names {
		if !applicable(name) {
			return nil, fmt.Errorf("%w: unknown sweep parameter %q", mag.ErrConfig, name)
		}
	}
	return &Sweep{names: names, ranges: ranges}, nil
}

func applicable(name string) bool {
	switch name {
	case "dmi", "anisotropy", "field", "damping", "modulation", "dt":
		return true
	}
	return false
}

func apply(p mag.Params, name string, value float64) mag.Params {
	switch name {
	case "dmi":
		p.D = value
	case "anisotropy":
		p.K0 = value
	case "field":
		p.Bz = value
	case "damping":
		p.Alpha = value
	case "modulation":
		p.EpsK = value
	case "dt":
		p.Dt = value
	}
	return p
}

// Run evaluates every combination and returns the best parameter
// assignment with its score. Combinations whose score errors out are
// skipped; if all fail, the last error is returned.
func (s *Sweep) Run(ctx context.Context, base mag.Params, score Score) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestAssign map[string]float64
	var lastErr error

	s.recurse(ctx, 0, base, map[string]float64{}, score, &best, &bestAssign, &lastErr)

	if bestAssign == nil {
		if lastErr != nil {
			return nil, 0, lastErr
		}
		return nil, 0, fmt.Errorf("sweep: no combination evaluated")
	}
	return bestAssign, best, nil
}

func (s *Sweep) recurse(
	ctx context.Context,
	depth int,
	p mag.Params,
	current map[string]float64,
	score Score,
	best *float64,
	bestAssign *map[string]float64,
	lastErr *error,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(s.names) {
		val, err := score(ctx, p)
		if err != nil {
			*lastErr = err
			return
		}
		if val < *best {
			*best = val
			assign := make(map[string]float64, len(current))
			for k, v := range current {
				assign[k] = v
			}
			*bestAssign = assign
		}
		return
	}

	name := s.names[depth]
	for _, v := range s.ranges[depth] {
		current[name] = v
		s.recurse(ctx, depth+1, apply(p, name, v), current, score, best, bestAssign, lastErr)
	}
	delete(current, name)
}
