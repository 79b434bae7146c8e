// Package manifold generates sample 2-D data fields for anisotropy
// encoding. Every pattern returns an N×N scalar field normalized to
// [−1, 1]; the simulation core consumes it once at state construction.
package manifold

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/spinsim/internal/mag"
)

// Patterns lists the supported pattern names in menu order.
var Patterns = []string{"gaussian_bumps", "sinusoid", "checkerboard", "random", "perlin"}

// Generate builds the named pattern at the given side length. The seed is
// only used by the stochastic patterns (random, perlin).
func Generate(pattern string, size int, seed int64) (*mag.ScalarField, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: manifold size %d", mag.ErrConfig, size)
	}
	switch pattern {
	case "gaussian_bumps":
		return gaussianBumps(size), nil
	case "sinusoid":
		return sinusoid(size), nil
	case "checkerboard":
		return checkerboard(size), nil
	case "random":
		return random(size, seed), nil
	case "perlin":
		return perlinNoise(size, seed), nil
	default:
		return nil, fmt.Errorf("%w: unknown pattern %q", mag.ErrConfig, pattern)
	}
}

// coord maps a grid index onto [−3, 3].
func coord(i, size int) float64 {
	return -3 + 6*float64(i)/float64(size-1)
}

func gaussianBumps(size int) *mag.ScalarField {
	f := mag.NewScalarField(size)
	for yi := 0; yi < size; yi++ {
		y := coord(yi, size)
		for xi := 0; xi < size; xi++ {
			x := coord(xi, size)
			v := 1.5*math.Exp(-((x-1)*(x-1)+(y-1)*(y-1))/0.3) +
				math.Exp(-((x+1)*(x+1)+(y+1)*(y+1))/0.3) +
				0.8*math.Exp(-(x*x+(y-1.5)*(y-1.5))/0.2)
			f.Set(xi, yi, v)
		}
	}
	f.RescaleToUnit()
	return f
}

func sinusoid(size int) *mag.ScalarField {
	f := mag.NewScalarField(size)
	for yi := 0; yi < size; yi++ {
		y := coord(yi, size)
		for xi := 0; xi < size; xi++ {
			x := coord(xi, size)
			f.Set(xi, yi, math.Sin(2*math.Pi*x/3)*math.Cos(2*math.Pi*y/3))
		}
	}
	f.RescaleToUnit()
	return f
}

func checkerboard(size int) *mag.ScalarField {
	f := mag.NewScalarField(size)
	for yi := 0; yi < size; yi++ {
		y := coord(yi, size)
		for xi := 0; xi < size; xi++ {
			x := coord(xi, size)
			v := math.Sin(3*math.Pi*x) * math.Sin(3*math.Pi*y)
			switch {
			case v > 0:
				f.Set(xi, yi, 1)
			case v < 0:
				f.Set(xi, yi, -1)
			default:
				f.Set(xi, yi, 0)
			}
		}
	}
	return f
}

func random(size int, seed int64) *mag.ScalarField {
	rng := rand.New(rand.NewSource(seed))
	f := mag.NewScalarField(size)
	for i := range f.Data {
		f.Data[i] = rng.NormFloat64()
	}
	f.RescaleToUnit()
	return f
}

func perlinNoise(size int, seed int64) *mag.ScalarField {
	p := perlin.NewPerlin(2, 2, 3, seed)
	f := mag.NewScalarField(size)
	scale := 4.0 / float64(size)
	for yi := 0; yi < size; yi++ {
		for xi := 0; xi < size; xi++ {
			f.Set(xi, yi, p.Noise2D(float64(xi)*scale, float64(yi)*scale))
		}
	}
	f.RescaleToUnit()
	return f
}
