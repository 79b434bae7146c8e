package mag

import "math"

// VectorField is an N×N grid of 3-component vectors stored flat,
// component-innermost: Data[3*(y*N+x)+c].
type VectorField struct {
	N    int
	Data []float64
}

func NewVectorField(n int) *VectorField {
	return &VectorField{N: n, Data: make([]float64, 3*n*n)}
}

func (f *VectorField) idx(x, y int) int { return 3 * (y*f.N + x) }

// At returns the vector at site (x, y).
func (f *VectorField) At(x, y int) (float64, float64, float64) {
	i := f.idx(x, y)
	return f.Data[i], f.Data[i+1], f.Data[i+2]
}

// Set stores the vector at site (x, y).
func (f *VectorField) Set(x, y int, vx, vy, vz float64) {
	i := f.idx(x, y)
	f.Data[i], f.Data[i+1], f.Data[i+2] = vx, vy, vz
}

func (f *VectorField) Clone() *VectorField {
	c := NewVectorField(f.N)
	copy(c.Data, f.Data)
	return c
}

// CopyFrom overwrites f with src. Both fields must share the same size.
func (f *VectorField) CopyFrom(src *VectorField) {
	copy(f.Data, src.Data)
}

func (f *VectorField) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// IsFinite reports whether every component is finite.
func (f *VectorField) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// NormalizeAll rescales every site vector to unit length. Sites with a
// vanishing norm are left untouched to avoid dividing by zero.
func (f *VectorField) NormalizeAll() {
	ParallelFor(f.N*f.N, 1024, func(start, end int) {
		for i := start; i < end; i++ {
			j := 3 * i
			vx, vy, vz := f.Data[j], f.Data[j+1], f.Data[j+2]
			n := math.Sqrt(vx*vx + vy*vy + vz*vz)
			if n > 1e-10 {
				inv := 1 / n
				f.Data[j] = vx * inv
				f.Data[j+1] = vy * inv
				f.Data[j+2] = vz * inv
			}
		}
	})
}

// MaxNormDeviation returns max |‖m‖−1| over all sites.
func (f *VectorField) MaxNormDeviation() float64 {
	worst := 0.0
	for i := 0; i < f.N*f.N; i++ {
		j := 3 * i
		vx, vy, vz := f.Data[j], f.Data[j+1], f.Data[j+2]
		d := math.Abs(math.Sqrt(vx*vx+vy*vy+vz*vz) - 1)
		if d > worst {
			worst = d
		}
	}
	return worst
}

// Component extracts one component (0=x, 1=y, 2=z) as a scalar field.
func (f *VectorField) Component(c int) *ScalarField {
	s := NewScalarField(f.N)
	for i := 0; i < f.N*f.N; i++ {
		s.Data[i] = f.Data[3*i+c]
	}
	return s
}

// Shifted returns a copy cyclically shifted by (sx, sy) sites.
func (f *VectorField) Shifted(sx, sy int) *VectorField {
	n := f.N
	out := NewVectorField(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			vx, vy, vz := f.At(x, y)
			out.Set(((x+sx)%n+n)%n, ((y+sy)%n+n)%n, vx, vy, vz)
		}
	}
	return out
}

// ScalarField is an N×N scalar grid stored flat: Data[y*N+x].
type ScalarField struct {
	N    int
	Data []float64
}

func NewScalarField(n int) *ScalarField {
	return &ScalarField{N: n, Data: make([]float64, n*n)}
}

func (s *ScalarField) At(x, y int) float64     { return s.Data[y*s.N+x] }
func (s *ScalarField) Set(x, y int, v float64) { s.Data[y*s.N+x] = v }

func (s *ScalarField) Clone() *ScalarField {
	c := NewScalarField(s.N)
	copy(c.Data, s.Data)
	return c
}

// MinMax returns the smallest and largest value in the field.
func (s *ScalarField) MinMax() (float64, float64) {
	lo, hi := s.Data[0], s.Data[0]
	for _, v := range s.Data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// RescaleToUnit maps the field linearly onto [−1, 1]. A constant field is
// left unchanged.
func (s *ScalarField) RescaleToUnit() {
	lo, hi := s.MinMax()
	if hi <= lo {
		return
	}
	scale := 2 / (hi - lo)
	for i, v := range s.Data {
		s.Data[i] = (v-lo)*scale - 1
	}
}

// Mean returns the arithmetic mean of the field.
func (s *ScalarField) Mean() float64 {
	sum := 0.0
	for _, v := range s.Data {
		sum += v
	}
	return sum / float64(len(s.Data))
}

// Std returns the population standard deviation of the field.
func (s *ScalarField) Std() float64 {
	mean := s.Mean()
	sum := 0.0
	for _, v := range s.Data {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(s.Data)))
}
