package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/energy"
	"github.com/san-kum/spinsim/internal/mag"
	"github.com/san-kum/spinsim/internal/sim"
)

func sampleResult() *sim.Result {
	p := mag.Default()
	p.GridSize = 4

	final := mag.NewVectorField(4)
	for i := 0; i < 16; i++ {
		final.Data[3*i+2] = 1 - float64(i)*0.1
	}

	return &sim.Result{
		Params: p,
		History: []mag.EnergySample{
			{Step: 0, Energy: -1.25e-4},
			{Step: 1, Energy: -1.50e-4},
			{Step: 2, Energy: -1.75e-4},
		},
		Final: final,
		FinalEnergy: energy.Breakdown{
			Exchange:   1e-5,
			DMI:        -2e-5,
			Anisotropy: 3e-5,
			Zeeman:     -4e-5,
			Total:      -2e-5,
		},
		StepsTaken: 3,
		FinalDt:    p.Dt,
		Halvings:   1,
		Softenings: 2,
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, s.Init())

	id, err := s.Save(7, "heun", "perlin", sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	meta, err := s.Load(id)
	require.NoError(t, err)
	require.Equal(t, id, meta.ID)
	require.Equal(t, int64(7), meta.Seed)
	require.Equal(t, "heun", meta.Method)
	require.Equal(t, "perlin", meta.Pattern)
	require.Equal(t, 4, meta.GridSize)
	require.Equal(t, 3, meta.StepsTaken)
	require.Equal(t, 1, meta.Halvings)
	require.Equal(t, 2, meta.Softenings)
	require.Equal(t, -2e-5, meta.FinalEnergy)
	require.Equal(t, -2e-5, meta.EnergyTerms["dmi"])
}

func TestLoadEnergyRoundtrip(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(1, "euler", "random", sampleResult())
	require.NoError(t, err)

	history, err := s.LoadEnergy(id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, 0, history[0].Step)
	require.InEpsilon(t, -1.25e-4, history[0].Energy, 1e-9)
	require.InEpsilon(t, -1.75e-4, history[2].Energy, 1e-9)
}

func TestLoadMzRoundtrip(t *testing.T) {
	s := New(t.TempDir())
	res := sampleResult()
	id, err := s.Save(1, "euler", "random", res)
	require.NoError(t, err)

	mz, err := s.LoadMz(id)
	require.NoError(t, err)
	require.Equal(t, 4, mz.N)

	want := res.Final.Component(2)
	for i := range want.Data {
		require.InDelta(t, want.Data[i], mz.Data[i], 1e-6)
	}
}

func TestListEmptyAndPopulated(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))

	runs, err := s.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	require.NoError(t, s.Init())
	_, err = s.Save(1, "euler", "sinusoid", sampleResult())
	require.NoError(t, err)

	runs, err = s.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "sinusoid", runs[0].Pattern)
}

func TestLoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("run_0")
	require.Error(t, err)
	_, err = s.LoadEnergy("run_0")
	require.Error(t, err)
}
