package stability

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/spinsim/internal/mag"
)

func testParams() mag.Params {
	p := mag.Default()
	p.GridSize = 8
	return p
}

func TestAcceptKeepsDt(t *testing.T) {
	c := New(testParams())

	for step, e := range []float64{-1.0, -1.1, -1.2, -1.2, -1.25} {
		d, err := c.Check(step, e)
		require.NoError(t, err)
		require.Equal(t, Accept, d)
	}

	require.Equal(t, testParams().Dt, c.Dt())
	require.False(t, c.Reduced())
	require.Zero(t, c.Halvings())
	require.Zero(t, c.Softenings())
}

func TestNonFiniteEnergyHalvesDtAndRetries(t *testing.T) {
	p := testParams()
	c := New(p)

	d, err := c.Check(0, math.NaN())
	require.NoError(t, err)
	require.Equal(t, Retry, d)
	require.Equal(t, p.Dt/2, c.Dt())
	require.Equal(t, 1, c.Halvings())
	require.True(t, c.Reduced())

	d, err = c.Check(0, math.Inf(1))
	require.NoError(t, err)
	require.Equal(t, Retry, d)
	require.Equal(t, p.Dt/4, c.Dt())
	require.Equal(t, 2, c.Halvings())
}

func TestDtFloorIsFatal(t *testing.T) {
	p := testParams()
	p.Dt = 4 * p.DtFloor
	c := New(p)

	// Two halvings stay above the floor, the third crosses it.
	for i := 0; i < 2; i++ {
		d, err := c.Check(i, math.NaN())
		require.NoError(t, err)
		require.Equal(t, Retry, d)
	}

	d, err := c.Check(2, math.NaN())
	require.Equal(t, Retry, d)
	require.Error(t, err)
	require.True(t, errors.Is(err, mag.ErrDtFloor))

	var ue *mag.UnstableError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, 2, ue.Step)
	require.Less(t, ue.Dt, p.DtFloor)
}

func TestEnergyGrowthSoftensDt(t *testing.T) {
	p := testParams()
	c := New(p)

	d, err := c.Check(0, 1.0)
	require.NoError(t, err)
	require.Equal(t, Accept, d)

	// 20% growth with damping active: accepted, but dt shrinks.
	d, err = c.Check(1, 1.2)
	require.NoError(t, err)
	require.Equal(t, Accept, d)
	require.Equal(t, p.Dt*p.SoftFactor, c.Dt())
	require.Equal(t, 1, c.Softenings())
	require.Zero(t, c.Halvings())

	// The comparison point stays at the last stable energy, so sustained
	// growth keeps shrinking dt.
	d, err = c.Check(2, 1.15)
	require.NoError(t, err)
	require.Equal(t, Accept, d)
	require.Equal(t, p.Dt*p.SoftFactor*p.SoftFactor, c.Dt())
	require.Equal(t, 2, c.Softenings())
}

func TestSmallGrowthIsAccepted(t *testing.T) {
	p := testParams()
	c := New(p)

	_, err := c.Check(0, -2.0)
	require.NoError(t, err)

	// |growth| = 0.1 against |prev| = 2.0 stays under the 10% threshold.
	d, err := c.Check(1, -1.9)
	require.NoError(t, err)
	require.Equal(t, Accept, d)
	require.Equal(t, p.Dt, c.Dt())
	require.Zero(t, c.Softenings())
}

func TestZeroDampingDisablesSoftCorrection(t *testing.T) {
	p := testParams()
	p.Alpha = 0
	c := New(p)

	_, err := c.Check(0, 1.0)
	require.NoError(t, err)

	// Undamped dynamics conserve energy only approximately; growth must
	// not shrink dt.
	d, err := c.Check(1, 2.0)
	require.NoError(t, err)
	require.Equal(t, Accept, d)
	require.Equal(t, p.Dt, c.Dt())
	require.Zero(t, c.Softenings())
}

func TestFirstStepNeverSoftens(t *testing.T) {
	c := New(testParams())
	d, err := c.Check(0, 1e9)
	require.NoError(t, err)
	require.Equal(t, Accept, d)
	require.Zero(t, c.Softenings())
}
