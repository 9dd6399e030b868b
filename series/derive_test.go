package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroSeconds(t *testing.T) {
	t.Parallel()
	act := New(3)
	base := time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, act.SetTimestamps([]time.Time{
		base.Add(5 * time.Second), base.Add(6 * time.Second), base.Add(8 * time.Second),
	}))
	require.NoError(t, ZeroSeconds(act))
	assert.Equal(t, []float64{0, 1, 3}, act.Column(ColSeconds))

	bare := New(2)
	require.Error(t, ZeroSeconds(bare))
}

func TestDeriveSpeed(t *testing.T) {
	t.Parallel()
	act := New(4)
	require.NoError(t, act.SetColumn(ColDistance, []float64{0, 10, 30, 60}))
	require.NoError(t, act.SetColumn(ColSeconds, []float64{0, 1, 2, 2}))
	require.NoError(t, DeriveSpeed(act))

	speed := act.Column(ColSpeed)
	assert.True(t, math.IsNaN(speed[0]))
	assert.Equal(t, 10.0, speed[1])
	assert.Equal(t, 20.0, speed[2])
	// Duplicate seconds make the ratio undefined.
	assert.True(t, math.IsNaN(speed[3]))
}

func TestDeriveSlope(t *testing.T) {
	t.Parallel()
	act := New(4)
	require.NoError(t, act.SetColumn(ColAltitude, []float64{100, 101, 103, 103}))
	require.NoError(t, act.SetColumn(ColDistance, []float64{0, 10, 20, 30}))
	require.NoError(t, DeriveSlope(act))

	slope := act.Column("slope")
	assert.True(t, math.IsNaN(slope[0]))
	assert.InDelta(t, 0.1, slope[1], 1e-12)
	assert.InDelta(t, 0.2, slope[2], 1e-12)
	assert.InDelta(t, 0.0, slope[3], 1e-12)

	smooth := act.Column("slope_3sec")
	// The leading NaN is ignored, not propagated.
	assert.InDelta(t, 0.1, smooth[0], 1e-12)
	assert.InDelta(t, 0.15, smooth[1], 1e-12)
	assert.InDelta(t, 0.1, smooth[3], 1e-12)
}

func TestDeriveVAM(t *testing.T) {
	t.Parallel()
	act := New(3)
	require.NoError(t, act.SetColumn(ColAltitude, []float64{100, 100.5, 101.5}))
	require.NoError(t, act.SetColumn(ColSeconds, []float64{0, 1, 2}))
	require.NoError(t, DeriveVAM(act))

	vam := act.Column("vam")
	assert.True(t, math.IsNaN(vam[0]))
	assert.InDelta(t, 1800.0, vam[1], 1e-9)
	assert.InDelta(t, 3600.0, vam[2], 1e-9)
}

func TestNormalizedPowerAndStress(t *testing.T) {
	t.Parallel()
	n := 40
	act := New(n)
	power := make([]float64, n)
	secs := make([]float64, n)
	for i := range power {
		power[i] = 200
		secs[i] = float64(i)
	}
	require.NoError(t, act.SetColumn(ColPower, power))
	require.NoError(t, act.SetColumn(ColSeconds, secs))

	require.NoError(t, TrainingStress(act, 250))

	np := act.Column("np")
	require.NotNil(t, np)
	assert.True(t, math.IsNaN(np[28]))
	assert.InDelta(t, 200.0, np[29], 1e-9)
	assert.InDelta(t, 200.0, np[39], 1e-9)

	intensity := act.Column("intensity_factor")
	assert.InDelta(t, 0.8, intensity[35], 1e-12)

	tss := act.Column("tss")
	assert.True(t, math.IsNaN(tss[10]))
	want := 0.0
	for i := 29; i <= 39; i++ {
		want += 200 * 0.8 * float64(i) / 250 / 3600
	}
	assert.InDelta(t, want, tss[39], 1e-9)
}

func TestNormalizedPowerRecoversAfterDropout(t *testing.T) {
	t.Parallel()
	n := 70
	act := New(n)
	power := make([]float64, n)
	for i := range power {
		power[i] = 200
	}
	power[10] = math.NaN()
	require.NoError(t, act.SetColumn(ColPower, power))
	require.NoError(t, NormalizedPower(act))

	np := act.Column("np")
	// Windows covering the dropout stay NaN; the next clean window does not.
	assert.True(t, math.IsNaN(np[39]))
	assert.InDelta(t, 200.0, np[40], 1e-9)
	assert.InDelta(t, 200.0, np[69], 1e-9)
}

func TestAirDensity(t *testing.T) {
	t.Parallel()
	act := New(2)
	require.NoError(t, act.SetColumn(ColAltitude, []float64{0, 1000}))
	require.NoError(t, AirDensity(act, 0))

	density := act.Column("air_density")
	// Sea level at 0C.
	assert.InDelta(t, 1.2922, density[0], 1e-3)
	assert.Less(t, density[1], density[0])

	warm := New(1)
	require.NoError(t, warm.SetColumn(ColAltitude, []float64{0}))
	require.NoError(t, warm.SetColumn(ColTemperature, []float64{20}))
	require.NoError(t, AirDensity(warm, 0))
	assert.Less(t, warm.Column("air_density")[0], density[0])
}

func TestDeriveMissingColumns(t *testing.T) {
	t.Parallel()
	act := New(2)
	var serr *SchemaError
	err := DeriveSpeed(act)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, -1, serr.Track)
	assert.NotContains(t, err.Error(), "track")
	require.ErrorAs(t, DeriveSlope(act), &serr)
	require.ErrorAs(t, DeriveVAM(act), &serr)
	require.ErrorAs(t, NormalizedPower(act), &serr)
	require.ErrorAs(t, AirDensity(act, 15), &serr)
}
