package criticalpower

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vincentdavis/cycling-dynamics/series"
)

// fixtureActivity builds a deterministic synthetic ride whose critical power
// values at the checked durations were computed independently with a brute
// force reference implementation.
func fixtureActivity(t *testing.T, n int) *series.Activity {
	t.Helper()
	power := make([]float64, n)
	hr := make([]float64, n)
	for i := 0; i < n; i++ {
		power[i] = 150.0 + 100.0*math.Sin(float64(i)/30.0) + float64(i%7)*5.0
		hr[i] = 120.0 + 30.0*math.Sin(float64(i)/60.0)
	}
	act := series.New(n)
	require.NoError(t, act.SetColumn(series.ColPower, power))
	require.NoError(t, act.SetColumn(series.ColHeartRate, hr))
	return act
}

func TestComputeCurveRegressionFixture(t *testing.T) {
	t.Parallel()
	act := fixtureActivity(t, 600)
	calc := Calculator{MaxWindow: 600}
	curve, err := calc.ComputeCurve(act)
	require.NoError(t, err)

	want := []struct {
		seconds int
		cp      float64
		index   int
	}{
		{1, 279.9573603041505, 48},
		{5, 269.8881898530302, 426},
		{10, 267.1643624581911, 426},
		{20, 263.8923272363135, 433},
		{30, 261.71534462882903, 62},
		{60, 249.6503272668583, 265},
		{120, 210.5261092222234, 482},
		{300, 184.16126983829358, 479},
		{600, 167.841570212215, 599},
	}
	for _, w := range want {
		p, ok := curve.Point(w.seconds)
		require.True(t, ok, "duration %d missing", w.seconds)
		assert.InDelta(t, w.cp, p.CP, 1e-6, "cp at %ds", w.seconds)
		assert.Equal(t, w.index, p.Index, "end index at %ds", w.seconds)
	}
}

func TestComputeCurveWindowStatistics(t *testing.T) {
	t.Parallel()
	act := fixtureActivity(t, 600)
	calc := Calculator{MaxWindow: 30}
	curve, err := calc.ComputeCurve(act)
	require.NoError(t, err)

	p, ok := curve.Point(30)
	require.True(t, ok)
	assert.InDelta(t, 10.252509152, p.Std, 1e-6)
	assert.InDelta(t, 279.957360304, p.Max, 1e-6)
	assert.InDelta(t, 241.944497925, p.Min, 1e-6)
	assert.InDelta(t, -0.280578295, p.Slope, 1e-6)

	// Heart rate is the default extra column.
	require.NotNil(t, p.Extra)
	assert.InDelta(t, 141.124347459, p.Extra["heart_rate_mean"], 1e-6)
	assert.InDelta(t, 3.080230318, p.Extra["heart_rate_std"], 1e-6)
	assert.InDelta(t, 145.770308582, p.Extra["heart_rate_max"], 1e-6)
	assert.InDelta(t, 135.680616868, p.Extra["heart_rate_min"], 1e-6)
}

func TestComputeCurveMaximality(t *testing.T) {
	t.Parallel()
	act := fixtureActivity(t, 400)
	power := act.Column(series.ColPower)
	calc := Calculator{MaxWindow: 60}
	curve, err := calc.ComputeCurve(act)
	require.NoError(t, err)

	for _, d := range []int{1, 7, 33, 60} {
		cp, ok := curve.Value(d)
		require.True(t, ok)
		for end := d - 1; end < len(power); end++ {
			sum := 0.0
			for i := end - d + 1; i <= end; i++ {
				sum += power[i]
			}
			assert.LessOrEqual(t, sum/float64(d), cp+1e-9,
				"window ending at %d beats cp for duration %d", end, d)
		}
	}
}

func TestComputeCurveIdempotent(t *testing.T) {
	t.Parallel()
	act := fixtureActivity(t, 300)
	calc := Calculator{MaxWindow: 120}
	first, err := calc.ComputeCurve(act)
	require.NoError(t, err)
	second, err := calc.ComputeCurve(act)
	require.NoError(t, err)
	assert.Equal(t, first.Points(), second.Points())
}

func TestComputeCurveSkipsDurationsLongerThanSeries(t *testing.T) {
	t.Parallel()
	act := fixtureActivity(t, 10)
	calc := Calculator{MaxWindow: 20}
	curve, err := calc.ComputeCurve(act)
	require.NoError(t, err)

	points := curve.Points()
	require.Len(t, points, 10)
	for d := 1; d <= 10; d++ {
		_, ok := curve.Point(d)
		assert.True(t, ok, "duration %d", d)
	}
	for d := 11; d <= 20; d++ {
		_, ok := curve.Point(d)
		assert.False(t, ok, "duration %d should be skipped", d)
	}
}

func TestComputeCurveTieBreakEarliestWindow(t *testing.T) {
	t.Parallel()
	n := 50
	power := make([]float64, n)
	for i := range power {
		power[i] = 200.0
	}
	act := series.New(n)
	require.NoError(t, act.SetColumn(series.ColPower, power))

	calc := Calculator{MaxWindow: 10, ExtraColumns: []string{}}
	curve, err := calc.ComputeCurve(act)
	require.NoError(t, err)
	for d := 1; d <= 10; d++ {
		p, ok := curve.Point(d)
		require.True(t, ok)
		assert.Equal(t, d-1, p.Index, "earliest window must win ties for duration %d", d)
		assert.Equal(t, 200.0, p.CP)
		assert.Nil(t, p.Extra)
	}
}

func TestComputeCurveSurvivesPowerDropout(t *testing.T) {
	t.Parallel()
	n := 100
	power := make([]float64, n)
	for i := range power {
		power[i] = 100.0
	}
	power[20] = math.NaN()
	for i := 60; i < 70; i++ {
		power[i] = 400.0
	}
	act := series.New(n)
	require.NoError(t, act.SetColumn(series.ColPower, power))

	calc := Calculator{MaxWindow: n, ExtraColumns: []string{}}
	curve, err := calc.ComputeCurve(act)
	require.NoError(t, err)

	// The hard effort after the dropout still wins.
	p, ok := curve.Point(10)
	require.True(t, ok)
	assert.Equal(t, 400.0, p.CP)
	assert.Equal(t, 69, p.Index)

	cp, ok := curve.Value(1)
	require.True(t, ok)
	assert.Equal(t, 400.0, cp)

	// Every window of 80+ samples covers the dropout, so those durations
	// are skipped; 79 still fits cleanly after it.
	_, ok = curve.Point(79)
	assert.True(t, ok)
	_, ok = curve.Point(80)
	assert.False(t, ok)
}

func TestComputeCurveRequiresPowerColumn(t *testing.T) {
	t.Parallel()
	act := series.New(10)
	require.NoError(t, act.SetColumn(series.ColSpeed, make([]float64, 10)))

	calc := Calculator{MaxWindow: 10}
	_, err := calc.ComputeCurve(act)
	var serr *series.SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, []string{series.ColPower}, serr.Missing)
}

func TestCurveFromProfile(t *testing.T) {
	t.Parallel()
	curve, err := CurveFromProfile(referenceProfile())
	require.NoError(t, err)
	assert.Equal(t, 1200, curve.MaxWindow)

	cp, ok := curve.Value(1)
	require.True(t, ok)
	assert.Equal(t, 1000.0, cp)
	cp, ok = curve.Value(1200)
	require.True(t, ok)
	assert.Equal(t, 350.0, cp)

	p, _ := curve.Point(60)
	assert.Equal(t, -1, p.Index)
	assert.Zero(t, p.Std)
}
