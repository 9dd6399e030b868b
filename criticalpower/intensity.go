package criticalpower

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/vincentdavis/cycling-dynamics/log"
	"github.com/vincentdavis/cycling-dynamics/series"
)

// Intensity scores an activity against a critical power curve. For every
// duration d from 1 to horizon, the trailing rolling mean of power ending at
// each sample (partial windows allowed at the start) is divided by the
// curve's value for d; the per-duration percentages are summed and divided
// by horizon, giving one percent-of-total-CP value per sample. NaN samples
// (recording dropouts) are left out of the window means; a sample whose
// every window is all-NaN carries a NaN percentage. The score is the mean of
// the finite entries of that series, which is also returned.
//
// The curve may be observed (ComputeCurve) or declared (CurveFromProfile)
// and must cover every duration 1..horizon with a positive value, else
// MissingDurationError. An activity shorter than the horizon has no score.
func (c Calculator) Intensity(act *series.Activity, curve *Curve, horizon int) (float64, []float64, error) {
	power := act.Column(series.ColPower)
	if power == nil {
		return 0, nil, &series.SchemaError{Track: -1, Missing: []string{series.ColPower}}
	}
	if horizon <= 0 {
		horizon = c.maxWindow()
	}
	n := len(power)
	if n < horizon {
		return 0, nil, fmt.Errorf("activity has %d samples, intensity horizon is %ds", n, horizon)
	}
	for d := 1; d <= horizon; d++ {
		if cp, ok := curve.Value(d); !ok || cp <= 0 {
			return 0, nil, &MissingDurationError{Duration: d}
		}
	}
	log.Logger.Debug("computing critical power intensity",
		zap.Int("horizon", horizon), zap.Int("samples", n))

	percent := make([]float64, n)
	for d := 1; d <= horizon; d++ {
		cp, _ := curve.Value(d)
		sum := 0.0
		width := 0
		for i := 0; i < n; i++ {
			if v := power[i]; !math.IsNaN(v) {
				sum += v
				width++
			}
			if i >= d {
				if v := power[i-d]; !math.IsNaN(v) {
					sum -= v
					width--
				}
			}
			if width == 0 {
				percent[i] = math.NaN()
				continue
			}
			percent[i] += sum / float64(width) / cp
		}
	}
	scoreSum := 0.0
	scored := 0
	for i := range percent {
		percent[i] /= float64(horizon)
		if !math.IsNaN(percent[i]) {
			scoreSum += percent[i]
			scored++
		}
	}
	if scored == 0 {
		return 0, nil, fmt.Errorf("no scorable samples: every window is a recording dropout")
	}
	return scoreSum / float64(scored), percent, nil
}
