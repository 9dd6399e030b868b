// Package dynamics estimates the power a rider must produce from terrain,
// speed, and air, and compares roll-down recordings.
package dynamics

import (
	"math"

	"go.uber.org/zap"

	"github.com/vincentdavis/cycling-dynamics/log"
	"github.com/vincentdavis/cycling-dynamics/series"
)

const gravityMps2 = 9.8067

// Options configures Simulate. Start from DefaultOptions and override;
// Simulate uses the values as given.
type Options struct {
	// Smoothing is the centered rolling-mean window for the *_smoothed
	// columns; zero or negative disables them.
	Smoothing   int
	RiderWeight float64 // kg
	BikeWeight  float64 // kg
	WindSpeed   float64 // m/s
	// WindDirection is relative to the direction of travel in degrees;
	// 0 is a full headwind.
	WindDirection float64
	// Temperature in Celsius, used only when the activity has no
	// temperature column and air density must be derived.
	Temperature       float64
	DragCoefficient   float64
	FrontalArea       float64 // m^2
	RollingResistance float64
	// EfficiencyLoss is the drivetrain fraction lost between the pedals
	// and the road.
	EfficiencyLoss float64
}

// DefaultOptions returns the simulator defaults: a 65 kg rider on a 5 kg
// bike, still air at 30C, CdA 0.452, Crr 0.005, 4% drivetrain loss, and
// 3-sample smoothing.
func DefaultOptions() Options {
	return Options{
		Smoothing:         3,
		RiderWeight:       65,
		BikeWeight:        5,
		Temperature:       30,
		DragCoefficient:   0.8,
		FrontalArea:       0.565,
		RollingResistance: 0.005,
		EfficiencyLoss:    0.04,
	}
}

// Simulate decomposes the power needed at every sample into air drag,
// climbing, rolling, and acceleration watts, and adds the estimated total
// power columns. The activity must carry seconds, distance, and altitude;
// speed, slope, and air density are derived when absent. When the activity
// has a power column, a power_error column compares the estimate with the
// meter. With Smoothing > 0 each component also gets a *_smoothed variant;
// those windows require every sample, so edges and dropouts stay NaN.
func Simulate(act *series.Activity, opts Options) error {
	if missing := act.Missing(series.ColSeconds, series.ColDistance, series.ColAltitude); len(missing) > 0 {
		return &series.SchemaError{Track: -1, Missing: missing}
	}
	if !act.HasColumn(series.ColSpeed) {
		if err := series.DeriveSpeed(act); err != nil {
			return err
		}
	}
	if !act.HasColumn("slope") {
		if err := series.DeriveSlope(act); err != nil {
			return err
		}
	}
	if !act.HasColumn("air_density") {
		if err := series.AirDensity(act, opts.Temperature); err != nil {
			return err
		}
	}

	n := act.Len()
	speed := act.Column(series.ColSpeed)
	slope := act.Column("slope")
	density := act.Column("air_density")
	secs := act.Column(series.ColSeconds)
	mass := opts.RiderWeight + opts.BikeWeight
	cda := opts.DragCoefficient * opts.FrontalArea
	effWind := math.Cos(opts.WindDirection*math.Pi/180) * opts.WindSpeed
	log.Logger.Debug("simulating power components",
		zap.Float64("mass_kg", mass),
		zap.Float64("cda", cda),
		zap.Float64("effective_wind_mps", effWind))

	wind := make([]float64, n)
	airDrag := make([]float64, n)
	climbing := make([]float64, n)
	rolling := make([]float64, n)
	accel := make([]float64, n)
	noLoss := make([]float64, n)
	estPower := make([]float64, n)
	effLoss := make([]float64, n)
	noAccel := make([]float64, n)
	for i := 0; i < n; i++ {
		wind[i] = effWind
		airSpeed := speed[i] + effWind
		airDrag[i] = 0.5 * cda * density[i] * airSpeed * airSpeed * speed[i]
		grade := math.Atan(slope[i])
		climbing[i] = mass * gravityMps2 * math.Sin(grade) * speed[i]
		rolling[i] = math.Cos(grade) * gravityMps2 * mass * opts.RollingResistance * speed[i]
		accel[i] = math.NaN()
		if i > 0 {
			if dt := secs[i] - secs[i-1]; dt != 0 {
				accel[i] = mass * (speed[i] - speed[i-1]) / dt * speed[i]
			}
		}
		noLoss[i] = nanSum(airDrag[i], climbing[i], rolling[i], accel[i])
		estPower[i] = noLoss[i] / (1 - opts.EfficiencyLoss)
		effLoss[i] = noLoss[i] - estPower[i]
		noAccel[i] = (noLoss[i] - accel[i]) / (1 - opts.EfficiencyLoss)
	}

	cols := []struct {
		name   string
		values []float64
	}{
		{"effective_wind_speed", wind},
		{"air_drag_watts", airDrag},
		{"climbing_watts", climbing},
		{"rolling_watts", rolling},
		{"acceleration_watts", accel},
		{"est_power_no_loss", noLoss},
		{"est_power", estPower},
		{"efficiency_loss_watts", effLoss},
		{"est_power_no_acceleration", noAccel},
	}
	for _, c := range cols {
		if err := act.SetColumn(c.name, c.values); err != nil {
			return err
		}
	}
	power := act.Column(series.ColPower)
	if power != nil {
		perr := make([]float64, n)
		for i := range perr {
			perr[i] = estPower[i] - power[i]
		}
		if err := act.SetColumn("power_error", perr); err != nil {
			return err
		}
	}

	if opts.Smoothing <= 0 {
		return nil
	}
	smoothed := []string{
		series.ColSpeed, "slope", "air_drag_watts", "climbing_watts",
		"rolling_watts", "est_power", "efficiency_loss_watts",
		"acceleration_watts", "est_power_no_acceleration",
	}
	if power != nil {
		smoothed = append(smoothed, series.ColPower)
	}
	for _, name := range smoothed {
		values := strictCenteredMean(act.Column(name), opts.Smoothing)
		if err := act.SetColumn(name+"_smoothed", values); err != nil {
			return err
		}
	}
	if power != nil {
		estSmoothed := act.Column("est_power_smoothed")
		powerSmoothed := act.Column("power_smoothed")
		perr := make([]float64, n)
		for i := range perr {
			perr[i] = estSmoothed[i] - powerSmoothed[i]
		}
		if err := act.SetColumn("power_error_smoothed", perr); err != nil {
			return err
		}
	}
	return nil
}

// nanSum adds the finite terms; an all-NaN row sums to zero.
func nanSum(terms ...float64) float64 {
	sum := 0.0
	for _, t := range terms {
		if !math.IsNaN(t) {
			sum += t
		}
	}
	return sum
}

// strictCenteredMean averages a centered window of the given width. Unlike
// the tolerant smoother used for slope, the whole window must exist and be
// finite, so series edges and windows covering a NaN stay NaN.
func strictCenteredMean(values []float64, width int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		lo := i - (width-1)/2
		hi := lo + width - 1
		if lo < 0 || hi >= len(values) {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(width)
	}
	return out
}
