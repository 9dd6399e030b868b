package series

import (
	"fmt"
	"math"

	"github.com/vincentdavis/cycling-dynamics/log"
)

const (
	seaLevelPressurePa = 101325.0
	dryAirGasConstant  = 287.05
	zeroCelsiusKelvin  = 273.15
	gravityMps2        = 9.8067
)

// ZeroSeconds derives the seconds column from timestamps, re-based to start
// at zero. It replaces any existing seconds column.
func ZeroSeconds(a *Activity) error {
	if a.Timestamp == nil {
		return fmt.Errorf("zero seconds: activity has no timestamps")
	}
	n := a.Len()
	secs := make([]float64, n)
	if n > 0 {
		start := a.Timestamp[0]
		for _, ts := range a.Timestamp {
			if ts.Before(start) {
				start = ts
			}
		}
		for i, ts := range a.Timestamp {
			secs[i] = ts.Sub(start).Seconds()
		}
	}
	return a.SetColumn(ColSeconds, secs)
}

// DeriveSpeed fills the speed column from distance and seconds deltas.
func DeriveSpeed(a *Activity) error {
	dist := a.Column(ColDistance)
	secs := a.Column(ColSeconds)
	if dist == nil || secs == nil {
		return &SchemaError{Track: -1, Missing: a.Missing(ColDistance, ColSeconds)}
	}
	speed := diffRatio(dist, secs)
	return a.SetColumn(ColSpeed, speed)
}

// DeriveSlope adds the slope column (rise over run) and a centered 3-sample
// rolling mean of it.
func DeriveSlope(a *Activity) error {
	alt := a.Column(ColAltitude)
	dist := a.Column(ColDistance)
	if alt == nil || dist == nil {
		return &SchemaError{Track: -1, Missing: a.Missing(ColAltitude, ColDistance)}
	}
	slope := diffRatio(alt, dist)
	if err := a.SetColumn("slope", slope); err != nil {
		return err
	}
	return a.SetColumn("slope_3sec", centeredRollingMean(slope, 3))
}

// DeriveVAM adds vertical ascent rate in meters per hour.
func DeriveVAM(a *Activity) error {
	alt := a.Column(ColAltitude)
	secs := a.Column(ColSeconds)
	if alt == nil || secs == nil {
		return &SchemaError{Track: -1, Missing: a.Missing(ColAltitude, ColSeconds)}
	}
	vam := diffRatio(alt, secs)
	for i := range vam {
		vam[i] *= 3600.0
	}
	return a.SetColumn("vam", vam)
}

// NormalizedPower adds the np column: the fourth root of the 30-sample
// rolling mean of power to the fourth. The first 29 samples are NaN, the
// window being incomplete there, as is any window covering a NaN power
// sample; the column recovers once the dropout leaves the window.
func NormalizedPower(a *Activity) error {
	power := a.Column(ColPower)
	if power == nil {
		return &SchemaError{Track: -1, Missing: a.Missing(ColPower)}
	}
	const window = 30
	np := make([]float64, len(power))
	sum := 0.0
	dropouts := 0
	for i, p := range power {
		if math.IsNaN(p) {
			dropouts++
		} else {
			sum += p * p * p * p
		}
		if i >= window {
			if q := power[i-window]; math.IsNaN(q) {
				dropouts--
			} else {
				sum -= q * q * q * q
			}
		}
		if i < window-1 || dropouts > 0 {
			np[i] = math.NaN()
			continue
		}
		np[i] = math.Pow(sum/float64(window), 0.25)
	}
	return a.SetColumn("np", np)
}

// IntensityFactor adds the intensity factor column np/ftp.
func IntensityFactor(a *Activity, ftp float64) error {
	if !a.HasColumn("np") {
		if err := NormalizedPower(a); err != nil {
			return err
		}
	}
	np := a.Column("np")
	intensity := make([]float64, len(np))
	for i, v := range np {
		intensity[i] = v / ftp
	}
	return a.SetColumn("intensity_factor", intensity)
}

// TrainingStress adds the cumulative training stress column.
func TrainingStress(a *Activity, ftp float64) error {
	if !a.HasColumn("intensity_factor") {
		if err := IntensityFactor(a, ftp); err != nil {
			return err
		}
	}
	power := a.Column(ColPower)
	intensity := a.Column("intensity_factor")
	secs := a.Column(ColSeconds)
	if power == nil || secs == nil {
		return &SchemaError{Track: -1, Missing: a.Missing(ColPower, ColSeconds)}
	}
	tss := make([]float64, len(power))
	cum := 0.0
	for i := range power {
		term := power[i] * intensity[i] * secs[i] / ftp / 3600.0
		if math.IsNaN(term) {
			tss[i] = math.NaN()
			continue
		}
		cum += term
		tss[i] = cum
	}
	return a.SetColumn("tss", tss)
}

// AirDensity adds the air density column from altitude and temperature. When
// no temperature column exists a constant defaultTempC is assumed.
func AirDensity(a *Activity, defaultTempC float64) error {
	alt := a.Column(ColAltitude)
	if alt == nil {
		return &SchemaError{Track: -1, Missing: a.Missing(ColAltitude)}
	}
	temp := a.Column(ColTemperature)
	if temp == nil {
		log.Logger.Debug("air density: no temperature column, using default")
		temp = make([]float64, len(alt))
		for i := range temp {
			temp[i] = defaultTempC
		}
	}
	density := make([]float64, len(alt))
	base := seaLevelPressurePa / (dryAirGasConstant * zeroCelsiusKelvin)
	for i := range alt {
		density[i] = base *
			(zeroCelsiusKelvin / (temp[i] + zeroCelsiusKelvin)) *
			math.Exp(-base*gravityMps2*alt[i]/seaLevelPressurePa)
	}
	return a.SetColumn("air_density", density)
}

// diffRatio returns delta(num)/delta(den) per row, NaN where undefined.
func diffRatio(num, den []float64) []float64 {
	out := make([]float64, len(num))
	for i := range num {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		d := den[i] - den[i-1]
		if d == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (num[i] - num[i-1]) / d
	}
	return out
}

// centeredRollingMean averages a centered window of the given width,
// ignoring NaN values. Rows with no finite neighbors stay NaN.
func centeredRollingMean(values []float64, width int) []float64 {
	out := make([]float64, len(values))
	half := width / 2
	for i := range values {
		sum := 0.0
		count := 0
		for j := i - half; j <= i+half; j++ {
			if j < 0 || j >= len(values) {
				continue
			}
			if math.IsNaN(values[j]) {
				continue
			}
			sum += values[j]
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}
