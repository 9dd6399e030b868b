// Package fitload decodes FIT activity files into the canonical activity
// table the analysis packages consume.
package fitload

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/tormoder/fit"
	"go.uber.org/zap"

	"github.com/vincentdavis/cycling-dynamics/log"
	"github.com/vincentdavis/cycling-dynamics/series"
)

// Load decodes a FIT activity file into an Activity table. One row per
// record message, sorted by timestamp with duplicates dropped; enhanced
// speed/altitude are preferred under the canonical column names, positions
// arrive in decimal degrees, and invalid sentinel values become NaN.
func Load(path string) (*series.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader decodes FIT data from a reader. See Load.
func LoadReader(r io.Reader) (*series.Activity, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	return fromRecords(activity.Records)
}

func fromRecords(records []*fit.RecordMsg) (*series.Activity, error) {
	rows := make([]*fit.RecordMsg, 0, len(records))
	for _, rec := range records {
		if rec == nil || rec.Timestamp.IsZero() || fit.IsBaseTime(rec.Timestamp) {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("activity file has no timestamped records")
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	deduped := rows[:1]
	for _, rec := range rows[1:] {
		if rec.Timestamp.After(deduped[len(deduped)-1].Timestamp) {
			deduped = append(deduped, rec)
		}
	}
	if dropped := len(rows) - len(deduped); dropped > 0 {
		log.Logger.Debug("dropped duplicate timestamps", zap.Int("count", dropped))
	}
	rows = deduped

	n := len(rows)
	act := series.New(n)
	timestamps := make([]time.Time, n)
	seconds := make([]float64, n)
	power := make([]float64, n)
	speed := make([]float64, n)
	altitude := make([]float64, n)
	distance := make([]float64, n)
	lat := make([]float64, n)
	lon := make([]float64, n)
	hr := make([]float64, n)
	cadence := make([]float64, n)
	temperature := make([]float64, n)

	start := rows[0].Timestamp
	for i, rec := range rows {
		timestamps[i] = rec.Timestamp
		seconds[i] = rec.Timestamp.Sub(start).Seconds()
		power[i] = extractPower(rec)
		speed[i] = extractSpeed(rec)
		altitude[i] = extractAltitude(rec)
		distance[i] = finiteOrNaN(rec.GetDistanceScaled())
		lat[i] = rec.PositionLat.Degrees()
		lon[i] = rec.PositionLong.Degrees()
		hr[i] = extractHeartRate(rec)
		cadence[i] = extractCadence(rec)
		temperature[i] = extractTemperature(rec)
	}

	if err := act.SetTimestamps(timestamps); err != nil {
		return nil, err
	}
	cols := []struct {
		name   string
		values []float64
	}{
		{series.ColSeconds, seconds},
		{series.ColPower, power},
		{series.ColSpeed, speed},
		{series.ColAltitude, altitude},
		{series.ColDistance, distance},
		{series.ColLat, lat},
		{series.ColLong, lon},
		{series.ColHeartRate, hr},
		{series.ColCadence, cadence},
		{series.ColTemperature, temperature},
	}
	for _, c := range cols {
		if allNaN(c.values) {
			continue
		}
		if err := act.SetColumn(c.name, c.values); err != nil {
			return nil, err
		}
	}
	return act, nil
}

func extractPower(rec *fit.RecordMsg) float64 {
	if rec.Power == math.MaxUint16 {
		return math.NaN()
	}
	return float64(rec.Power)
}

func extractHeartRate(rec *fit.RecordMsg) float64 {
	if rec.HeartRate == math.MaxUint8 {
		return math.NaN()
	}
	return float64(rec.HeartRate)
}

func extractCadence(rec *fit.RecordMsg) float64 {
	cad256 := rec.GetCadence256Scaled()
	if isFinite(cad256) && cad256 > 0 {
		return cad256
	}
	if rec.Cadence == math.MaxUint8 {
		return math.NaN()
	}
	return float64(rec.Cadence)
}

func extractTemperature(rec *fit.RecordMsg) float64 {
	if rec.Temperature == math.MaxInt8 {
		return math.NaN()
	}
	return float64(rec.Temperature)
}

func extractSpeed(rec *fit.RecordMsg) float64 {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed
	}
	return math.NaN()
}

func extractAltitude(rec *fit.RecordMsg) float64 {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	return math.NaN()
}

func finiteOrNaN(v float64) float64 {
	if isFinite(v) {
		return v
	}
	return math.NaN()
}

func allNaN(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
