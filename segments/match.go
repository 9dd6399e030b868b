// Package segments aligns a common geographic stretch across independently
// recorded tracks so they can be compared on shared distance and time axes.
package segments

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/vincentdavis/cycling-dynamics/geo"
	"github.com/vincentdavis/cycling-dynamics/log"
	"github.com/vincentdavis/cycling-dynamics/series"
)

// NoMatchError reports a track whose nearest point to a control anchor is
// farther than the configured threshold, meaning the track likely never
// passes through the segment.
type NoMatchError struct {
	Track    int
	Anchor   string // "start" or "end"
	Meters   float64
	MaxMatch float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("track %d: nearest point to segment %s is %.0fm away (max %.0fm)",
		e.Track, e.Anchor, e.Meters, e.MaxMatch)
}

// Options selects the segment to match on the control track.
type Options struct {
	// StartDistance is the distance along the control track where the
	// segment begins; the nearest recorded sample is used.
	StartDistance float64
	// Length of the segment from the start point, in meters.
	Length float64
	// MaxMatchDistance, when positive, rejects comparison tracks whose
	// nearest point to a control anchor exceeds it. Zero keeps the
	// unconditional nearest-point behavior.
	MaxMatchDistance float64
}

// Match aligns a segment across tracks. The first track is the control: its
// start and end samples are the ones nearest by recorded distance to
// StartDistance and StartDistance+Length. Every other track is matched by
// great-circle distance to the control's start and end points. Each output
// is trimmed to its matched range with distance re-based to the start
// sample, seconds re-based to the earliest timestamp in range, and a ride
// column tagging the source track (0 = control).
func Match(tracks []*series.Activity, opts Options) ([]*series.Activity, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("match segments: no tracks given")
	}
	for i, track := range tracks {
		missing := track.Missing(series.ColLat, series.ColLong, series.ColDistance)
		if track.Timestamp == nil {
			missing = append(missing, "timestamp")
		}
		if len(missing) > 0 {
			return nil, &series.SchemaError{Track: i, Missing: missing}
		}
	}

	control := tracks[0]
	dist := control.Column(series.ColDistance)
	startIdx := nearestByValue(dist, opts.StartDistance)
	endIdx := nearestByValue(dist, opts.StartDistance+opts.Length)
	lat := control.Column(series.ColLat)
	lon := control.Column(series.ColLong)
	startLat, startLon, startDist := lat[startIdx], lon[startIdx], dist[startIdx]
	endLat, endLon := lat[endIdx], lon[endIdx]
	log.Logger.Info("matched control segment",
		zap.Int("start_index", startIdx), zap.Int("end_index", endIdx),
		zap.Float64("start_distance", startDist))

	out := make([]*series.Activity, 0, len(tracks))
	out = append(out, rebase(control, startIdx, endIdx, startDist, 0))

	for i, track := range tracks[1:] {
		ride := i + 1
		matchStart, toStart := nearestByPosition(track, startLat, startLon)
		matchEnd, toEnd := nearestByPosition(track, endLat, endLon)
		if opts.MaxMatchDistance > 0 {
			if toStart > opts.MaxMatchDistance {
				return nil, &NoMatchError{Track: ride, Anchor: "start", Meters: toStart, MaxMatch: opts.MaxMatchDistance}
			}
			if toEnd > opts.MaxMatchDistance {
				return nil, &NoMatchError{Track: ride, Anchor: "end", Meters: toEnd, MaxMatch: opts.MaxMatchDistance}
			}
		}
		if matchEnd < matchStart {
			return nil, fmt.Errorf("track %d: matched end (index %d) precedes matched start (index %d)",
				ride, matchEnd, matchStart)
		}
		log.Logger.Info("matched track segment",
			zap.Int("ride", ride),
			zap.Int("start_index", matchStart), zap.Int("end_index", matchEnd),
			zap.Float64("start_error_m", toStart), zap.Float64("end_error_m", toEnd))
		matchDist := track.Column(series.ColDistance)[matchStart]
		out = append(out, rebase(track, matchStart, matchEnd, matchDist, ride))
	}
	return out, nil
}

// nearestByValue returns the index whose value is nearest to target by
// absolute difference; the first such index on ties.
func nearestByValue(values []float64, target float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, v := range values {
		if diff := math.Abs(v - target); diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// nearestByPosition returns the index of the track sample nearest to the
// given point by great-circle distance, plus that distance in meters.
func nearestByPosition(track *series.Activity, targetLat, targetLon float64) (int, float64) {
	lat := track.Column(series.ColLat)
	lon := track.Column(series.ColLong)
	best := 0
	bestMeters := math.Inf(1)
	for i := range lat {
		if meters := geo.Distance(targetLat, targetLon, lat[i], lon[i]); meters < bestMeters {
			bestMeters = meters
			best = i
		}
	}
	return best, bestMeters
}

// rebase copies rows [lo, hi] of a track, re-zeroes distance and seconds,
// and tags the ride index.
func rebase(track *series.Activity, lo, hi int, startDist float64, ride int) *series.Activity {
	out := track.Slice(lo, hi+1)
	dist := out.Column(series.ColDistance)
	for i := range dist {
		dist[i] -= startDist
	}
	var first time.Time
	for i, ts := range out.Timestamp {
		if i == 0 || ts.Before(first) {
			first = ts
		}
	}
	secs := make([]float64, out.Len())
	for i, ts := range out.Timestamp {
		secs[i] = ts.Sub(first).Seconds()
	}
	_ = out.SetColumn(series.ColSeconds, secs)
	rides := make([]float64, out.Len())
	for i := range rides {
		rides[i] = float64(ride)
	}
	_ = out.SetColumn(series.ColRide, rides)
	return out
}
