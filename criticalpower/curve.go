// Package criticalpower computes critical power curves, scores activities
// against them, and synthesizes ramp-test workouts from power profiles.
package criticalpower

import (
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vincentdavis/cycling-dynamics/log"
	"github.com/vincentdavis/cycling-dynamics/series"
)

// DefaultMaxWindow is the longest duration computed or interpolated when the
// caller does not choose one.
const DefaultMaxWindow = 1200

// CPPoint is one entry of a critical power curve: the best observed effort
// for a given duration plus statistics over the window that achieved it.
// Declared curves (from a user profile) carry only Seconds and CP.
type CPPoint struct {
	Seconds int
	// Index is the end position of the best window in the source series.
	Index int
	CP    float64
	Std   float64
	Max   float64
	Min   float64
	// Slope is the mean power of the window's second half minus its first
	// half, a pacing indicator. Negative means the effort faded.
	Slope float64
	// Extra holds <column>_mean/_std/_max/_min aggregates for the extra
	// columns declared on the Calculator.
	Extra map[string]float64
}

// Curve is an ordered collection of CPPoints, one per duration from 1 up to
// MaxWindow. Durations for which no full window existed are absent.
type Curve struct {
	MaxWindow int
	points    map[int]CPPoint
	order     []int
}

func newCurve(maxWindow int) *Curve {
	return &Curve{
		MaxWindow: maxWindow,
		points:    make(map[int]CPPoint),
	}
}

func (c *Curve) add(p CPPoint) {
	if _, ok := c.points[p.Seconds]; !ok {
		c.order = append(c.order, p.Seconds)
	}
	c.points[p.Seconds] = p
}

// Point returns the entry for a duration, if present.
func (c *Curve) Point(seconds int) (CPPoint, bool) {
	p, ok := c.points[seconds]
	return p, ok
}

// Value returns the critical power for a duration, if present.
func (c *Curve) Value(seconds int) (float64, bool) {
	p, ok := c.points[seconds]
	return p.CP, ok
}

// Points returns the entries in ascending duration order.
func (c *Curve) Points() []CPPoint {
	out := make([]CPPoint, 0, len(c.order))
	for _, s := range c.order {
		out = append(out, c.points[s])
	}
	return out
}

// CurveFromProfile builds a declared curve from a user profile, interpolated
// to 1-second resolution. Declared points carry no window statistics.
func CurveFromProfile(p Profile) (*Curve, error) {
	dense, err := Interpolate(p)
	if err != nil {
		return nil, err
	}
	curve := newCurve(len(dense))
	for _, dp := range dense {
		curve.add(CPPoint{Seconds: dp.Seconds, Index: -1, CP: dp.Power})
	}
	return curve, nil
}

// Calculator computes observed critical power curves and intensity scores.
// The zero value is usable: MaxWindow defaults to DefaultMaxWindow, the
// extra-column set to heart rate, and the worker count to GOMAXPROCS.
type Calculator struct {
	MaxWindow int
	// ExtraColumns are additional numeric columns aggregated over each best
	// window. nil selects the heart_rate default; an empty slice disables
	// extra aggregation.
	ExtraColumns []string
	Workers      int
}

func (c Calculator) maxWindow() int {
	if c.MaxWindow > 0 {
		return c.MaxWindow
	}
	return DefaultMaxWindow
}

func (c Calculator) extraColumns() []string {
	if c.ExtraColumns == nil {
		return []string{series.ColHeartRate}
	}
	return c.ExtraColumns
}

// ComputeCurve derives the critical power curve of an activity: for every
// duration s from 1 to MaxWindow, the maximum trailing rolling mean of power
// across the whole series, ties broken by the earliest end index. Windows
// containing a NaN sample (a recording dropout) do not compete; durations
// longer than the series, or with no clean window at all, are skipped. The
// scan per duration is exact and
// O(n); durations are computed concurrently, each being independent and
// read-only over the input.
func (c Calculator) ComputeCurve(act *series.Activity) (*Curve, error) {
	power := act.Column(series.ColPower)
	if power == nil {
		return nil, &series.SchemaError{Track: -1, Missing: []string{series.ColPower}}
	}
	maxWindow := c.maxWindow()
	extras := make(map[string][]float64)
	for _, name := range c.extraColumns() {
		if col := act.Column(name); col != nil {
			extras[name] = col
		}
	}
	log.Logger.Debug("computing critical power curve",
		zap.Int("max_window", maxWindow),
		zap.Int("samples", len(power)))

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*CPPoint, maxWindow+1)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				results[s] = bestWindow(power, extras, s)
			}
		}()
	}
	for s := 1; s <= maxWindow; s++ {
		jobs <- s
	}
	close(jobs)
	wg.Wait()

	curve := newCurve(maxWindow)
	for s := 1; s <= maxWindow; s++ {
		if results[s] != nil {
			curve.add(*results[s])
		}
	}
	return curve, nil
}

// bestWindow finds the best contiguous window of exactly length s and
// computes its statistics. NaN samples are counted in and out of the rolling
// window instead of entering the sum, so a dropout disqualifies only the
// windows covering it. Returns nil when the series is shorter than s or no
// window is free of dropouts.
func bestWindow(power []float64, extras map[string][]float64, s int) *CPPoint {
	n := len(power)
	if n < s {
		return nil
	}

	sum := 0.0
	dropouts := 0
	for i := 0; i < s; i++ {
		if math.IsNaN(power[i]) {
			dropouts++
		} else {
			sum += power[i]
		}
	}
	best := math.Inf(-1)
	bestEnd := -1
	if dropouts == 0 {
		best = sum / float64(s)
		bestEnd = s - 1
	}
	for end := s; end < n; end++ {
		if math.IsNaN(power[end]) {
			dropouts++
		} else {
			sum += power[end]
		}
		if math.IsNaN(power[end-s]) {
			dropouts--
		} else {
			sum -= power[end-s]
		}
		if dropouts > 0 {
			continue
		}
		if mean := sum / float64(s); mean > best {
			best = mean
			bestEnd = end
		}
	}
	if bestEnd < 0 {
		return nil
	}

	window := power[bestEnd-s+1 : bestEnd+1]
	point := &CPPoint{
		Seconds: s,
		Index:   bestEnd,
		CP:      stat.Mean(window, nil),
		Max:     floats.Max(window),
		Min:     floats.Min(window),
	}
	if s > 1 {
		point.Std = stat.StdDev(window, nil)
		half := s / 2
		point.Slope = stat.Mean(window[half:], nil) - stat.Mean(window[:half], nil)
	}

	if len(extras) > 0 {
		point.Extra = make(map[string]float64, 4*len(extras))
		for name, col := range extras {
			w := col[bestEnd-s+1 : bestEnd+1]
			point.Extra[name+"_mean"] = stat.Mean(w, nil)
			if s > 1 {
				point.Extra[name+"_std"] = stat.StdDev(w, nil)
			} else {
				point.Extra[name+"_std"] = 0
			}
			point.Extra[name+"_max"] = floats.Max(w)
			point.Extra[name+"_min"] = floats.Min(w)
		}
	}
	return point
}
