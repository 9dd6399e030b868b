// Package series provides the tabular activity time series the rest of the
// module computes over: one row per recording tick, named float64 columns,
// and an optional absolute timestamp per row.
package series

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Canonical column names. Decoders are expected to normalize any "enhanced"
// variants into these names before the data reaches the analysis packages.
const (
	ColSeconds     = "seconds"
	ColPower       = "power"
	ColSpeed       = "speed"
	ColAltitude    = "altitude"
	ColDistance    = "distance"
	ColLat         = "position_lat"
	ColLong        = "position_long"
	ColHeartRate   = "heart_rate"
	ColCadence     = "cadence"
	ColTemperature = "temperature"
	ColRide        = "ride"
)

// Activity is an in-memory activity table. Columns keep insertion order so
// exports are stable. The zero value is not usable; use New.
type Activity struct {
	Timestamp []time.Time
	cols      map[string][]float64
	order     []string
	length    int
}

// New returns an empty Activity expecting columns of n rows.
func New(n int) *Activity {
	return &Activity{
		cols:   make(map[string][]float64),
		length: n,
	}
}

// Len returns the number of rows.
func (a *Activity) Len() int { return a.length }

// Names returns column names in insertion order.
func (a *Activity) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Column returns the named column, or nil if absent. The returned slice is
// the backing storage; callers that mutate it should work on a Slice copy.
func (a *Activity) Column(name string) []float64 {
	return a.cols[name]
}

// HasColumn reports whether the named column is present.
func (a *Activity) HasColumn(name string) bool {
	_, ok := a.cols[name]
	return ok
}

// SetColumn adds or replaces a column. The column length must match the
// table length.
func (a *Activity) SetColumn(name string, values []float64) error {
	if len(values) != a.length {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), a.length)
	}
	if _, exists := a.cols[name]; !exists {
		a.order = append(a.order, name)
	}
	a.cols[name] = values
	return nil
}

// SetTimestamps attaches absolute times to the rows.
func (a *Activity) SetTimestamps(ts []time.Time) error {
	if len(ts) != a.length {
		return fmt.Errorf("timestamps: %d values for %d rows", len(ts), a.length)
	}
	a.Timestamp = ts
	return nil
}

// DropColumn removes a column if present.
func (a *Activity) DropColumn(name string) {
	if _, ok := a.cols[name]; !ok {
		return
	}
	delete(a.cols, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Missing returns the subset of names that are not present, sorted.
func (a *Activity) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !a.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	sort.Strings(missing)
	return missing
}

// Slice returns an owned copy of rows [lo, hi). All columns and timestamps
// are copied; mutating the result does not affect the receiver.
func (a *Activity) Slice(lo, hi int) *Activity {
	if lo < 0 {
		lo = 0
	}
	if hi > a.length {
		hi = a.length
	}
	if hi < lo {
		hi = lo
	}
	out := New(hi - lo)
	for _, name := range a.order {
		vals := make([]float64, hi-lo)
		copy(vals, a.cols[name][lo:hi])
		_ = out.SetColumn(name, vals)
	}
	if a.Timestamp != nil {
		ts := make([]time.Time, hi-lo)
		copy(ts, a.Timestamp[lo:hi])
		out.Timestamp = ts
	}
	return out
}

// SchemaError reports required columns absent from an activity. Track is the
// position in a multi-track input; -1 for a lone activity.
type SchemaError struct {
	Track   int
	Missing []string
}

func (e *SchemaError) Error() string {
	if e.Track < 0 {
		return "activity is missing required columns: " + strings.Join(e.Missing, ", ")
	}
	return fmt.Sprintf("track %d is missing required columns: %s",
		e.Track, strings.Join(e.Missing, ", "))
}
