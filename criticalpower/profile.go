package criticalpower

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Profile maps duration in seconds to sustainable power in watts. Keys may
// be sparse; Interpolate densifies them.
type Profile map[int]float64

// DensePoint is one entry of a profile interpolated to 1-second resolution.
type DensePoint struct {
	Seconds int
	Power   float64
}

// Interpolate fills a sparse profile to one point per integer second from 1
// to the profile's maximum duration, linear between the known durations.
// Known durations keep their exact power. The profile must contain a
// 1-second entry and no negative power.
func Interpolate(p Profile) ([]DensePoint, error) {
	if len(p) == 0 {
		return nil, &InvalidProfileError{Reason: "profile is empty"}
	}
	if _, ok := p[1]; !ok {
		return nil, &InvalidProfileError{Reason: "profile must start with 1 second"}
	}
	keys := make([]int, 0, len(p))
	for k, v := range p {
		if k < 1 {
			return nil, &InvalidProfileError{Reason: fmt.Sprintf("duration %d is not positive", k)}
		}
		if v < 0 {
			return nil, &InvalidProfileError{Reason: fmt.Sprintf("power for %ds is negative", k)}
		}
		keys = append(keys, k)
	}
	sort.Ints(keys)

	maxDuration := keys[len(keys)-1]
	if len(keys) == 1 {
		return []DensePoint{{Seconds: 1, Power: p[1]}}, nil
	}

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		xs[i] = float64(k)
		ys[i] = p[k]
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interpolate profile: %w", err)
	}

	out := make([]DensePoint, maxDuration)
	for s := 1; s <= maxDuration; s++ {
		power := pl.Predict(float64(s))
		if v, ok := p[s]; ok {
			power = v
		}
		out[s-1] = DensePoint{Seconds: s, Power: power}
	}
	return out, nil
}
