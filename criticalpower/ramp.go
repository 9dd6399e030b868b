package criticalpower

import (
	"math"

	"go.uber.org/zap"

	"github.com/vincentdavis/cycling-dynamics/log"
)

// RampSegment is one block of a synthesized ramp-test workout. Segments are
// numbered 1..N with segment 1 the longest/latest bin; the short 1-second
// ramp blocks come last, closest to the starting effort.
type RampSegment struct {
	Segment  int
	Duration int
	Power    float64
	// PowerFraction is Power divided by the FTP reference.
	PowerFraction float64
}

// RampOptions configures BuildRampTest. Zero values select the defaults:
// 30-second bins, a 1200-second test, FTP 1 (no normalization).
type RampOptions struct {
	SegmentTime int
	TestLength  int
	FTP         float64
}

func (o RampOptions) withDefaults() (RampOptions, error) {
	if o.SegmentTime <= 0 {
		o.SegmentTime = 30
	}
	if o.TestLength <= 0 {
		o.TestLength = DefaultMaxWindow
	}
	if o.FTP == 0 {
		o.FTP = 1
	}
	if o.FTP < 0 {
		return o, &InvalidFtpError{FTP: o.FTP}
	}
	return o, nil
}

// BuildRampTest converts a power-duration profile into a binned ramp-test
// workout. The profile is interpolated to 1-second resolution and truncated
// to the test length; it must cover at least that long.
//
// Sample k (0-based, representing second k+1) gets a ramp power of
// power[k]*(k+1) minus the running sum of prior ramp powers clipped to zero,
// modeling an accumulating load where early fast efforts borrow against the
// total. The first 31 samples are 1-second bins, preserving the sharp
// initial ramp; later samples group into SegmentTime-wide bins. Each bin
// contributes one segment: mean ramp power rounded to the nearest watt, the
// sample count as duration, and the power as a fraction of FTP. Bins are
// emitted in reverse order. Segment durations always sum to the test length.
func BuildRampTest(p Profile, opts RampOptions) ([]RampSegment, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	dense, err := Interpolate(p)
	if err != nil {
		return nil, err
	}
	if len(dense) < opts.TestLength {
		return nil, &ProfileTooShortError{MaxDuration: len(dense), TestLength: opts.TestLength}
	}
	dense = dense[:opts.TestLength]
	log.Logger.Debug("building ramp test",
		zap.Int("test_length", opts.TestLength),
		zap.Int("segment_time", opts.SegmentTime))

	ramp := make([]float64, len(dense))
	priorSum := 0.0
	for k, dp := range dense {
		if k == 0 {
			ramp[k] = dp.Power
		} else {
			ramp[k] = dp.Power*float64(k+1) - math.Max(0, priorSum)
		}
		priorSum += ramp[k]
	}

	type bin struct {
		id    int
		sum   float64
		count int
	}
	var bins []bin
	byID := make(map[int]int)
	for k := range ramp {
		id := k
		if k > 30 {
			id = k/opts.SegmentTime + 30
		}
		pos, ok := byID[id]
		if !ok {
			pos = len(bins)
			byID[id] = pos
			bins = append(bins, bin{id: id})
		}
		bins[pos].sum += ramp[k]
		bins[pos].count++
	}

	// Bin ids ascend with encounter order, so reversing the slice orders
	// them largest-first.
	segments := make([]RampSegment, 0, len(bins))
	for i := len(bins) - 1; i >= 0; i-- {
		b := bins[i]
		power := math.Round(b.sum / float64(b.count))
		segments = append(segments, RampSegment{
			Segment:       len(segments) + 1,
			Duration:      b.count,
			Power:         power,
			PowerFraction: power / opts.FTP,
		})
	}
	return segments, nil
}
