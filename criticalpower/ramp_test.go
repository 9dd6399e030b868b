package criticalpower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRampTestReference(t *testing.T) {
	t.Parallel()
	segs, err := BuildRampTest(referenceProfile(), RampOptions{FTP: 250})
	require.NoError(t, err)
	require.Len(t, segs, 70)

	total := 0
	maxPower, minPower := segs[0].Power, segs[0].Power
	for i, s := range segs {
		assert.Equal(t, i+1, s.Segment)
		total += s.Duration
		if s.Power > maxPower {
			maxPower = s.Power
		}
		if s.Power < minPower {
			minPower = s.Power
		}
	}
	assert.Equal(t, 1200, total)
	assert.Equal(t, 1000.0, maxPower)
	assert.Equal(t, 152.0, minPower)

	// The long bins come first, the sharp 1-second ramp blocks last.
	assert.Equal(t, RampSegment{Segment: 1, Duration: 30, Power: 285, PowerFraction: 285.0 / 250}, segs[0])
	assert.Equal(t, RampSegment{Segment: 2, Duration: 30, Power: 288, PowerFraction: 288.0 / 250}, segs[1])
	assert.Equal(t, 1, segs[68].Duration)
	assert.Equal(t, 900.0, segs[68].Power)
	assert.Equal(t, RampSegment{Segment: 70, Duration: 1, Power: 1000, PowerFraction: 4.0}, segs[69])
}

func TestBuildRampTestCustomSegmentTime(t *testing.T) {
	t.Parallel()
	segs, err := BuildRampTest(referenceProfile(), RampOptions{SegmentTime: 60, TestLength: 600})
	require.NoError(t, err)

	total := 0
	for _, s := range segs {
		total += s.Duration
		// Default FTP of 1 leaves fractions equal to the raw watts.
		assert.Equal(t, s.Power, s.PowerFraction)
	}
	assert.Equal(t, 600, total)
}

func TestBuildRampTestProfileTooShort(t *testing.T) {
	t.Parallel()
	_, err := BuildRampTest(Profile{1: 1000, 60: 450}, RampOptions{})
	var perr *ProfileTooShortError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 60, perr.MaxDuration)
	assert.Equal(t, 1200, perr.TestLength)
}

func TestBuildRampTestNegativeFTP(t *testing.T) {
	t.Parallel()
	_, err := BuildRampTest(referenceProfile(), RampOptions{FTP: -1})
	var ferr *InvalidFtpError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, -1.0, ferr.FTP)
}
