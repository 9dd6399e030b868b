package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	t.Run("known reference distance", func(t *testing.T) {
		t.Parallel()
		// San Francisco to Yosemite valley.
		got := Distance(37.774856, -122.424227, 37.864742, -119.537521)
		assert.InDelta(t, 254352.079, got, 0.01)
	})

	t.Run("symmetric", func(t *testing.T) {
		t.Parallel()
		a := Distance(40.0, -105.3, 40.1, -105.2)
		b := Distance(40.1, -105.2, 40.0, -105.3)
		assert.InDelta(t, a, b, 1e-9)
		assert.Greater(t, a, 0.0)
	})

	t.Run("zero for identical points", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Distance(51.5, -0.12, 51.5, -0.12))
	})

	t.Run("propagates NaN coordinates", func(t *testing.T) {
		t.Parallel()
		assert.True(t, math.IsNaN(Distance(math.NaN(), 0, 1, 1)))
	})

	t.Run("short distances scale with separation", func(t *testing.T) {
		t.Parallel()
		one := Distance(40.0, -105.0, 40.0, -105.0001)
		two := Distance(40.0, -105.0, 40.0, -105.0002)
		assert.InDelta(t, 2*one, two, one*1e-6)
	})
}
