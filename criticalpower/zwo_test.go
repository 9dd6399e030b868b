package criticalpower

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutXML(t *testing.T) {
	t.Parallel()
	segs := []RampSegment{
		{Segment: 1, Duration: 30, Power: 285, PowerFraction: 1.14},
		{Segment: 2, Duration: 1, Power: 1000, PowerFraction: 4},
	}
	out, err := WorkoutXML(segs, "alpe", 250)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "<?xml version='1.0' encoding='UTF-8'?>\n"))
	assert.Contains(t, text, "<author>Vincent Davis</author>")
	assert.Contains(t, text, "<name>Most Painful Ramp Test alpe</name>")
	assert.Contains(t, text, "<sportType>bike</sportType>")
	assert.Contains(t, text, "<ftpOverride>250</ftpOverride>")
	assert.Contains(t, text, `<SteadyState Duration="30" Power="1.14"></SteadyState>`)
	assert.Contains(t, text, `<SteadyState Duration="1" Power="4"></SteadyState>`)
	assert.True(t, strings.HasSuffix(text, "</workout_file>\n"))
}

func TestWorkoutXMLNoFtpOverride(t *testing.T) {
	t.Parallel()
	out, err := WorkoutXML(nil, "flat", 0)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ftpOverride")
}

func TestWriteWorkout(t *testing.T) {
	t.Parallel()
	segs, err := BuildRampTest(referenceProfile(), RampOptions{FTP: 250})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ramp.zwo")
	require.NoError(t, WriteWorkout(path, segs, "profile", 250))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 70, strings.Count(string(data), "<SteadyState"))
}
