package dynamics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vincentdavis/cycling-dynamics/log"
	"github.com/vincentdavis/cycling-dynamics/series"
)

// Run is one roll-down recording. MassDelta is the added mass relative to
// the baseline run, which carries zero.
type Run struct {
	Activity  *series.Activity
	MassDelta float64
	Name      string
}

// StartOfMotion trims a roll-down recording to where movement begins: the
// first sample with positive speed, kept together with the sample before it.
// Speed must be strictly increasing across that boundary, otherwise the
// recording did not capture a clean release.
func StartOfMotion(act *series.Activity) (*series.Activity, error) {
	speed := act.Column(series.ColSpeed)
	if speed == nil {
		return nil, &series.SchemaError{Track: -1, Missing: act.Missing(series.ColSpeed)}
	}
	first := -1
	for i, v := range speed {
		if v > 0 {
			first = i
			break
		}
	}
	if first <= 0 || first+1 >= len(speed) {
		return nil, fmt.Errorf("roll-down start not found: no positive speed sample with neighbors on both sides")
	}
	if !(speed[first-1] < speed[first] && speed[first] < speed[first+1]) {
		return nil, fmt.Errorf("roll-down start at sample %d is not accelerating (%.2f, %.2f, %.2f)",
			first, speed[first-1], speed[first], speed[first+1])
	}
	log.Logger.Debug("roll-down start found", zap.Int("sample", first))
	return act.Slice(first-1, act.Len()), nil
}

// AlignRuns trims every run to its start of motion and re-bases the seconds
// column so the runs share a time axis from release.
func AlignRuns(runs []Run) ([]*series.Activity, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("align runs: no runs given")
	}
	if runs[0].MassDelta != 0 {
		return nil, fmt.Errorf("align runs: baseline run %q must have zero mass delta", runs[0].Name)
	}
	out := make([]*series.Activity, 0, len(runs))
	for i, run := range runs {
		trimmed, err := StartOfMotion(run.Activity)
		if err != nil {
			return nil, fmt.Errorf("run %d (%s): %w", i, run.Name, err)
		}
		if secs := trimmed.Column(series.ColSeconds); secs != nil {
			base := secs[0]
			for j := range secs {
				secs[j] -= base
			}
		}
		out = append(out, trimmed)
	}
	return out, nil
}
