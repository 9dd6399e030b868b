// Package plots renders standalone HTML charts for curves and matched
// segments using go-echarts.
package plots

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vincentdavis/cycling-dynamics/criticalpower"
	"github.com/vincentdavis/cycling-dynamics/series"
)

// CPCurveChart builds a duration/power line chart from one or more curves.
// Names label the series; missing names fall back to an index label.
func CPCurveChart(curves []*criticalpower.Curve, names []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Critical Power Curve",
			Subtitle: "best sustainable power by duration",
		}),
	)

	maxWindow := 0
	for _, c := range curves {
		if c.MaxWindow > maxWindow {
			maxWindow = c.MaxWindow
		}
	}
	xAxis := make([]string, 0, maxWindow)
	for s := 1; s <= maxWindow; s++ {
		xAxis = append(xAxis, strconv.Itoa(s))
	}
	line.SetXAxis(xAxis)

	for i, c := range curves {
		name := fmt.Sprintf("curve %d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		data := make([]opts.LineData, 0, maxWindow)
		for s := 1; s <= maxWindow; s++ {
			if cp, ok := c.Value(s); ok {
				data = append(data, opts.LineData{Value: cp})
			} else {
				data = append(data, opts.LineData{Value: nil})
			}
		}
		line.AddSeries(name, data)
	}
	return line
}

// RenderCPCurve writes a CP curve chart to an HTML file.
func RenderCPCurve(path string, curves []*criticalpower.Curve, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return CPCurveChart(curves, names).Render(f)
}

// SegmentComparisonChart plots one column of each aligned track against the
// re-based distance axis, one series per ride.
func SegmentComparisonChart(tracks []*series.Activity, column string) (*charts.Line, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Segment Comparison",
			Subtitle: column + " over re-based distance",
		}),
	)

	for ride, track := range tracks {
		dist := track.Column(series.ColDistance)
		vals := track.Column(column)
		if dist == nil || vals == nil {
			return nil, &series.SchemaError{Track: ride, Missing: track.Missing(series.ColDistance, column)}
		}
		data := make([]opts.LineData, 0, track.Len())
		for i := range vals {
			data = append(data, opts.LineData{Value: []interface{}{dist[i], vals[i]}})
		}
		line.AddSeries(fmt.Sprintf("ride %d", ride), data)
	}
	return line, nil
}

// RenderSegmentComparison writes a segment comparison chart to an HTML file.
func RenderSegmentComparison(path string, tracks []*series.Activity, column string) error {
	chart, err := SegmentComparisonChart(tracks, column)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return chart.Render(f)
}
