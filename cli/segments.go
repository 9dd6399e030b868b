package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vincentdavis/cycling-dynamics/export"
	"github.com/vincentdavis/cycling-dynamics/fitload"
	"github.com/vincentdavis/cycling-dynamics/plots"
	"github.com/vincentdavis/cycling-dynamics/segments"
	"github.com/vincentdavis/cycling-dynamics/series"
)

func newSegmentsCmd() *cobra.Command {
	var (
		fitPaths      []string
		outDir        string
		startDistance float64
		length        float64
		maxMatch      float64
		format        string
		plotColumn    string
	)
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Align a segment across multiple FIT activities",
		Long: `Extracts a common stretch from several rides. The first --fit file is
the control track: the segment is located by distance along it, and every
other track is matched to the control's start and end points by GPS
proximity. All outputs share re-based distance and seconds axes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "parquet" && format != "csv" {
				return fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
			}
			tracks := make([]*series.Activity, 0, len(fitPaths))
			for _, path := range fitPaths {
				track, err := fitload.Load(path)
				if err != nil {
					return fmt.Errorf("load %s: %w", path, err)
				}
				tracks = append(tracks, track)
			}

			matched, err := segments.Match(tracks, segments.Options{
				StartDistance:    startDistance,
				Length:           length,
				MaxMatchDistance: maxMatch,
			})
			if err != nil {
				return err
			}

			tracksPath := filepath.Join(outDir, "segment_tracks."+format)
			switch format {
			case "csv":
				err = export.WriteTracksCSV(tracksPath, matched)
			case "parquet":
				err = export.WriteTracksParquet(tracksPath, matched)
			}
			if err != nil {
				return fmt.Errorf("write tracks: %w", err)
			}
			cmd.Printf("aligned tracks: %s\n", tracksPath)

			if plotColumn != "" {
				plotPath := filepath.Join(outDir, "segment_comparison.html")
				if err := plots.RenderSegmentComparison(plotPath, matched, plotColumn); err != nil {
					return fmt.Errorf("render comparison plot: %w", err)
				}
				cmd.Printf("comparison:     %s\n", plotPath)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&fitPaths, "fit", nil,
		"path to a .fit file; repeat per track, first is the control")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().Float64Var(&startDistance, "start", 0, "segment start distance along the control track, meters")
	cmd.Flags().Float64Var(&length, "length", 0, "segment length, meters")
	cmd.Flags().Float64Var(&maxMatch, "max-match-distance", 0,
		"reject tracks whose nearest match is farther than this many meters (0 = no check)")
	cmd.Flags().StringVar(&format, "format", "parquet", "output format: parquet|csv")
	cmd.Flags().StringVar(&plotColumn, "plot", "", "also render an HTML comparison of this column (e.g. power)")
	_ = cmd.MarkFlagRequired("fit")
	return cmd
}
