package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vincentdavis/cycling-dynamics/criticalpower"
	"github.com/vincentdavis/cycling-dynamics/export"
	"github.com/vincentdavis/cycling-dynamics/fitload"
	"github.com/vincentdavis/cycling-dynamics/plots"
)

func newCurveCmd() *cobra.Command {
	var (
		fitPath   string
		outDir    string
		maxWindow int
		format    string
		plot      bool
	)
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Compute the critical power curve of a FIT activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "parquet" && format != "csv" {
				return fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
			}
			act, err := fitload.Load(fitPath)
			if err != nil {
				return err
			}
			calc := criticalpower.Calculator{MaxWindow: maxWindow}
			curve, err := calc.ComputeCurve(act)
			if err != nil {
				return err
			}

			curvePath := filepath.Join(outDir, "cp_curve."+format)
			switch format {
			case "csv":
				err = export.WriteCurveCSV(curvePath, curve)
			case "parquet":
				err = export.WriteCurveParquet(curvePath, curve)
			}
			if err != nil {
				return fmt.Errorf("write curve: %w", err)
			}
			cmd.Printf("cp curve: %s\n", curvePath)

			if plot {
				plotPath := filepath.Join(outDir, "cp_curve.html")
				if err := plots.RenderCPCurve(plotPath, []*criticalpower.Curve{curve},
					[]string{filepath.Base(fitPath)}); err != nil {
					return fmt.Errorf("render curve plot: %w", err)
				}
				cmd.Printf("cp plot:  %s\n", plotPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fitPath, "fit", "", "path to input .fit file")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().IntVar(&maxWindow, "max-window", criticalpower.DefaultMaxWindow,
		"longest duration to compute, in seconds")
	cmd.Flags().StringVar(&format, "format", "parquet", "curve file format: parquet|csv")
	cmd.Flags().BoolVar(&plot, "plot", false, "also render an HTML chart")
	_ = cmd.MarkFlagRequired("fit")
	return cmd
}
