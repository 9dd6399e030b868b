package cli

import (
	"github.com/spf13/cobra"

	"github.com/vincentdavis/cycling-dynamics/dynamics"
	"github.com/vincentdavis/cycling-dynamics/export"
	"github.com/vincentdavis/cycling-dynamics/fitload"
)

func newSimulateCmd() *cobra.Command {
	var (
		fitPath string
		outPath string
	)
	opts := dynamics.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Estimate the power components of a ride from terrain and speed",
		Long: `Decomposes the power needed at every sample into air drag, climbing,
rolling, and acceleration watts, and estimates the total power the rider had
to produce. When the file carries a power meter signal the estimate is
compared against it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := fitload.Load(fitPath)
			if err != nil {
				return err
			}
			if err := dynamics.Simulate(act, opts); err != nil {
				return err
			}
			if err := export.WriteActivityCSV(outPath, act); err != nil {
				return err
			}
			cmd.Printf("simulated ride: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&fitPath, "fit", "", "path to input .fit file")
	cmd.Flags().StringVar(&outPath, "out", "simulated.csv", "output CSV path")
	cmd.Flags().Float64Var(&opts.RiderWeight, "rider-weight", opts.RiderWeight, "rider weight, kg")
	cmd.Flags().Float64Var(&opts.BikeWeight, "bike-weight", opts.BikeWeight, "bike weight, kg")
	cmd.Flags().Float64Var(&opts.WindSpeed, "wind-speed", opts.WindSpeed, "wind speed, m/s")
	cmd.Flags().Float64Var(&opts.WindDirection, "wind-direction", opts.WindDirection,
		"wind direction relative to travel, degrees (0 = headwind)")
	cmd.Flags().Float64Var(&opts.Temperature, "temperature", opts.Temperature,
		"air temperature in Celsius when the file has none")
	cmd.Flags().Float64Var(&opts.DragCoefficient, "drag-coefficient", opts.DragCoefficient, "drag coefficient Cd")
	cmd.Flags().Float64Var(&opts.FrontalArea, "frontal-area", opts.FrontalArea, "frontal area, m^2")
	cmd.Flags().Float64Var(&opts.RollingResistance, "rolling-resistance", opts.RollingResistance,
		"rolling resistance coefficient Crr")
	cmd.Flags().Float64Var(&opts.EfficiencyLoss, "efficiency-loss", opts.EfficiencyLoss,
		"drivetrain loss fraction")
	cmd.Flags().IntVar(&opts.Smoothing, "smoothing", opts.Smoothing,
		"centered rolling-mean window for *_smoothed columns (0 disables)")
	_ = cmd.MarkFlagRequired("fit")
	return cmd
}
