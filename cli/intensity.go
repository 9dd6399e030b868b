package cli

import (
	"github.com/spf13/cobra"

	"github.com/vincentdavis/cycling-dynamics/criticalpower"
	"github.com/vincentdavis/cycling-dynamics/fitload"
)

func newIntensityCmd() *cobra.Command {
	var (
		fitPath     string
		profileArg  string
		profileFile string
		horizon     int
	)
	cmd := &cobra.Command{
		Use:   "intensity",
		Short: "Score a FIT activity against a critical power curve",
		Long: `Scores an activity as a mean percent-of-critical-power across all
durations up to the horizon. Without a profile the curve is derived from the
activity itself; with one, the declared profile is interpolated and used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := fitload.Load(fitPath)
			if err != nil {
				return err
			}
			profile, err := profileFromFlags(profileArg, profileFile)
			if err != nil {
				return err
			}

			calc := criticalpower.Calculator{MaxWindow: horizon}
			var curve *criticalpower.Curve
			if profile != nil {
				curve, err = criticalpower.CurveFromProfile(profile)
			} else {
				curve, err = calc.ComputeCurve(act)
			}
			if err != nil {
				return err
			}

			score, _, err := calc.Intensity(act, curve, horizon)
			if err != nil {
				return err
			}
			cmd.Printf("percent of critical power: %.4f\n", score)
			return nil
		},
	}
	cmd.Flags().StringVar(&fitPath, "fit", "", "path to input .fit file")
	cmd.Flags().StringVar(&profileArg, "profile", "",
		"declared power profile as seconds=watts pairs, e.g. 1=1000,60=450")
	cmd.Flags().StringVar(&profileFile, "profile-file", "",
		"declared power profile as a JSON file of {\"seconds\": watts}")
	cmd.Flags().IntVar(&horizon, "horizon", criticalpower.DefaultMaxWindow,
		"longest duration to score against, in seconds")
	_ = cmd.MarkFlagRequired("fit")
	return cmd
}
