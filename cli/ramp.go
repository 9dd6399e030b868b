package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vincentdavis/cycling-dynamics/criticalpower"
)

func newRampCmd() *cobra.Command {
	var (
		profileArg  string
		profileFile string
		outPath     string
		name        string
		segmentTime int
		testLength  int
		ftp         int
	)
	cmd := &cobra.Command{
		Use:   "ramp",
		Short: "Synthesize a ramp-test workout from a power profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := profileFromFlags(profileArg, profileFile)
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("a profile is required: use --profile or --profile-file")
			}

			segments, err := criticalpower.BuildRampTest(profile, criticalpower.RampOptions{
				SegmentTime: segmentTime,
				TestLength:  testLength,
				FTP:         float64(ftp),
			})
			if err != nil {
				return err
			}
			if outPath == "" {
				xml, err := criticalpower.WorkoutXML(segments, name, ftp)
				if err != nil {
					return err
				}
				cmd.Print(string(xml))
				return nil
			}
			if err := criticalpower.WriteWorkout(outPath, segments, name, ftp); err != nil {
				return err
			}
			cmd.Printf("workout: %s (%d segments)\n", outPath, len(segments))
			return nil
		},
	}
	cmd.Flags().StringVar(&profileArg, "profile", "",
		"power profile as seconds=watts pairs, e.g. 1=1000,60=450,1200=350")
	cmd.Flags().StringVar(&profileFile, "profile-file", "",
		"power profile as a JSON file of {\"seconds\": watts}")
	cmd.Flags().StringVar(&outPath, "out", "", "output .zwo path (stdout when empty)")
	cmd.Flags().StringVar(&name, "name", "", "workout name suffix")
	cmd.Flags().IntVar(&segmentTime, "segment-time", 30, "bin width after the initial ramp, in seconds")
	cmd.Flags().IntVar(&testLength, "test-length", criticalpower.DefaultMaxWindow, "test length in seconds")
	cmd.Flags().IntVar(&ftp, "ftp", 0, "FTP reference for power fractions")
	return cmd
}
