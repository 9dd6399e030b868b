package criticalpower

import (
	"encoding/xml"
	"fmt"
	"os"
)

// The declaration Zwift expects, single quotes included.
const zwoHeader = "<?xml version='1.0' encoding='UTF-8'?>\n"

const workoutAuthor = "Vincent Davis"

type zwoSteadyState struct {
	Duration int     `xml:"Duration,attr"`
	Power    float64 `xml:"Power,attr"`
}

type zwoWorkout struct {
	Steps []zwoSteadyState `xml:"SteadyState"`
}

type zwoFile struct {
	XMLName     xml.Name   `xml:"workout_file"`
	Author      string     `xml:"author"`
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	SportType   string     `xml:"sportType"`
	Tags        string     `xml:"tags"`
	FtpOverride *int       `xml:"ftpOverride,omitempty"`
	Workout     zwoWorkout `xml:"workout"`
}

// WorkoutXML serializes a ramp-test workout to the ZWO schema: one
// SteadyState block per segment with its duration and power fraction. The
// ftpOverride element is emitted only when ftp is positive.
func WorkoutXML(segments []RampSegment, name string, ftp int) ([]byte, error) {
	file := zwoFile{
		Author:      workoutAuthor,
		Name:        fmt.Sprintf("Most Painful Ramp Test %s", name),
		Description: "A ramp test based on power profile",
		SportType:   "bike",
	}
	if ftp > 0 {
		file.FtpOverride = &ftp
	}
	for _, seg := range segments {
		file.Workout.Steps = append(file.Workout.Steps, zwoSteadyState{
			Duration: seg.Duration,
			Power:    seg.PowerFraction,
		})
	}
	body, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}
	return append([]byte(zwoHeader), append(body, '\n')...), nil
}

// WriteWorkout serializes the workout and writes it to path.
func WriteWorkout(path string, segments []RampSegment, name string, ftp int) error {
	data, err := WorkoutXML(segments, name, ftp)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write workout: %w", err)
	}
	return nil
}
