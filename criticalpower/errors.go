package criticalpower

import "fmt"

// InvalidProfileError reports a power-duration profile that cannot seed a
// curve: no 1-second entry, or a negative power value.
type InvalidProfileError struct {
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return "invalid power profile: " + e.Reason
}

// ProfileTooShortError reports a profile whose longest duration does not
// cover a requested test length.
type ProfileTooShortError struct {
	MaxDuration int
	TestLength  int
}

func (e *ProfileTooShortError) Error() string {
	return fmt.Sprintf("profile ends at %ds, test length is %ds",
		e.MaxDuration, e.TestLength)
}

// MissingDurationError reports a curve that lacks (or zeroes) a duration
// needed for intensity scoring.
type MissingDurationError struct {
	Duration int
}

func (e *MissingDurationError) Error() string {
	return fmt.Sprintf("critical power curve has no usable value for %ds", e.Duration)
}

// InvalidFtpError reports a non-positive FTP reference.
type InvalidFtpError struct {
	FTP float64
}

func (e *InvalidFtpError) Error() string {
	return fmt.Sprintf("ftp must be positive, got %g", e.FTP)
}
