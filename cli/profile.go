package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vincentdavis/cycling-dynamics/criticalpower"
)

// parseProfile parses a power profile from a comma-separated list of
// seconds=watts pairs, e.g. "1=1000,5=800,1200=350".
func parseProfile(arg string) (criticalpower.Profile, error) {
	profile := make(criticalpower.Profile)
	for _, pair := range strings.Split(arg, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("profile entry %q: want seconds=watts", pair)
		}
		seconds, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("profile entry %q: %w", pair, err)
		}
		watts, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("profile entry %q: %w", pair, err)
		}
		profile[seconds] = watts
	}
	if len(profile) == 0 {
		return nil, fmt.Errorf("profile %q has no entries", arg)
	}
	return profile, nil
}

// loadProfileFile reads a {"seconds": watts} JSON object.
func loadProfileFile(path string) (criticalpower.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	raw := make(map[string]float64)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	profile := make(criticalpower.Profile, len(raw))
	for k, v := range raw {
		seconds, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("profile duration %q: %w", k, err)
		}
		profile[seconds] = v
	}
	return profile, nil
}

// profileFromFlags resolves the shared --profile/--profile-file pair.
func profileFromFlags(inline, file string) (criticalpower.Profile, error) {
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("use --profile or --profile-file, not both")
	case inline != "":
		return parseProfile(inline)
	case file != "":
		return loadProfileFile(file)
	default:
		return nil, nil
	}
}
