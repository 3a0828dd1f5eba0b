package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Profile is the user side of compatibility scoring: skill names, work
// history and home location. It is supplied by the caller, never persisted
// here.
type Profile struct {
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Location   string       `json:"location"`
}

// Experience is a single work-history entry. A zero End means the position
// is still held; its span is measured up to the caller-supplied "now".
type Experience struct {
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end,omitempty"`
}

// Years returns the entry's span in fractional years, clamped at zero.
func (e Experience) Years(now time.Time) float64 {
	end := e.End
	if end.IsZero() {
		end = now
	}
	if !end.After(e.Start) {
		return 0
	}
	return end.Sub(e.Start).Hours() / (24 * 365)
}

// TotalYears sums the spans of all work-history entries.
func (p *Profile) TotalYears(now time.Time) float64 {
	var total float64
	for _, e := range p.Experience {
		total += e.Years(now)
	}
	return total
}

// LoadProfile reads a profile from a JSON file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile file %q: %w", path, err)
	}
	return &profile, nil
}
