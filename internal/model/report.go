package model

import "time"

// Status describes what happened to a single input file.
type Status string

const (
	// StatusLowered means the file was lowered and written.
	StatusLowered Status = "lowered"
	// StatusSkipped means the output already existed and nothing was written.
	StatusSkipped Status = "skipped"
	// StatusFailed means lowering failed; Error holds the reason.
	StatusFailed Status = "failed"
)

// Stats counts the rewrites performed while lowering one unit.
type Stats struct {
	Extractions      int `yaml:"extractions"`
	NormalizedFields int `yaml:"normalized_fields"`
	HoistedFields    int `yaml:"hoisted_fields"`
	Rounds           int `yaml:"rounds"`
}

// Add returns the sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Extractions:      s.Extractions + other.Extractions,
		NormalizedFields: s.NormalizedFields + other.NormalizedFields,
		HoistedFields:    s.HoistedFields + other.HoistedFields,
		Rounds:           s.Rounds + other.Rounds,
	}
}

// LowerResult is the outcome of lowering a single unit.
type LowerResult struct {
	Text  []byte
	Stats Stats
}

// Report is the persisted outcome for one file of a run.
type Report struct {
	Source   Path          `yaml:"source"`
	Output   Path          `yaml:"output"`
	Status   Status        `yaml:"status"`
	Stats    Stats         `yaml:"stats"`
	Error    string        `yaml:"error,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// Estimate lists the work lowering a file would start with.
type Estimate struct {
	Source              Path
	Candidates          int
	UninitializedFields int
	HoistableFields     int
}
