package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the terminal state of a tested mutation.
type Status int

const (
	// Killed indicates the mutation was detected by tests.
	Killed Status = iota
	// Survived indicates the mutation was not detected by tests.
	Survived
	// Timeout indicates the tests exceeded the time limit; counted as killed.
	Timeout
	// Error indicates a build failure or tooling failure; excluded from the score.
	Error
)

func (s Status) String() string {
	switch s {
	case Killed:
		return "killed"
	case Survived:
		return "survived"
	case Timeout:
		return "timeout"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ParseStatus resolves a status by name.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "killed":
		return Killed, nil
	case "survived":
		return Survived, nil
	case "timeout":
		return Timeout, nil
	case "error":
		return Error, nil
	}

	return 0, fmt.Errorf("unknown status %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = status

	return nil
}

// Outcome is the single result recorded for a scheduled mutation.
type Outcome struct {
	MutationID string        `yaml:"mutation_id"`
	File       Path          `yaml:"file"`
	Status     Status        `yaml:"status"`
	Elapsed    time.Duration `yaml:"elapsed"`
	Diagnostic string        `yaml:"diagnostic,omitempty"`
	Diff       string        `yaml:"diff,omitempty"`
}

// Counts holds the number of outcomes per status.
type Counts struct {
	Killed   int `yaml:"killed"`
	Survived int `yaml:"survived"`
	Timeout  int `yaml:"timeout"`
	Errors   int `yaml:"errors"`
}

// Record returns counts with one more outcome of the given status.
func (c Counts) Record(status Status) Counts {
	switch status {
	case Killed:
		c.Killed++
	case Survived:
		c.Survived++
	case Timeout:
		c.Timeout++
	case Error:
		c.Errors++
	}

	return c
}

// Add merges two counts.
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Killed:   c.Killed + other.Killed,
		Survived: c.Survived + other.Survived,
		Timeout:  c.Timeout + other.Timeout,
		Errors:   c.Errors + other.Errors,
	}
}

// Total returns the number of outcomes, errors included.
func (c Counts) Total() int {
	return c.Killed + c.Survived + c.Timeout + c.Errors
}

// Detected returns killed plus timed out mutations.
func (c Counts) Detected() int {
	return c.Killed + c.Timeout
}

// Scored returns the score denominator: detected plus survived.
func (c Counts) Scored() int {
	return c.Detected() + c.Survived
}

// Score returns the mutation score in percent. Errors are excluded from both
// sides; with nothing scored the score is 0.
func (c Counts) Score() float64 {
	scored := c.Scored()
	if scored == 0 {
		return 0
	}

	return float64(c.Detected()) / float64(scored) * 100
}

// MutationResult is the aggregate derived from a set of outcomes.
type MutationResult struct {
	Total Counts          `yaml:"total"`
	Files map[Path]Counts `yaml:"files"`
}

// Score returns the project-wide mutation score in percent.
func (r MutationResult) Score() float64 {
	return r.Total.Score()
}

// Passed reports whether the score reaches the threshold (in percent).
func (r MutationResult) Passed(threshold float64) bool {
	if threshold <= 0 {
		return true
	}

	return r.Score() >= threshold
}

// RunReport is the hand-off to reporting: every mutation, every outcome and
// the aggregate.
type RunReport struct {
	RunID      string         `yaml:"run_id"`
	CreatedAt  time.Time      `yaml:"created_at"`
	Root       Path           `yaml:"root"`
	Threshold  float64        `yaml:"threshold"`
	Incomplete bool           `yaml:"incomplete,omitempty"`
	Mutations  []Mutation     `yaml:"mutations"`
	Outcomes   []Outcome      `yaml:"outcomes"`
	Result     MutationResult `yaml:"result"`
}

// MutationByID indexes the report's mutations by id.
func (r RunReport) MutationByID() map[string]Mutation {
	index := make(map[string]Mutation, len(r.Mutations))
	for _, mutation := range r.Mutations {
		index[mutation.ID] = mutation
	}

	return index
}
