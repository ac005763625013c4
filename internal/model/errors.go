package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSources is returned when no file matches the configured paths.
	ErrNoSources = errors.New("no source files found")
	// ErrNoParsableSources is returned when every candidate file failed to parse.
	ErrNoParsableSources = errors.New("no source file could be parsed")
	// ErrProjectLocked is returned when another run holds the project lock.
	ErrProjectLocked = errors.New("another polymut run is active for this project")
	// ErrBaselineFailed is returned when the unmutated test suite does not pass.
	ErrBaselineFailed = errors.New("test suite fails without mutations")
	// ErrThresholdNotMet is returned when the score is below the threshold.
	ErrThresholdNotMet = errors.New("mutation score below threshold")
)

// DiscoveryError reports a file that could not be parsed. The file is skipped.
type DiscoveryError struct {
	Path Path
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// MutationApplyError reports a failure before the mutated content was written.
type MutationApplyError struct {
	MutationID string
	Path       Path
	Err        error
}

func (e *MutationApplyError) Error() string {
	return fmt.Sprintf("apply mutation %s to %s: %v", e.MutationID, e.Path, e.Err)
}

func (e *MutationApplyError) Unwrap() error {
	return e.Err
}

// TestInvocationError reports a test command that could not be started.
type TestInvocationError struct {
	Command []string
	Err     error
}

func (e *TestInvocationError) Error() string {
	return fmt.Sprintf("start %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *TestInvocationError) Unwrap() error {
	return e.Err
}

// RestoreError reports that original content could not be written back.
// It aborts the run.
type RestoreError struct {
	Path     Path
	BackupID string
	Err      error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore %s from backup %s: %v", e.Path, e.BackupID, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}
