// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/polymut/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeTest
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

func newStartConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeEstimate}
	for _, option := range options {
		option(&config)
	}

	return config
}

// ConcurrencyInfo describes how a run spreads over workers and machines.
type ConcurrencyInfo struct {
	Workers    int
	Isolation  string
	ShardIndex int
	ShardCount int
}

// UI defines the interface for displaying discovery, progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish rendering
	DisplayEstimation(ctx context.Context, mutations []m.Mutation, err error) error
	DisplayConcurrencyInfo(ctx context.Context, info ConcurrencyInfo)
	DisplayUpcomingTestsInfo(ctx context.Context, count int)
	DisplayStartingTestInfo(ctx context.Context, mutation m.Mutation, worker int)
	DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, outcome m.Outcome, counts m.Counts)
	DisplayMutationScore(ctx context.Context, result m.MutationResult, threshold float64)
	DisplayReport(ctx context.Context, report m.RunReport) error
	DisplayRecovery(ctx context.Context, restored []m.Path)
}

// NewUI returns the live TUI for terminals and the line based SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func shortID(id string) string {
	const length = 8
	if len(id) > length {
		return id[:length]
	}

	return id
}
