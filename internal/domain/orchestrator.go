package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"gooze.dev/pkg/polymut/internal/adapter"
	m "gooze.dev/pkg/polymut/internal/model"
)

// Orchestrator applies one mutation, runs the tests and restores the file.
type Orchestrator interface {
	// TestMutation returns the mutation's outcome. Failures before the tests
	// ran become Error outcomes. The error is non-nil only when the run must
	// stop: a *m.RestoreError, or ctx ending while waiting for the file.
	TestMutation(ctx context.Context, ws Workspace, mutation m.Mutation, request m.TestRequest) (m.Outcome, error)
}

type orchestrator struct {
	adapter.SourceFSAdapter
	adapter.TestRunnerAdapter
	adapter.BackupStore
	locks *PathLocks
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter, backups adapter.BackupStore, locks *PathLocks) Orchestrator {
	if locks == nil {
		locks = NewPathLocks()
	}

	return &orchestrator{
		SourceFSAdapter:   fsAdapter,
		TestRunnerAdapter: testAdapter,
		BackupStore:       backups,
		locks:             locks,
	}
}

func (to *orchestrator) TestMutation(ctx context.Context, ws Workspace, mutation m.Mutation, request m.TestRequest) (outcome m.Outcome, err error) {
	start := time.Now()
	outcome = m.Outcome{MutationID: mutation.ID, File: mutation.File.ShortPath}

	path, err := ws.Locate(mutation.File.FullPath)
	if err != nil {
		return to.failed(outcome, start, &m.MutationApplyError{MutationID: mutation.ID, Path: mutation.File.FullPath, Err: err}), nil
	}

	if err := to.locks.Lock(ctx, path); err != nil {
		return m.Outcome{}, err
	}

	held := true

	defer func() {
		if held {
			to.locks.Unlock(path)
		}
	}()

	// The mutation is committed from here on; tests and restore outlive ctx.
	workCtx := context.WithoutCancel(ctx)

	original, err := to.ReadFile(path)
	if err != nil {
		return to.failed(outcome, start, &m.MutationApplyError{MutationID: mutation.ID, Path: path, Err: err}), nil
	}

	if adapter.HashContent(original) != mutation.File.Hash {
		applyErr := &m.MutationApplyError{MutationID: mutation.ID, Path: path, Err: errors.New("file changed since discovery")}
		return to.failed(outcome, start, applyErr), nil
	}

	mutated, err := mutation.Apply(original)
	if err != nil {
		return to.failed(outcome, start, &m.MutationApplyError{MutationID: mutation.ID, Path: path, Err: err}), nil
	}

	backup, err := to.Save(workCtx, path, original)
	if err != nil {
		slog.Error("Failed to back up file", "path", path, "mutation", mutation.ID, "error", err)
		return to.failed(outcome, start, &m.MutationApplyError{MutationID: mutation.ID, Path: path, Err: fmt.Errorf("backup: %w", err)}), nil
	}

	defer func() {
		if restoreErr := to.Restore(workCtx, backup); restoreErr != nil {
			slog.Error("Failed to restore file", "path", path, "backup", backup.ID, "error", restoreErr)

			held = false
			outcome = m.Outcome{}
			err = &m.RestoreError{Path: path, BackupID: backup.ID, Err: restoreErr}
		}
	}()

	if err := to.WriteFileAtomic(path, mutated); err != nil {
		return to.failed(outcome, start, &m.MutationApplyError{MutationID: mutation.ID, Path: path, Err: err}), nil
	}

	request.Dir = ws.Root

	run, err := to.RunTests(workCtx, request)
	if err != nil {
		slog.Warn("Test command failed to run", "mutation", mutation.ID, "error", err)

		outcome = to.failed(outcome, start, err)
		outcome.Diagnostic = joinDiagnostic(err.Error(), run.Output)

		return outcome, nil
	}

	outcome.Status = run.Verdict.Status()
	outcome.Elapsed = time.Since(start)

	switch outcome.Status {
	case m.Error, m.Timeout:
		outcome.Diagnostic = run.Output
	case m.Survived:
		outcome.Diff = unifiedDiff(mutation, original, mutated)
	}

	slog.Debug("Tested mutation", "mutation", mutation.ID, "position", mutation.Position(), "status", outcome.Status, "elapsed", outcome.Elapsed)

	return outcome, nil
}

func (to *orchestrator) failed(outcome m.Outcome, start time.Time, err error) m.Outcome {
	slog.Warn("Mutation not tested", "mutation", outcome.MutationID, "error", err)

	outcome.Status = m.Error
	outcome.Elapsed = time.Since(start)
	outcome.Diagnostic = err.Error()

	return outcome
}

func joinDiagnostic(message, output string) string {
	if output == "" {
		return message
	}

	return message + "\n" + output
}

// unifiedDiff renders the mutated lines with one line of context.
func unifiedDiff(mutation m.Mutation, original, mutated []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: "a/" + string(mutation.File.ShortPath),
		ToFile:   "b/" + string(mutation.File.ShortPath),
		Context:  1,
	})
	if err != nil {
		slog.Debug("Failed to render diff", "mutation", mutation.ID, "error", err)
		return ""
	}

	return diff
}
