package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	m "gooze.dev/pkg/polymut/internal/model"
	"gooze.dev/pkg/polymut/pkg"
)

// Progress receives runner events. All calls come from one goroutine.
type Progress interface {
	DisplayStartingTestInfo(ctx context.Context, mutation m.Mutation, worker int)
	DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, outcome m.Outcome, counts m.Counts)
}

// RunOptions configures one execution of the worker pool.
type RunOptions struct {
	Workers int
	// Request is the test command template; Dir is set per workspace.
	Request m.TestRequest
	// Threshold and FailFast stop dequeuing once the threshold is unreachable.
	Threshold float64
	FailFast  bool
}

// RunResult summarizes what the pool recorded.
type RunResult struct {
	Result m.MutationResult
	Tested int
	// Incomplete is set when some mutations never got an outcome.
	Incomplete bool
	// FailedFast is set when dequeuing stopped because the threshold became unreachable.
	FailedFast bool
}

// Runner tests mutations concurrently and records one outcome per dequeued
// mutation.
type Runner interface {
	// Run dequeues mutations in order. Canceling ctx stops dequeuing while
	// in-flight mutations finish and restore; the result then covers what
	// was recorded and the error wraps ctx.Err(). A *m.RestoreError aborts
	// the run.
	Run(ctx context.Context, mutations []m.Mutation, workspaces []Workspace, opts RunOptions, sink pkg.FileSpill[m.Outcome], progress Progress) (RunResult, error)
}

type runner struct {
	Orchestrator
}

// NewRunner creates a Runner on top of an Orchestrator.
func NewRunner(orchestrator Orchestrator) Runner {
	return &runner{Orchestrator: orchestrator}
}

type runEvent struct {
	mutation m.Mutation
	outcome  m.Outcome
	worker   int
	started  bool
}

func (r *runner) Run(ctx context.Context, mutations []m.Mutation, workspaces []Workspace, opts RunOptions, sink pkg.FileSpill[m.Outcome], progress Progress) (RunResult, error) {
	if len(workspaces) == 0 {
		return RunResult{}, errors.New("no workspace to run mutations in")
	}

	if progress == nil {
		progress = noProgress{}
	}

	workers := max(opts.Workers, 1)

	slog.Info("Starting mutation run", "mutations", len(mutations), "workers", workers, "workspaces", len(workspaces))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	// abortCtx ends only when a worker hits a fatal error.
	group, abortCtx := errgroup.WithContext(context.WithoutCancel(ctx))

	queue := make(chan m.Mutation)
	events := make(chan runEvent)

	group.Go(func() error {
		defer close(queue)

		for _, mutation := range mutations {
			select {
			case queue <- mutation:
			case <-runCtx.Done():
				return nil
			case <-abortCtx.Done():
				return nil
			}
		}

		return nil
	})

	var active sync.WaitGroup

	for id := range workers {
		ws := workspaces[id%len(workspaces)]

		active.Add(1)
		group.Go(func() error {
			defer active.Done()

			for mutation := range queue {
				// A mutation received after a stop request is dropped untested.
				if abortCtx.Err() != nil || runCtx.Err() != nil {
					return nil
				}

				events <- runEvent{mutation: mutation, worker: id, started: true}

				outcome, err := r.TestMutation(abortCtx, ws, mutation, opts.Request)
				if err != nil {
					return err
				}

				events <- runEvent{mutation: mutation, outcome: outcome, worker: id}
			}

			return nil
		})
	}

	go func() {
		active.Wait()
		close(events)
	}()

	result := RunResult{}
	counts := m.Counts{}
	displayCtx := context.WithoutCancel(ctx)

	var sinkErr error

	for event := range events {
		if event.started {
			progress.DisplayStartingTestInfo(displayCtx, event.mutation, event.worker)
			continue
		}

		if sinkErr == nil {
			if err := sink.Append(event.outcome); err != nil {
				slog.Error("Failed to record outcome", "mutation", event.mutation.ID, "error", err)
				sinkErr = err

				stop()
			}
		}

		result.Tested++
		counts = counts.Record(event.outcome.Status)
		progress.DisplayCompletedTestInfo(displayCtx, event.mutation, event.outcome, counts)

		if opts.FailFast && !result.FailedFast && unreachable(counts, len(mutations)-result.Tested, opts.Threshold) {
			slog.Info("Threshold unreachable, stopping early", "threshold", opts.Threshold, "tested", result.Tested)

			result.FailedFast = true

			stop()
		}
	}

	runErr := group.Wait()
	result.Incomplete = result.Tested < len(mutations)

	aggregated, err := AggregateSpill(sink)
	if err != nil {
		slog.Error("Failed to aggregate outcomes", "error", err)
		return result, fmt.Errorf("aggregate outcomes: %w", err)
	}

	result.Result = aggregated

	switch {
	case runErr != nil:
		slog.Error("Mutation run aborted", "error", runErr)
		return result, fmt.Errorf("mutation run aborted: %w", runErr)
	case sinkErr != nil:
		return result, fmt.Errorf("record outcome: %w", sinkErr)
	case ctx.Err() != nil && result.Incomplete:
		slog.Warn("Mutation run interrupted", "tested", result.Tested, "total", len(mutations))
		return result, fmt.Errorf("mutation run interrupted: %w", ctx.Err())
	}

	return result, nil
}

// unreachable reports whether threshold cannot be met even if every remaining
// mutation is killed.
func unreachable(counts m.Counts, remaining int, threshold float64) bool {
	if threshold <= 0 || remaining <= 0 {
		return false
	}

	best := counts.Add(m.Counts{Killed: remaining})

	return best.Score() < threshold
}

type noProgress struct{}

func (noProgress) DisplayStartingTestInfo(context.Context, m.Mutation, int) {}

func (noProgress) DisplayCompletedTestInfo(context.Context, m.Mutation, m.Outcome, m.Counts) {}
