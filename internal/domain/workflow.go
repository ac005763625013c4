package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"gooze.dev/pkg/polymut/internal/adapter"
	"gooze.dev/pkg/polymut/internal/controller"
	m "gooze.dev/pkg/polymut/internal/model"
	"gooze.dev/pkg/polymut/pkg"
)

// DefaultStateDir holds backups and the run lock, relative to the project root.
const DefaultStateDir = ".polymut"

var nativeTestCommands = []struct {
	marker  string
	command []string
}{
	{marker: "go.mod", command: []string{"go", "test", "./..."}},
	{marker: "package.json", command: []string{"npm", "test", "--silent"}},
}

// EstimateArgs selects the mutations of a run.
type EstimateArgs struct {
	Paths     []m.Path
	Include   []string
	Exclude   []string
	Operators []m.Operator
	Selection m.SelectionCriteria
	// HintsFile replaces the default scheduling order with a static hints file.
	HintsFile m.Path
	// Reports and StateDir are never indexed.
	Reports  m.Path
	StateDir m.Path
}

// TestArgs contains the arguments for running mutation tests.
type TestArgs struct {
	EstimateArgs
	Workers   int
	Isolation Isolation
	// Command defaults to the project's native test command.
	Command         []string
	Env             []string
	CompilePatterns []*regexp.Regexp
	MutationTimeout time.Duration
	// TimeoutFactor scales the baseline duration into the per-mutation timeout.
	TimeoutFactor float64
	Threshold     float64
	FailFast      bool
	SkipBaseline  bool
}

// ViewArgs contains the arguments for displaying a saved report.
type ViewArgs struct {
	Reports m.Path
}

// MergeArgs contains the arguments for merging shard reports.
type MergeArgs struct {
	Reports m.Path
}

// RecoverArgs contains the arguments for restoring files left mutated.
type RecoverArgs struct {
	Paths    []m.Path
	StateDir m.Path
}

// Workflow drives the commands of the CLI.
type Workflow interface {
	// Estimate discovers and selects mutations without running tests.
	Estimate(ctx context.Context, args EstimateArgs) error
	// Test runs the selected mutations and saves a report. It returns
	// m.ErrThresholdNotMet when the score is below the threshold.
	Test(ctx context.Context, args TestArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	Recover(ctx context.Context, args RecoverArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.TestRunnerAdapter
	adapter.ReportStore
	adapter.StateStore
	controller.UI

	index       SourceIndex
	mutagen     Mutagen
	selector    Selector
	prioritizer Prioritizer
	workspaces  Workspaces
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	testAdapter adapter.TestRunnerAdapter,
	reportStore adapter.ReportStore,
	stateStore adapter.StateStore,
	ui controller.UI,
	index SourceIndex,
	mutagen Mutagen,
	selector Selector,
	prioritizer Prioritizer,
	workspaces Workspaces,
) Workflow {
	return &workflow{
		SourceFSAdapter:   fsAdapter,
		TestRunnerAdapter: testAdapter,
		ReportStore:       reportStore,
		StateStore:        stateStore,
		UI:                ui,
		index:             index,
		mutagen:           mutagen,
		selector:          selector,
		prioritizer:       prioritizer,
		workspaces:        workspaces,
	}
}

func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	defer w.Wait(ctx)
	defer w.Close(ctx)

	mutations, err := w.plan(ctx, args)
	if err != nil {
		return w.DisplayEstimation(ctx, nil, err)
	}

	return w.DisplayEstimation(ctx, mutations, nil)
}

func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	root, err := w.index.ProjectRoot(args.Paths)
	if err != nil {
		return err
	}

	stateDir := resolveStateDir(root, args.StateDir)

	lock := w.Lock(stateDir)
	if err := lock.TryLock(); err != nil {
		slog.Error("Failed to lock project", "root", root, "error", err)
		return fmt.Errorf("lock project: %w", err)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release project lock", "error", err)
		}
	}()

	backups := w.Backups(stateDir)

	restored, err := w.restorePending(ctx, backups)
	if err != nil {
		return err
	}

	if len(restored) > 0 {
		w.DisplayRecovery(ctx, restored)
	}

	mutations, err := w.plan(ctx, args.EstimateArgs)
	if err != nil {
		return err
	}

	command, err := w.testCommand(root, args.Command)
	if err != nil {
		return err
	}

	request := m.TestRequest{
		Dir:             root,
		Command:         command,
		Env:             args.Env,
		Timeout:         args.MutationTimeout,
		CompilePatterns: args.CompilePatterns,
	}

	if len(mutations) > 0 && !args.SkipBaseline {
		request.Timeout, err = w.baseline(ctx, request, args.TimeoutFactor)
		if err != nil {
			return err
		}
	}

	workers := max(args.Workers, 1)
	isolation := args.Isolation.Resolve(workers)

	prepared, err := w.workspaces.Prepare(ctx, root, isolation, workers, skipDirs(args.EstimateArgs, ".git"))
	if err != nil {
		return fmt.Errorf("prepare workspaces: %w", err)
	}

	defer w.workspaces.Cleanup(prepared)

	spill, err := pkg.NewFileSpill[m.Outcome](string(stateDir))
	if err != nil {
		return fmt.Errorf("create outcome spill: %w", err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Warn("Failed to remove outcome spill", "error", err)
		}
	}()

	if err := w.Start(ctx, controller.WithTestMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	w.DisplayConcurrencyInfo(ctx, controller.ConcurrencyInfo{
		Workers:    workers,
		Isolation:  string(isolation),
		ShardIndex: args.Selection.ShardIndex,
		ShardCount: args.Selection.ShardCount,
	})
	w.DisplayUpcomingTestsInfo(ctx, len(mutations))

	runner := NewRunner(NewOrchestrator(w.SourceFSAdapter, w.TestRunnerAdapter, backups, nil))

	result, runErr := runner.Run(ctx, mutations, prepared, RunOptions{
		Workers:   workers,
		Request:   request,
		Threshold: args.Threshold,
		FailFast:  args.FailFast,
	}, spill, w.UI)

	// Everything below runs even when ctx was canceled, so the partial
	// report is saved.
	finishCtx := context.WithoutCancel(ctx)

	w.Close(finishCtx)
	w.Wait(finishCtx)

	outcomes, err := collectOutcomes(spill)
	if err != nil {
		return errors.Join(runErr, err)
	}

	report := m.RunReport{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Root:       root,
		Threshold:  args.Threshold,
		Incomplete: result.Incomplete,
		Mutations:  mutations,
		Outcomes:   outcomes,
		Result:     result.Result,
	}

	reportsDir := args.Reports
	if args.Selection.ShardCount > 1 {
		reportsDir = adapter.ShardDir(reportsDir, args.Selection.ShardIndex)
	}

	if err := w.SaveReport(finishCtx, reportsDir, report); err != nil {
		return errors.Join(runErr, fmt.Errorf("save report: %w", err))
	}

	w.DisplayMutationScore(finishCtx, result.Result, args.Threshold)

	if runErr != nil {
		return runErr
	}

	if len(mutations) > 0 && !result.Result.Passed(args.Threshold) {
		return fmt.Errorf("%w: %.2f%% < %.2f%%", m.ErrThresholdNotMet, result.Result.Score(), args.Threshold)
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	return w.DisplayReport(ctx, report)
}

func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	dirs, err := w.ShardDirs(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("list shard reports: %w", err)
	}

	if len(dirs) == 0 {
		return fmt.Errorf("no shard reports in %s", args.Reports)
	}

	reports := make([]m.RunReport, 0, len(dirs))

	for _, dir := range dirs {
		report, err := w.LoadReport(ctx, dir)
		if err != nil {
			return fmt.Errorf("load report %s: %w", dir, err)
		}

		reports = append(reports, report)
	}

	merged := MergeReports(reports)
	merged.RunID = uuid.NewString()
	merged.CreatedAt = time.Now().UTC()

	if err := w.SaveReport(ctx, args.Reports, merged); err != nil {
		return fmt.Errorf("save merged report: %w", err)
	}

	slog.Info("Merged shard reports", "shards", len(dirs), "outcomes", len(merged.Outcomes))

	w.DisplayMutationScore(ctx, merged.Result, merged.Threshold)

	return nil
}

func (w *workflow) Recover(ctx context.Context, args RecoverArgs) error {
	root, err := w.index.ProjectRoot(args.Paths)
	if err != nil {
		return err
	}

	stateDir := resolveStateDir(root, args.StateDir)

	lock := w.Lock(stateDir)
	if err := lock.TryLock(); err != nil {
		return fmt.Errorf("lock project: %w", err)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release project lock", "error", err)
		}
	}()

	restored, err := w.restorePending(ctx, w.Backups(stateDir))
	if err != nil {
		return err
	}

	w.DisplayRecovery(ctx, restored)

	return nil
}

// plan runs the source index, discovery, selection and prioritization.
func (w *workflow) plan(ctx context.Context, args EstimateArgs) ([]m.Mutation, error) {
	if err := ValidateGlobs(append(append([]string{}, args.Include...), args.Exclude...)); err != nil {
		return nil, err
	}

	root, err := w.index.ProjectRoot(args.Paths)
	if err != nil {
		return nil, err
	}

	sources, err := w.index.Sources(ctx, root, IndexArgs{
		Paths:    args.Paths,
		Include:  args.Include,
		Exclude:  args.Exclude,
		SkipDirs: skipDirs(args),
	})
	if err != nil {
		return nil, fmt.Errorf("index sources: %w", err)
	}

	discovery, err := w.mutagen.Discover(ctx, sources, args.Operators)
	if err != nil {
		return nil, err
	}

	if discovery.Warnings != nil {
		slog.Warn("Some files were skipped during discovery", "error", discovery.Warnings)
	}

	selected, err := w.selector.Select(ctx, root, discovery.Mutations, args.Selection)
	if err != nil {
		return nil, err
	}

	slog.Info("Selected mutations", "files", discovery.Files, "discovered", len(discovery.Mutations), "selected", len(selected))

	prioritizer := w.prioritizer
	if args.HintsFile != "" {
		hints, err := adapter.LoadStaticHintProvider(args.HintsFile)
		if err != nil {
			slog.Error("Failed to load hints", "file", args.HintsFile, "error", err)
			return nil, err
		}

		prioritizer = NewPrioritizer(hints, w.SourceFSAdapter)
	}

	return prioritizer.Prioritize(ctx, selected), nil
}

// testCommand returns command, or the native test command of the project
// when it is empty.
func (w *workflow) testCommand(root m.Path, command []string) ([]string, error) {
	if len(command) > 0 {
		return command, nil
	}

	for _, native := range nativeTestCommands {
		if _, err := w.FileInfo(m.Path(filepath.Join(string(root), native.marker))); err == nil {
			return native.command, nil
		}
	}

	return nil, fmt.Errorf("no test command configured and no go.mod or package.json in %s", root)
}

// baseline runs the test command on the pristine project and returns the
// per-mutation timeout derived from its duration.
func (w *workflow) baseline(ctx context.Context, request m.TestRequest, factor float64) (time.Duration, error) {
	run, err := w.RunTests(ctx, request)
	if err != nil {
		slog.Error("Failed to run baseline tests", "error", err)
		return 0, fmt.Errorf("baseline: %w", err)
	}

	if run.Verdict != m.VerdictPass {
		slog.Error("Baseline tests failed", "verdict", run.Verdict, "exit_code", run.ExitCode)
		return 0, fmt.Errorf("%w (%s, exit code %d)", m.ErrBaselineFailed, run.Verdict, run.ExitCode)
	}

	timeout := request.Timeout
	if scaled := time.Duration(float64(run.Elapsed) * factor); scaled > timeout {
		timeout = scaled
	}

	slog.Info("Baseline passed", "elapsed", run.Elapsed, "mutation_timeout", timeout)

	return timeout, nil
}

// restorePending puts back files an interrupted run left mutated. Entries
// whose directory no longer exists are discarded.
func (w *workflow) restorePending(ctx context.Context, backups adapter.BackupStore) ([]m.Path, error) {
	pending, err := backups.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending backups: %w", err)
	}

	var restored []m.Path

	for _, backup := range pending {
		if _, err := w.FileInfo(m.Path(filepath.Dir(string(backup.Path)))); err != nil {
			slog.Warn("Discarding backup of a removed directory", "path", backup.Path, "backup", backup.ID)

			if err := backups.Discard(ctx, backup); err != nil {
				return restored, fmt.Errorf("discard backup %s: %w", backup.ID, err)
			}

			continue
		}

		if err := backups.Restore(ctx, backup); err != nil {
			slog.Error("Failed to recover file", "path", backup.Path, "backup", backup.ID, "error", err)
			return restored, &m.RestoreError{Path: backup.Path, BackupID: backup.ID, Err: err}
		}

		slog.Info("Recovered file", "path", backup.Path, "backup", backup.ID)
		restored = append(restored, backup.Path)
	}

	return restored, nil
}

// MergeReports folds shard reports into one report by re-aggregating their
// outcomes. Mutations are deduplicated by id and ordered by discovery index.
func MergeReports(reports []m.RunReport) m.RunReport {
	merged := m.RunReport{}
	seen := map[string]bool{}

	for _, report := range reports {
		if merged.Root == "" {
			merged.Root = report.Root
		}

		merged.Threshold = max(merged.Threshold, report.Threshold)
		merged.Incomplete = merged.Incomplete || report.Incomplete
		merged.Outcomes = append(merged.Outcomes, report.Outcomes...)

		for _, mutation := range report.Mutations {
			if seen[mutation.ID] {
				continue
			}

			seen[mutation.ID] = true
			merged.Mutations = append(merged.Mutations, mutation)
		}
	}

	sort.SliceStable(merged.Mutations, func(i, j int) bool {
		return merged.Mutations[i].Index < merged.Mutations[j].Index
	})

	merged.Result = Aggregate(merged.Outcomes)

	return merged
}

func collectOutcomes(spill pkg.FileSpill[m.Outcome]) ([]m.Outcome, error) {
	outcomes := make([]m.Outcome, 0, spill.Len())

	err := spill.Range(func(_ uint64, outcome m.Outcome) error {
		outcomes = append(outcomes, outcome)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read outcomes: %w", err)
	}

	return outcomes, nil
}

func resolveStateDir(root, stateDir m.Path) m.Path {
	if stateDir == "" {
		stateDir = DefaultStateDir
	}

	if filepath.IsAbs(string(stateDir)) {
		return stateDir
	}

	return m.Path(filepath.Join(string(root), string(stateDir)))
}

// skipDirs names the directories polymut writes to, so they are neither
// indexed nor copied into workspaces.
func skipDirs(args EstimateArgs, extra ...string) []string {
	dirs := append([]string{}, extra...)

	for _, dir := range []m.Path{args.Reports, args.StateDir} {
		if dir == "" {
			continue
		}

		dirs = append(dirs, filepath.Base(string(dir)))
	}

	if args.StateDir == "" {
		dirs = append(dirs, DefaultStateDir)
	}

	return dirs
}
