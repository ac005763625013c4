package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/polymut/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd      *cobra.Command
	upcoming int
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(context.Context) {}

// DisplayEstimation prints the per-file and per-operator mutation counts or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, mutations []m.Mutation, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimation(mutations))

	return nil
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, info ConcurrencyInfo) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s\n", concurrencyLine(info))
}

// DisplayUpcomingTestsInfo shows the number of upcoming mutations to be tested.
func (s *SimpleUI) DisplayUpcomingTestsInfo(ctx context.Context, count int) {
	if ctx.Err() != nil {
		return
	}

	s.upcoming = count
	s.printf("Upcoming mutations: %d\n", count)
}

// DisplayStartingTestInfo shows info about the mutation test starting.
func (s *SimpleUI) DisplayStartingTestInfo(ctx context.Context, mutation m.Mutation, worker int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("[%d] Starting mutation %s (%s) %s\n", worker, shortID(mutation.ID), mutation.Operator, mutation.Position())
}

// DisplayCompletedTestInfo shows info about the mutation test completion.
// Survivors are printed with their diff.
func (s *SimpleUI) DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, outcome m.Outcome, counts m.Counts) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Completed mutation %s (%s) -> %s [%d/%d]\n",
		shortID(mutation.ID), mutation.Operator, outcome.Status, counts.Total(), max(s.upcoming, counts.Total()))

	if outcome.Status == m.Survived && outcome.Diff != "" {
		s.printf("%s\n", strings.TrimRight(outcome.Diff, "\n"))
	}
}

// DisplayMutationScore prints the per-file breakdown and the final score.
func (s *SimpleUI) DisplayMutationScore(ctx context.Context, result m.MutationResult, threshold float64) {
	if ctx.Err() != nil {
		return
	}

	s.printf("\n%s", renderScoreTable(result))
	s.printf("%s\n", scoreLine(result, threshold))
}

// DisplayReport prints a saved report: surviving mutants with diffs, then the score.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writeReport(s.cmd.OutOrStdout(), report)

	return nil
}

// DisplayRecovery lists files restored from an interrupted run.
func (s *SimpleUI) DisplayRecovery(ctx context.Context, restored []m.Path) {
	if ctx.Err() != nil {
		return
	}

	if len(restored) == 0 {
		s.printf("Nothing to recover\n")
		return
	}

	for _, path := range restored {
		s.printf("Restored %s\n", path)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

type fileStat struct {
	path  string
	count int
}

func buildFileStats(mutations []m.Mutation) []fileStat {
	info := make(map[m.Path]int)

	for _, mutation := range mutations {
		info[mutation.File.ShortPath]++
	}

	statsList := make([]fileStat, 0, len(info))
	for path, count := range info {
		statsList = append(statsList, fileStat{path: string(path), count: count})
	}

	sort.Slice(statsList, func(i, j int) bool {
		return statsList[i].path < statsList[j].path
	})

	return statsList
}

func renderEstimation(mutations []m.Mutation) string {
	var buf bytes.Buffer

	statsList := buildFileStats(mutations)

	table := newTable(&buf, []string{"Path", "Mutations"}, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER)
	for _, stat := range statsList {
		table.Append([]string{stat.path, fmt.Sprintf("%d", stat.count)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(statsList)),
		fmt.Sprintf("%d", len(mutations)),
	})
	table.Render()

	perOperator := map[m.Operator]int{}
	for _, mutation := range mutations {
		perOperator[mutation.Operator]++
	}

	if len(perOperator) == 0 {
		return buf.String()
	}

	buf.WriteString("\n")

	operators := newTable(&buf, []string{"Operator", "Mutations"}, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER)

	for _, op := range m.Operators {
		if count := perOperator[op]; count > 0 {
			operators.Append([]string{op.String(), fmt.Sprintf("%d", count)})
		}
	}

	operators.Render()

	return buf.String()
}

func renderScoreTable(result m.MutationResult) string {
	var buf bytes.Buffer

	paths := make([]m.Path, 0, len(result.Files))
	for path := range result.Files {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	table := newTable(&buf, []string{"Path", "Killed", "Survived", "Timeout", "Errors", "Score"},
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT)

	for _, path := range paths {
		table.Append(countsRow(string(path), result.Files[path]))
	}

	table.SetFooter(countsRow(fmt.Sprintf("Total Files %d", len(paths)), result.Total))
	table.Render()

	return buf.String()
}

func countsRow(label string, counts m.Counts) []string {
	return []string{
		label,
		fmt.Sprintf("%d", counts.Killed),
		fmt.Sprintf("%d", counts.Survived),
		fmt.Sprintf("%d", counts.Timeout),
		fmt.Sprintf("%d", counts.Errors),
		fmt.Sprintf("%.2f%%", counts.Score()),
	}
}

func newTable(w io.Writer, header []string, alignment ...int) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment(alignment)

	return table
}

func concurrencyLine(info ConcurrencyInfo) string {
	line := fmt.Sprintf("Running with %d worker(s), isolation %s", info.Workers, info.Isolation)
	if info.ShardCount > 1 {
		line += fmt.Sprintf(" (shard %d/%d)", info.ShardIndex, info.ShardCount)
	}

	return line
}

func scoreLine(result m.MutationResult, threshold float64) string {
	line := fmt.Sprintf("Mutation score: %.2f%%", result.Score())
	if threshold <= 0 {
		return line
	}

	verdict := "PASS"
	if !result.Passed(threshold) {
		verdict = "FAIL"
	}

	return fmt.Sprintf("%s (threshold %.2f%%) %s", line, threshold, verdict)
}

// writeReport renders a saved report. Survivors come first, ordered by position.
func writeReport(w io.Writer, report m.RunReport) {
	mutations := report.MutationByID()

	survivors := make([]m.Outcome, 0)

	for _, outcome := range report.Outcomes {
		if outcome.Status == m.Survived {
			survivors = append(survivors, outcome)
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return mutations[survivors[i].MutationID].Index < mutations[survivors[j].MutationID].Index
	})

	_, _ = fmt.Fprintf(w, "Report %s (%s)\n", report.RunID, report.CreatedAt.Format("2006-01-02 15:04:05"))

	if report.Incomplete {
		_, _ = fmt.Fprintf(w, "Run was incomplete: %d of %d mutations tested\n", len(report.Outcomes), len(report.Mutations))
	}

	if len(survivors) > 0 {
		_, _ = fmt.Fprintf(w, "\nSurviving mutants (%d):\n", len(survivors))
	}

	for _, outcome := range survivors {
		mutation, ok := mutations[outcome.MutationID]
		if !ok {
			_, _ = fmt.Fprintf(w, "\n%s %s\n", shortID(outcome.MutationID), outcome.File)
			continue
		}

		_, _ = fmt.Fprintf(w, "\n%s %s %s\n", mutation.Position(), mutation.Operator, mutation.Variant)

		if outcome.Diff != "" {
			_, _ = fmt.Fprintf(w, "%s\n", strings.TrimRight(outcome.Diff, "\n"))
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s", renderScoreTable(report.Result))
	_, _ = fmt.Fprintf(w, "%s\n", scoreLine(report.Result, report.Threshold))
}
