package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "gooze.dev/pkg/polymut/internal/model"
)

const (
	defaultWidth  = 80
	recentOutcome = 6
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	killedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeoutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// TUI implements UI with a live Bubble Tea view while tests run. Static
// output such as tables is printed like SimpleUI.
type TUI struct {
	*SimpleUI
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), output: cmd.OutOrStdout()}
}

// Start launches the live view in test mode. Estimate mode prints statically.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if newStartConfig(options).mode != ModeTest {
		return nil
	}

	t.program = tea.NewProgram(newRunModel(terminalWidth(t.output)),
		tea.WithOutput(t.output), tea.WithInput(nil), tea.WithContext(ctx))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			slog.Warn("Live view stopped", "error", err)
		}
	}()

	return nil
}

// Close asks the live view to render its final frame and exit.
func (t *TUI) Close(context.Context) {
	if t.program != nil {
		t.program.Send(finishedMsg{})
	}
}

// Wait blocks until the live view has exited.
func (t *TUI) Wait(ctx context.Context) {
	if t.done == nil {
		return
	}

	select {
	case <-t.done:
	case <-ctx.Done():
	}

	t.program = nil
}

// DisplayConcurrencyInfo implements UI.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, info ConcurrencyInfo) {
	if !t.send(concurrencyMsg(info)) {
		t.SimpleUI.DisplayConcurrencyInfo(ctx, info)
	}
}

// DisplayUpcomingTestsInfo implements UI.
func (t *TUI) DisplayUpcomingTestsInfo(ctx context.Context, count int) {
	if !t.send(upcomingMsg(count)) {
		t.SimpleUI.DisplayUpcomingTestsInfo(ctx, count)
	}
}

// DisplayStartingTestInfo implements UI.
func (t *TUI) DisplayStartingTestInfo(ctx context.Context, mutation m.Mutation, worker int) {
	if !t.send(startedMsg{mutation: mutation, worker: worker}) {
		t.SimpleUI.DisplayStartingTestInfo(ctx, mutation, worker)
	}
}

// DisplayCompletedTestInfo implements UI.
func (t *TUI) DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, outcome m.Outcome, counts m.Counts) {
	if !t.send(completedMsg{mutation: mutation, outcome: outcome, counts: counts}) {
		t.SimpleUI.DisplayCompletedTestInfo(ctx, mutation, outcome, counts)
	}
}

func (t *TUI) send(msg tea.Msg) bool {
	if t.program == nil {
		return false
	}

	t.program.Send(msg)

	return true
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}

	return defaultWidth
}

type (
	concurrencyMsg ConcurrencyInfo
	upcomingMsg    int
	finishedMsg    struct{}
	startedMsg     struct {
		mutation m.Mutation
		worker   int
	}
	completedMsg struct {
		mutation m.Mutation
		outcome  m.Outcome
		counts   m.Counts
	}
)

// runModel renders the progress of a mutation run.
type runModel struct {
	spinner spinner.Model
	bar     progress.Model
	info    string
	total   int
	counts  m.Counts
	workers map[int]string
	recent  []string
	width   int
	done    bool
}

func newRunModel(width int) runModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = max(width-4, 10)

	return runModel{
		spinner: sp,
		bar:     bar,
		workers: map[int]string{},
		width:   width,
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case concurrencyMsg:
		rm.info = concurrencyLine(ConcurrencyInfo(msg))
	case upcomingMsg:
		rm.total = int(msg)
	case startedMsg:
		rm.workers[msg.worker] = fmt.Sprintf("%s %s", msg.mutation.Position(), msg.mutation.Operator)
	case completedMsg:
		rm.counts = msg.counts
		rm.recent = append(rm.recent, outcomeLine(msg.mutation, msg.outcome))

		if len(rm.recent) > recentOutcome {
			rm.recent = rm.recent[len(rm.recent)-recentOutcome:]
		}
	case finishedMsg:
		rm.done = true
		rm.workers = map[int]string{}

		return rm, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			rm.width = msg.Width
			rm.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if rm.done {
			return rm, nil
		}

		var cmd tea.Cmd
		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	}

	return rm, nil
}

func (rm runModel) View() string {
	var b strings.Builder

	header := "polymut: testing mutations"
	if rm.done {
		header = "polymut: done"
	} else {
		header = rm.spinner.View() + " " + header
	}

	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if rm.info != "" {
		b.WriteString(faintStyle.Render(rm.info))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(rm.bar.ViewAs(rm.percent()))
	fmt.Fprintf(&b, "  %d/%d\n", rm.counts.Total(), rm.total)

	fmt.Fprintf(&b, "%s  %s  %s  %s  score %.2f%%\n",
		killedStyle.Render(fmt.Sprintf("killed %d", rm.counts.Killed)),
		survivedStyle.Render(fmt.Sprintf("survived %d", rm.counts.Survived)),
		timeoutStyle.Render(fmt.Sprintf("timeout %d", rm.counts.Timeout)),
		errorStyle.Render(fmt.Sprintf("errors %d", rm.counts.Errors)),
		rm.counts.Score())

	if len(rm.workers) > 0 {
		b.WriteString("\n")

		ids := make([]int, 0, len(rm.workers))
		for id := range rm.workers {
			ids = append(ids, id)
		}

		sort.Ints(ids)

		for _, id := range ids {
			fmt.Fprintf(&b, "  worker %d  %s\n", id, truncate(rm.workers[id], rm.width-14))
		}
	}

	if len(rm.recent) > 0 {
		b.WriteString("\n")

		for _, line := range rm.recent {
			fmt.Fprintf(&b, "  %s\n", truncate(line, rm.width-2))
		}
	}

	return b.String()
}

func (rm runModel) percent() float64 {
	if rm.total <= 0 {
		return 0
	}

	return min(float64(rm.counts.Total())/float64(rm.total), 1)
}

func outcomeLine(mutation m.Mutation, outcome m.Outcome) string {
	label := fmt.Sprintf("%-8s", outcome.Status)

	switch outcome.Status {
	case m.Killed:
		label = killedStyle.Render(label)
	case m.Survived:
		label = survivedStyle.Render(label)
	case m.Timeout:
		label = timeoutStyle.Render(label)
	case m.Error:
		label = errorStyle.Render(label)
	}

	return fmt.Sprintf("%s %s %s", label, mutation.Position(), mutation.Variant)
}

func truncate(value string, width int) string {
	if width <= 3 || lipgloss.Width(value) <= width {
		return value
	}

	runes := []rune(value)
	if len(runes) <= width {
		return value
	}

	return string(runes[:width-3]) + "..."
}
