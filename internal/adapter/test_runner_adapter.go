package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/shlex"

	m "gooze.dev/pkg/polymut/internal/model"
)

const (
	// maxCapturedOutput bounds the output kept per test run; the tail is kept.
	maxCapturedOutput = 64 * 1024

	// killGracePeriod bounds how long Wait keeps reading output after a kill.
	killGracePeriod = 2 * time.Second
)

// TestRunnerAdapter runs the project's test command and classifies the result.
type TestRunnerAdapter interface {
	// RunTests returns an error only when the command could not be started;
	// failing tests, build failures and timeouts are verdicts.
	RunTests(ctx context.Context, req m.TestRequest) (m.TestRun, error)
}

// LocalTestRunnerAdapter runs test commands with os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// SplitCommand splits a command line with shell quoting rules.
func SplitCommand(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("split test command %q: %w", command, err)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("test command is empty")
	}

	return args, nil
}

// RunTests runs req.Command in req.Dir. The process runs in its own process
// group so a timeout terminates the whole tree.
func (a *LocalTestRunnerAdapter) RunTests(ctx context.Context, req m.TestRequest) (m.TestRun, error) {
	if len(req.Command) == 0 {
		return m.TestRun{}, &m.TestInvocationError{Command: req.Command, Err: errors.New("empty command")}
	}

	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	// #nosec G204 - the test command is project configuration
	cmd := exec.CommandContext(runCtx, req.Command[0], req.Command[1:]...)
	cmd.Dir = string(req.Dir)
	cmd.Env = append(os.Environ(), req.Env...)

	output := &tailBuffer{limit: maxCapturedOutput}
	cmd.Stdout = output
	cmd.Stderr = output

	setProcessGroup(cmd)

	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}
	cmd.WaitDelay = killGracePeriod

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return m.TestRun{}, &m.TestInvocationError{Command: req.Command, Err: err}
	}

	waitErr := cmd.Wait()
	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		// The test process exited cleanly but a descendant kept its output open.
		_ = killProcessGroup(cmd)
		waitErr = nil
	}

	run := m.TestRun{
		Output:   output.String(),
		Elapsed:  time.Since(start),
		ExitCode: exitCode(cmd, waitErr),
	}

	switch {
	case waitErr != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		run.Verdict = m.VerdictTimeout
	case waitErr == nil:
		run.Verdict = m.VerdictPass
	case ctx.Err() != nil:
		return run, &m.TestInvocationError{Command: req.Command, Err: ctx.Err()}
	case matchesAny(req, run.Output):
		run.Verdict = m.VerdictCompileError
	default:
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return run, &m.TestInvocationError{Command: req.Command, Err: waitErr}
		}

		run.Verdict = m.VerdictFail
	}

	return run, nil
}

func matchesAny(req m.TestRequest, output string) bool {
	for _, pattern := range req.CompilePatterns {
		if pattern.MatchString(output) {
			return true
		}
	}

	return false
}

func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}

	if err != nil {
		return -1
	}

	return 0
}

// tailBuffer keeps the last limit bytes written to it. Stdout and stderr share
// one buffer, so writes are serialised.
type tailBuffer struct {
	mu      sync.Mutex
	limit   int
	data    []byte
	dropped bool
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, p...)
	if over := len(b.data) - b.limit; over > 0 {
		b.data = append(b.data[:0], b.data[over:]...)
		b.dropped = true
	}

	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dropped {
		return "[output truncated]\n" + string(b.data)
	}

	return string(b.data)
}
