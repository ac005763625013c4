package domain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/polymut/internal/adapter"
	adaptermocks "gooze.dev/pkg/polymut/internal/adapter/mocks"
	"gooze.dev/pkg/polymut/internal/domain"
	m "gooze.dev/pkg/polymut/internal/model"
)

const addSource = "package calc\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"

// addMutation writes addSource into dir and returns the + -> - mutation on it.
func addMutation(t *testing.T, dir string) m.Mutation {
	t.Helper()

	path := filepath.Join(dir, "calc.go")
	require.NoError(t, os.WriteFile(path, []byte(addSource), 0o644))

	start := strings.Index(addSource, "+")

	return m.Mutation{
		ID:    "add-minus",
		Index: 0,
		File: m.File{
			ShortPath: "calc.go",
			FullPath:  m.Path(path),
			Hash:      adapter.HashContent([]byte(addSource)),
		},
		Language:    m.LanguageGo,
		Location:    m.SourceLocation{StartByte: start, EndByte: start + 1, Start: m.Position{Line: 4, Column: 11}},
		Operator:    m.OperatorArithmetic,
		Variant:     "+ -> -",
		Original:    "+",
		Replacement: "-",
	}
}

type orchestratorFixture struct {
	dir       string
	ws        domain.Workspace
	mutation  m.Mutation
	runner    *adaptermocks.MockTestRunnerAdapter
	locks     *domain.PathLocks
	backupDir string
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	dir := t.TempDir()

	return &orchestratorFixture{
		dir:       dir,
		ws:        domain.Workspace{Root: m.Path(dir), Origin: m.Path(dir)},
		mutation:  addMutation(t, dir),
		runner:    adaptermocks.NewMockTestRunnerAdapter(t),
		locks:     domain.NewPathLocks(),
		backupDir: t.TempDir(),
	}
}

func (f *orchestratorFixture) orchestrator(backups adapter.BackupStore) domain.Orchestrator {
	if backups == nil {
		backups = adapter.NewDiskBackupStore(m.Path(f.backupDir))
	}

	return domain.NewOrchestrator(adapter.NewLocalSourceFSAdapter(), f.runner, backups, f.locks)
}

func (f *orchestratorFixture) content(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(string(f.mutation.File.FullPath))
	require.NoError(t, err)

	return string(data)
}

func TestOrchestrator_Killed(t *testing.T) {
	// Arrange
	f := newOrchestratorFixture(t)

	var duringTest string

	f.runner.EXPECT().RunTests(mock.Anything, mock.MatchedBy(func(req m.TestRequest) bool {
		return req.Dir == f.ws.Root && req.Command[0] == "go"
	})).Run(func(_ context.Context, _ m.TestRequest) {
		duringTest = f.content(t)
	}).Return(m.TestRun{Verdict: m.VerdictFail, ExitCode: 1, Output: "--- FAIL: TestAdd"}, nil)

	// Act
	outcome, err := f.orchestrator(nil).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test", "./..."}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, m.Killed, outcome.Status)
	assert.Equal(t, "add-minus", outcome.MutationID)
	assert.Equal(t, m.Path("calc.go"), outcome.File)
	assert.Empty(t, outcome.Diagnostic)
	assert.Contains(t, duringTest, "return a - b")
	assert.Equal(t, addSource, f.content(t))
	assert.True(t, f.locks.TryLock(f.mutation.File.FullPath))

	entries, err := os.ReadDir(f.backupDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOrchestrator_SurvivedCarriesDiff(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.runner.EXPECT().RunTests(mock.Anything, mock.Anything).Return(m.TestRun{Verdict: m.VerdictPass}, nil)

	outcome, err := f.orchestrator(nil).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})
	require.NoError(t, err)

	assert.Equal(t, m.Survived, outcome.Status)
	assert.Contains(t, outcome.Diff, "--- a/calc.go")
	assert.Contains(t, outcome.Diff, "-\treturn a + b")
	assert.Contains(t, outcome.Diff, "+\treturn a - b")
	assert.Equal(t, addSource, f.content(t))
}

func TestOrchestrator_TimeoutAndCompileError(t *testing.T) {
	tests := []struct {
		name    string
		verdict m.Verdict
		status  m.Status
	}{
		{name: "timeout", verdict: m.VerdictTimeout, status: m.Timeout},
		{name: "compile error", verdict: m.VerdictCompileError, status: m.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrchestratorFixture(t)
			f.runner.EXPECT().RunTests(mock.Anything, mock.Anything).Return(m.TestRun{Verdict: tt.verdict, Output: "tail of output"}, nil)

			outcome, err := f.orchestrator(nil).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})
			require.NoError(t, err)

			assert.Equal(t, tt.status, outcome.Status)
			assert.Equal(t, "tail of output", outcome.Diagnostic)
			assert.Equal(t, addSource, f.content(t))
		})
	}
}

func TestOrchestrator_InvocationError(t *testing.T) {
	f := newOrchestratorFixture(t)
	invocationErr := &m.TestInvocationError{Command: []string{"nope"}, Err: errors.New("executable file not found")}
	f.runner.EXPECT().RunTests(mock.Anything, mock.Anything).Return(m.TestRun{}, invocationErr)

	outcome, err := f.orchestrator(nil).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"nope"}})
	require.NoError(t, err)

	assert.Equal(t, m.Error, outcome.Status)
	assert.Contains(t, outcome.Diagnostic, "executable file not found")
	assert.Equal(t, addSource, f.content(t))
}

func TestOrchestrator_FileChangedSinceDiscovery(t *testing.T) {
	f := newOrchestratorFixture(t)
	edited := strings.Replace(addSource, "a + b", "b + a", 1)
	require.NoError(t, os.WriteFile(string(f.mutation.File.FullPath), []byte(edited), 0o644))

	outcome, err := f.orchestrator(nil).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})
	require.NoError(t, err)

	assert.Equal(t, m.Error, outcome.Status)
	assert.Contains(t, outcome.Diagnostic, "changed since discovery")
	assert.Equal(t, edited, f.content(t))
}

func TestOrchestrator_BackupFailureLeavesFileUntouched(t *testing.T) {
	f := newOrchestratorFixture(t)
	backups := adaptermocks.NewMockBackupStore(t)
	backups.EXPECT().Save(mock.Anything, f.mutation.File.FullPath, []byte(addSource)).Return(m.Backup{}, errors.New("disk full"))

	outcome, err := f.orchestrator(backups).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})
	require.NoError(t, err)

	assert.Equal(t, m.Error, outcome.Status)
	assert.Contains(t, outcome.Diagnostic, "disk full")
	assert.Equal(t, addSource, f.content(t))
	assert.True(t, f.locks.TryLock(f.mutation.File.FullPath))
}

func TestOrchestrator_RestoreFailureIsFatal(t *testing.T) {
	// Arrange
	f := newOrchestratorFixture(t)
	backup := m.Backup{ID: "b1", Path: f.mutation.File.FullPath}
	backups := adaptermocks.NewMockBackupStore(t)
	backups.EXPECT().Save(mock.Anything, mock.Anything, mock.Anything).Return(backup, nil)
	backups.EXPECT().Restore(mock.Anything, backup).Return(errors.New("read-only file system"))
	f.runner.EXPECT().RunTests(mock.Anything, mock.Anything).Return(m.TestRun{Verdict: m.VerdictFail}, nil)

	// Act
	_, err := f.orchestrator(backups).TestMutation(context.Background(), f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})

	// Assert
	var restoreErr *m.RestoreError
	require.ErrorAs(t, err, &restoreErr)
	assert.Equal(t, "b1", restoreErr.BackupID)
	assert.False(t, f.locks.TryLock(f.mutation.File.FullPath), "path must stay locked after a failed restore")
}

func TestOrchestrator_CanceledWhileWaitingForFile(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.True(t, f.locks.TryLock(f.mutation.File.FullPath))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orchestrator(nil).TestMutation(ctx, f.ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, addSource, f.content(t))
}

func TestOrchestrator_CopyWorkspace(t *testing.T) {
	// Arrange
	f := newOrchestratorFixture(t)
	prepared, err := domain.NewWorkspaces(adapter.NewLocalSourceFSAdapter()).
		Prepare(context.Background(), m.Path(f.dir), domain.IsolationCopy, 1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { domain.NewWorkspaces(adapter.NewLocalSourceFSAdapter()).Cleanup(prepared) })

	ws := prepared[0]
	copied := filepath.Join(string(ws.Root), "calc.go")

	var duringTest []byte

	f.runner.EXPECT().RunTests(mock.Anything, mock.MatchedBy(func(req m.TestRequest) bool {
		return req.Dir == ws.Root
	})).Run(func(_ context.Context, _ m.TestRequest) {
		duringTest, _ = os.ReadFile(copied)
	}).Return(m.TestRun{Verdict: m.VerdictFail}, nil)

	// Act
	outcome, err := f.orchestrator(nil).TestMutation(context.Background(), ws, f.mutation, m.TestRequest{Command: []string{"go", "test"}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, m.Killed, outcome.Status)
	assert.Contains(t, string(duringTest), "return a - b")
	assert.Equal(t, addSource, f.content(t), "origin is never mutated in copy mode")
}
