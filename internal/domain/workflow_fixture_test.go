package domain_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/polymut/internal/adapter"
	"gooze.dev/pkg/polymut/internal/controller"
	"gooze.dev/pkg/polymut/internal/domain"
	m "gooze.dev/pkg/polymut/internal/model"
)

// Lines of interest in examples/score/score.go.
const (
	addLine       = 5
	bigLine       = 10
	loopLine      = 16
	incrementLine = 17
)

// copyScoreFixture copies examples/score into a temp dir so runs never touch
// the checked in sources.
func copyScoreFixture(t *testing.T) string {
	t.Helper()

	src := filepath.Join("..", "..", "examples", "score")
	dst := t.TempDir()

	for _, name := range []string{"go.mod", "score.go", "score_test.go"} {
		data, err := os.ReadFile(filepath.Join(src, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, name), data, 0o644))
	}

	return dst
}

func TestWorkflow_Test_GoFixture(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test once per mutation")
	}

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			// Arrange
			dir := copyScoreFixture(t)

			original, err := os.ReadFile(filepath.Join(dir, "score.go"))
			require.NoError(t, err)

			output := &bytes.Buffer{}
			cmd := &cobra.Command{}
			cmd.SetOut(output)

			fsAdapter := adapter.NewLocalSourceFSAdapter()
			reportStore := adapter.NewReportStore()

			wf := domain.NewWorkflow(
				fsAdapter,
				adapter.NewLocalTestRunnerAdapter(),
				reportStore,
				adapter.NewDiskStateStore(),
				controller.NewSimpleUI(cmd),
				domain.NewSourceIndex(fsAdapter),
				domain.NewMutagen(adapter.NewTreeSitterAdapter(), fsAdapter, 2),
				domain.NewSelector(nil),
				domain.NewPrioritizer(nil, fsAdapter),
				domain.NewWorkspaces(fsAdapter),
			)

			reports := m.Path(filepath.Join(dir, ".polymut-reports"))
			args := domain.TestArgs{
				EstimateArgs: domain.EstimateArgs{
					Paths:   []m.Path{m.Path(dir + "/...")},
					Reports: reports,
				},
				Workers:         workers,
				Isolation:       domain.IsolationAuto,
				Command:         []string{"go", "test", "./..."},
				CompilePatterns: []*regexp.Regexp{regexp.MustCompile(`\[(build|setup) failed\]`)},
				MutationTimeout: 10 * time.Second,
				TimeoutFactor:   3,
			}

			// Act
			err = wf.Test(context.Background(), args)

			// Assert
			require.NoError(t, err, "output: %s", output.String())

			restored, err := os.ReadFile(filepath.Join(dir, "score.go"))
			require.NoError(t, err)
			assert.Equal(t, original, restored)

			report, err := reportStore.LoadReport(context.Background(), reports)
			require.NoError(t, err)
			require.Len(t, report.Outcomes, len(report.Mutations))

			byID := report.MutationByID()
			statuses := map[int][]m.Status{}

			for _, outcome := range report.Outcomes {
				mutation := byID[outcome.MutationID]
				assert.NotEqual(t, m.Error, outcome.Status, "%s: %s", mutation, outcome.Diagnostic)

				switch {
				case mutation.Location.Start.Line == addLine && mutation.Operator == m.OperatorArithmetic:
					assert.Equal(t, m.Killed, outcome.Status, "%s", mutation)
				case mutation.Location.Start.Line == bigLine:
					assert.Equal(t, m.Survived, outcome.Status, "%s", mutation)
				case mutation.Location.Start.Line == loopLine && mutation.Variant == "loop-true":
					assert.Equal(t, m.Timeout, outcome.Status, "%s", mutation)
				case mutation.Location.Start.Line == incrementLine && mutation.Operator == m.OperatorUnary:
					assert.Equal(t, m.Timeout, outcome.Status, "%s", mutation)
				}

				statuses[mutation.Location.Start.Line] = append(statuses[mutation.Location.Start.Line], outcome.Status)
			}

			assert.GreaterOrEqual(t, len(statuses[addLine]), 2)
			assert.NotEmpty(t, statuses[bigLine])
			assert.Contains(t, statuses[loopLine], m.Timeout)
			assert.Contains(t, statuses[incrementLine], m.Timeout)

			total := report.Result.Total
			assert.Equal(t, domain.Aggregate(report.Outcomes).Total, total)
			assert.GreaterOrEqual(t, total.Timeout, 2)
			assert.Zero(t, total.Errors)

			want := float64(total.Killed+total.Timeout) / float64(total.Killed+total.Timeout+total.Survived) * 100
			assert.InDelta(t, want, report.Result.Score(), 0.001)
		})
	}
}
