package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/hooks"
	"github.com/arthur-debert/rodeo/pkg/report"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(timeout time.Duration) *hooks.Runner {
	return hooks.New(hooks.Options{Timeout: timeout, Logger: zerolog.Nop()})
}

func TestRun_SuccessCapturesOutput(t *testing.T) {
	root := t.TempDir()
	prog := types.Program{Name: "nvim", Root: root, PostDeployCmd: `pwd; echo "$RODEO_PROGRAM $RODEO_PROGRAM_DIR"`}

	result := newRunner(0).Run(context.Background(), types.Repository{Path: "/repo"}, prog)

	require.NoError(t, result.Err)
	assert.False(t, result.Failed())
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Contains(t, result.Output, resolved)
	assert.Contains(t, result.Output, "nvim /repo/nvim")
}

func TestRun_FailureIsReported(t *testing.T) {
	prog := types.Program{Name: "zsh", Root: t.TempDir(), PostDeployCmd: "echo boom >&2; exit 3"}

	result := newRunner(0).Run(context.Background(), types.Repository{Path: "/repo"}, prog)

	require.Error(t, result.Err)
	assert.True(t, errors.IsErrorCode(result.Err, errors.ErrHookFailed))
	assert.Equal(t, "boom", result.Output)
}

func TestRun_Timeout(t *testing.T) {
	prog := types.Program{Name: "slow", Root: t.TempDir(), PostDeployCmd: "sleep 5"}

	result := newRunner(50*time.Millisecond).Run(context.Background(), types.Repository{Path: "/repo"}, prog)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "timed out")
}

func TestRun_MissingRoot(t *testing.T) {
	prog := types.Program{Name: "gone", Root: filepath.Join(t.TempDir(), "nope"), PostDeployCmd: "true"}

	result := newRunner(0).Run(context.Background(), types.Repository{Path: "/repo"}, prog)

	assert.True(t, errors.IsErrorCode(result.Err, errors.ErrHookFailed))
}

func TestRunChanged_OnlyChangedProgramsWithHooks(t *testing.T) {
	root := t.TempDir()
	marker := func(name string) string { return filepath.Join(root, name+".ran") }

	plan := &types.Plan{Programs: []types.Program{
		{Name: "linked", Root: root, PostDeployCmd: "touch linked.ran"},
		{Name: "relinked", Root: root, PostDeployCmd: "touch relinked.ran"},
		{Name: "unchanged", Root: root, PostDeployCmd: "touch unchanged.ran"},
		{Name: "conflicted", Root: root, PostDeployCmd: "touch conflicted.ran"},
		{Name: "nohook", Root: root},
	}}

	rep := report.New(false)
	rep.Add(report.Record{Index: 0, Program: "linked", Outcome: types.OutcomeLinked})
	rep.Add(report.Record{Index: 1, Program: "relinked", Outcome: types.OutcomeRelinked})
	rep.Add(report.Record{Index: 2, Program: "unchanged", Outcome: types.OutcomeAlreadyLinked})
	rep.Add(report.Record{Index: 3, Program: "conflicted", Outcome: types.OutcomeConflict})
	rep.Add(report.Record{Index: 4, Program: "nohook", Outcome: types.OutcomeLinked})

	newRunner(0).RunChanged(context.Background(), plan, rep)

	hookResults := rep.Hooks()
	require.Len(t, hookResults, 2)
	assert.Equal(t, "linked", hookResults[0].Program)
	assert.Equal(t, "relinked", hookResults[1].Program)
	assert.FileExists(t, marker("linked"))
	assert.FileExists(t, marker("relinked"))
	assert.NoFileExists(t, marker("unchanged"))
	assert.NoFileExists(t, marker("conflicted"))
}

func TestRunChanged_DryRunNeverRuns(t *testing.T) {
	root := t.TempDir()
	plan := &types.Plan{Programs: []types.Program{{Name: "a", Root: root, PostDeployCmd: "touch ran"}}}
	rep := report.New(true)
	rep.Add(report.Record{Program: "a", Outcome: types.OutcomeLinked})

	newRunner(0).RunChanged(context.Background(), plan, rep)

	assert.Empty(t, rep.Hooks())
	_, err := os.Stat(filepath.Join(root, "ran"))
	assert.True(t, os.IsNotExist(err))
}
