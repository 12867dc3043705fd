package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/rodeo/pkg/config"
	"github.com/arthur-debert/rodeo/pkg/core"
	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/filesystem"
	"github.com/arthur-debert/rodeo/pkg/testutil"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	repo string
	home string
	cfg  *config.Config
}

// setup builds a repository with nvim/init.vim and git/.gitconfig and a
// configuration declaring both programs under a temporary home
func setup(t *testing.T) *env {
	t.Helper()

	base := t.TempDir()
	repo := testutil.CreateDir(t, base, "dotfiles")
	home := testutil.CreateDir(t, base, "home")
	t.Setenv("HOME", home)

	testutil.CreateFile(t, repo, "nvim/init.vim", "set number")
	testutil.CreateFile(t, repo, "git/.gitconfig", "[user]")

	cfg := &config.Config{
		DotfilesDirectory: repo,
		Programs: []config.ProgramConfig{
			{Name: "nvim", Root: ".config/nvim", Paths: []string{"init.vim"}},
			{Name: "git", Root: "~", Paths: []string{".gitconfig"}},
		},
		Settings: config.Settings{Jobs: 1, HookTimeout: 10 * time.Second, Shell: "sh"},
		Path:     filepath.Join(base, "rodeo.toml"),
	}
	return &env{repo: repo, home: home, cfg: cfg}
}

func TestRun_LinksEverything(t *testing.T) {
	e := setup(t)

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)

	assert.True(t, result.Report.Success())
	assert.Equal(t, 2, result.Report.Count(types.OutcomeLinked))
	testutil.AssertSymlinkTo(t, filepath.Join(e.home, ".config/nvim/init.vim"), filepath.Join(e.repo, "nvim/init.vim"))
	testutil.AssertSymlinkTo(t, filepath.Join(e.home, ".gitconfig"), filepath.Join(e.repo, "git/.gitconfig"))
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	e := setup(t)

	_, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Report.Count(types.OutcomeAlreadyLinked))
	assert.Empty(t, result.Report.ChangedPrograms())
}

func TestRun_DryRunChangesNothing(t *testing.T) {
	e := setup(t)

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg, DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.Report.DryRun)
	assert.Equal(t, 2, result.Report.Count(types.OutcomeLinked))
	testutil.AssertNotExist(t, filepath.Join(e.home, ".gitconfig"))
	testutil.AssertNotExist(t, filepath.Join(e.home, ".config"))
}

func TestRun_SelectsPrograms(t *testing.T) {
	e := setup(t)

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg, Programs: []string{"git"}})
	require.NoError(t, err)

	require.Len(t, result.Plan.Tasks, 1)
	assert.Equal(t, "git", result.Plan.Tasks[0].Program)
	testutil.AssertNotExist(t, filepath.Join(e.home, ".config"))
}

func TestRun_UnknownProgram(t *testing.T) {
	e := setup(t)

	_, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg, Programs: []string{"emacs"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestRun_MissingRepositoryAbortsBeforePlanning(t *testing.T) {
	e := setup(t)
	e.cfg.DotfilesDirectory = filepath.Join(e.home, "nowhere")

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoNotFound))
}

func TestRun_ConflictIsReportedNotReturned(t *testing.T) {
	e := setup(t)
	testutil.CreateFile(t, e.home, ".gitconfig", "mine")

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)

	assert.False(t, result.Report.Success())
	require.Len(t, result.Report.Problems(), 1)
	assert.Equal(t, types.OutcomeConflict, result.Report.Problems()[0].Outcome)
	testutil.AssertRegularFile(t, filepath.Join(e.home, ".gitconfig"), "mine")
}

func TestRun_EmptyPathFailsOnlyItsTask(t *testing.T) {
	e := setup(t)
	e.cfg.Programs[0].Paths = []string{"init.vim", ""}

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)

	records := result.Report.Records()
	require.Len(t, records, 3)

	tests := []struct {
		path    string
		outcome types.Outcome
		code    errors.ErrorCode
	}{
		{"init.vim", types.OutcomeLinked, ""},
		{"", types.OutcomeError, errors.ErrInvalidPath},
		{".gitconfig", types.OutcomeLinked, ""},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.path, records[i].Path, "record %d", i)
		assert.Equal(t, tt.outcome, records[i].Outcome, "record %d", i)
		assert.Equal(t, tt.code, records[i].ErrorCode(), "record %d", i)
	}

	assert.False(t, result.Report.Success())
	testutil.AssertSymlinkTo(t, filepath.Join(e.home, ".config/nvim/init.vim"), filepath.Join(e.repo, "nvim/init.vim"))
}

func TestRun_ParallelJobs(t *testing.T) {
	e := setup(t)

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg, Jobs: 4})
	require.NoError(t, err)

	records := result.Report.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "nvim", records[0].Program)
	assert.Equal(t, "git", records[1].Program)
}

func TestRun_HooksRunForChangedPrograms(t *testing.T) {
	e := setup(t)
	e.cfg.Programs[1].PostDeployCmd = "touch hook-ran"

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)

	require.Len(t, result.Report.Hooks(), 1)
	assert.False(t, result.Report.Hooks()[0].Failed())
	_, statErr := os.Stat(filepath.Join(e.home, "hook-ran"))
	assert.NoError(t, statErr)

	// Nothing changes on the second run so the hook stays quiet
	result, err = core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)
	assert.Empty(t, result.Report.Hooks())
}

func TestRun_NoHooks(t *testing.T) {
	e := setup(t)
	e.cfg.Programs[1].PostDeployCmd = "touch hook-ran"

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg, NoHooks: true})
	require.NoError(t, err)

	assert.Empty(t, result.Report.Hooks())
	testutil.AssertNotExist(t, filepath.Join(e.home, "hook-ran"))
}

func TestRun_FailedHookFailsTheRun(t *testing.T) {
	e := setup(t)
	e.cfg.Programs[1].PostDeployCmd = "exit 3"

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg})
	require.NoError(t, err)

	assert.False(t, result.Report.Success())
	assert.Len(t, result.Report.FailedHooks(), 1)
	// Links stay in place
	testutil.AssertSymlinkTo(t, filepath.Join(e.home, ".gitconfig"), filepath.Join(e.repo, "git/.gitconfig"))
}

func TestRun_Cancelled(t *testing.T) {
	e := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := core.Run(ctx, core.RunOptions{Config: e.cfg})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCancelled))
	testutil.AssertNotExist(t, filepath.Join(e.home, ".gitconfig"))
}

func TestRun_MemoryFS(t *testing.T) {
	e := setup(t)
	e.cfg.DotfilesDirectory = "/repo"
	e.cfg.Programs = []config.ProgramConfig{{Name: "nvim", Root: "/home/u/.config/nvim", Paths: []string{"init.vim"}}}

	mfs := testutil.NewMemoryFS()
	require.NoError(t, mfs.WriteFile("/repo/nvim/init.vim", []byte("x"), 0644))

	result, err := core.Run(context.Background(), core.RunOptions{Config: e.cfg, FileSystem: mfs})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Count(types.OutcomeLinked))

	dest, err := mfs.Readlink("/home/u/.config/nvim/init.vim")
	require.NoError(t, err)
	assert.Equal(t, "/repo/nvim/init.vim", dest)
}

func TestRun_AferoFS(t *testing.T) {
	e := setup(t)

	result, err := core.Run(context.Background(), core.RunOptions{
		Config:     e.cfg,
		FileSystem: filesystem.NewAfero(afero.NewOsFs()),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Report.Count(types.OutcomeLinked))
	testutil.AssertSymlinkTo(t, filepath.Join(e.home, ".gitconfig"), filepath.Join(e.repo, "git/.gitconfig"))
}

func TestRun_SynthFS(t *testing.T) {
	e := setup(t)
	testutil.CreateFile(t, e.home, ".gitconfig", "mine")

	result, err := core.Run(context.Background(), core.RunOptions{
		Config:     e.cfg,
		FileSystem: filesystem.NewSynthfs(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Count(types.OutcomeLinked))
	assert.Equal(t, 1, result.Report.Count(types.OutcomeConflict))
	testutil.AssertSymlinkTo(t, filepath.Join(e.home, ".config/nvim/init.vim"), filepath.Join(e.repo, "nvim/init.vim"))
	testutil.AssertRegularFile(t, filepath.Join(e.home, ".gitconfig"), "mine")
}

func TestRun_NilConfig(t *testing.T) {
	_, err := core.Run(context.Background(), core.RunOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}
