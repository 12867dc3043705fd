package planner_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/filesystem"
	"github.com/arthur-debert/rodeo/pkg/planner"
	"github.com/arthur-debert/rodeo/pkg/testutil"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	repoDir  = "/repo"
	nvimRoot = "/home/u/.config/nvim"
	target   = nvimRoot + "/init.vim"
	source   = repoDir + "/nvim/init.vim"
)

var nvim = types.Program{Name: "nvim", Root: nvimRoot, Paths: []string{"init.vim"}}

func newPlanner(fsys types.FS) *planner.Planner {
	return planner.New(planner.Options{FS: fsys, Logger: zerolog.Nop()})
}

func seedRepo(t *testing.T) *testutil.MemoryFS {
	t.Helper()
	mfs := testutil.NewMemoryFS()
	require.NoError(t, mfs.WriteFile(source, []byte("set number"), 0644))
	return mfs
}

func TestPlan_Classification(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, mfs *testutil.MemoryFS)
		wantState   types.LinkState
		wantBlocked bool
		wantDest    string
	}{
		{
			name: "missing_target_parent_exists",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))
			},
			wantState: types.StateMissing,
		},
		{
			name: "correct_absolute_link",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))
				require.NoError(t, mfs.Symlink(source, target))
			},
			wantState: types.StateCorrectLink,
			wantDest:  source,
		},
		{
			name: "correct_relative_link",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))
				require.NoError(t, mfs.Symlink("../../../../repo/nvim/init.vim", target))
			},
			wantState: types.StateCorrectLink,
			wantDest:  "../../../../repo/nvim/init.vim",
		},
		{
			name: "wrong_link",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))
				require.NoError(t, mfs.Symlink("/old/init.vim", target))
			},
			wantState: types.StateWrongLink,
			wantDest:  "/old/init.vim",
		},
		{
			name: "regular_file",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.WriteFile(target, []byte("mine"), 0644))
			},
			wantState: types.StateRegularFile,
		},
		{
			name: "directory_at_target",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll(target, 0755))
			},
			wantState: types.StateRegularFile,
		},
		{
			name: "parent_missing",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll("/home/u", 0755))
			},
			wantState: types.StateUnreachable,
		},
		{
			name: "parent_is_file",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.WriteFile(nvimRoot, nil, 0644))
			},
			wantState:   types.StateUnreachable,
			wantBlocked: true,
		},
		{
			name: "ancestor_is_file",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.WriteFile("/home/u/.config", nil, 0644))
			},
			wantState:   types.StateUnreachable,
			wantBlocked: true,
		},
		{
			name: "target_permission_denied",
			setup: func(t *testing.T, mfs *testutil.MemoryFS) {
				require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))
				mfs.WithError(testutil.OpLstat, target, &fs.PathError{Op: "lstat", Path: target, Err: fs.ErrPermission})
			},
			wantState:   types.StateUnreachable,
			wantBlocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := seedRepo(t)
			tt.setup(t, mfs)

			plan, err := newPlanner(mfs).Plan(context.Background(), types.Repository{Path: repoDir}, []types.Program{nvim})
			require.NoError(t, err)
			require.Len(t, plan.Tasks, 1)

			task := plan.Tasks[0]
			assert.Equal(t, source, task.Source)
			assert.Equal(t, target, task.Target)
			assert.Equal(t, tt.wantState, task.State, "state")
			assert.Equal(t, tt.wantBlocked, task.Blocked, "blocked")
			assert.Equal(t, tt.wantDest, task.CurrentDest)
			assert.NoError(t, task.Err)
		})
	}
}

func TestPlan_OrderAndIndex(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/repo", 0755))

	programs := []types.Program{
		{Name: "zsh", Root: "/home/u", Paths: []string{".zshrc", ".zshenv"}},
		{Name: "git", Root: "/home/u", Paths: []string{".gitconfig"}},
		{Name: "nvim", Root: nvimRoot, Paths: []string{"lua/plugins.lua", "init.vim"}},
	}

	plan, err := newPlanner(mfs).Plan(context.Background(), types.Repository{Path: repoDir}, programs)
	require.NoError(t, err)

	var got []string
	for i, task := range plan.Tasks {
		assert.Equal(t, i, task.Index)
		got = append(got, task.Program+":"+task.Path)
	}
	assert.Equal(t, []string{
		"zsh:.zshrc",
		"zsh:.zshenv",
		"git:.gitconfig",
		"nvim:lua/plugins.lua",
		"nvim:init.vim",
	}, got)
	assert.Equal(t, "/repo/nvim/lua/plugins.lua", plan.Tasks[3].Source)
	assert.Equal(t, nvimRoot+"/lua/plugins.lua", plan.Tasks[3].Target)
}

func TestPlan_InvalidPaths(t *testing.T) {
	mfs := seedRepo(t)
	prog := types.Program{Name: "bad", Root: "/home/u", Paths: []string{"../escape", "/etc/passwd", "", "ok", "sub/../../out"}}

	plan, err := newPlanner(mfs).Plan(context.Background(), types.Repository{Path: repoDir}, []types.Program{prog})
	require.NoError(t, err, "per-path problems never fail planning")
	require.Len(t, plan.Tasks, 5)

	for _, i := range []int{0, 1, 2, 4} {
		task := plan.Tasks[i]
		assert.True(t, errors.IsErrorCode(task.Err, errors.ErrInvalidPath), "task %d (%q) should be invalid", i, task.Path)
		assert.Empty(t, task.Target)
	}
	assert.NoError(t, plan.Tasks[3].Err)
}

func TestPlan_RelativeRootIsInvalid(t *testing.T) {
	mfs := seedRepo(t)
	prog := types.Program{Name: "nvim", Root: "relative/root", Paths: []string{"init.vim"}}

	plan, err := newPlanner(mfs).Plan(context.Background(), types.Repository{Path: repoDir}, []types.Program{prog})
	require.NoError(t, err)
	assert.True(t, errors.IsErrorCode(plan.Tasks[0].Err, errors.ErrInvalidPath))
}

func TestPlan_IsReadOnlyAndDeterministic(t *testing.T) {
	mfs := seedRepo(t)
	require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))
	require.NoError(t, mfs.Symlink("/old", nvimRoot+"/a"))
	require.NoError(t, mfs.WriteFile(nvimRoot+"/b", nil, 0644))
	mfs.ResetWrites()

	prog := types.Program{Name: "nvim", Root: nvimRoot, Paths: []string{"a", "b", "c", "d/e"}}
	p := newPlanner(mfs)

	first, err := p.Plan(context.Background(), types.Repository{Path: repoDir}, []types.Program{prog})
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), types.Repository{Path: repoDir}, []types.Program{prog})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, mfs.Writes())
	assert.Equal(t, map[types.LinkState]int{
		types.StateWrongLink:   1,
		types.StateRegularFile: 1,
		types.StateMissing:     1,
		types.StateUnreachable: 1,
	}, first.CountByState())
}

func TestPlan_SourceMissingIsNoted(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/repo", 0755))
	require.NoError(t, mfs.MkdirAll(nvimRoot, 0755))

	plan, err := newPlanner(mfs).Plan(context.Background(), types.Repository{Path: repoDir}, []types.Program{nvim})
	require.NoError(t, err)
	assert.Equal(t, types.StateMissing, plan.Tasks[0].State)
	assert.Contains(t, plan.Tasks[0].Detail, "source is missing")
}

func TestPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPlanner(seedRepo(t)).Plan(ctx, types.Repository{Path: repoDir}, []types.Program{nvim})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCancelled))
}

func TestCheckRepository(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/repo", 0755))
	require.NoError(t, mfs.WriteFile("/file", nil, 0644))
	require.NoError(t, mfs.Symlink("/repo", "/linked"))
	p := newPlanner(mfs)

	tests := []struct {
		name string
		path string
		code errors.ErrorCode
	}{
		{"directory", "/repo", ""},
		{"link_to_directory", "/linked", ""},
		{"missing", "/nope", errors.ErrRepoNotFound},
		{"not_a_directory", "/file", errors.ErrRepoInvalid},
		{"relative", "repo", errors.ErrRepoInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckRepository(types.Repository{Path: tt.path})
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestPlan_RealFilesystem(t *testing.T) {
	tmp := t.TempDir()
	repo := testutil.CreateDir(t, tmp, "repo")
	home := testutil.CreateDir(t, tmp, "home")
	testutil.CreateFile(t, repo, "shell/.bashrc", "export A=1")
	testutil.CreateFile(t, repo, "shell/.profile", "")
	testutil.CreateSymlink(t, filepath.Join(repo, "shell/.bashrc"), filepath.Join(home, ".bashrc"))
	testutil.CreateFile(t, home, ".profile", "mine")

	prog := types.Program{Name: "shell", Root: home, Paths: []string{".bashrc", ".profile", ".inputrc", ".config/x/y"}}
	plan, err := newPlanner(filesystem.NewOS()).Plan(context.Background(), types.Repository{Path: repo}, []types.Program{prog})
	require.NoError(t, err)

	states := make([]types.LinkState, 0, len(plan.Tasks))
	for _, task := range plan.Tasks {
		states = append(states, task.State)
	}
	assert.Equal(t, []types.LinkState{
		types.StateCorrectLink,
		types.StateRegularFile,
		types.StateMissing,
		types.StateUnreachable,
	}, states)
	assert.False(t, plan.Tasks[3].Blocked)
}

func TestPlan_ParentLinkedToDirectory(t *testing.T) {
	tmp := t.TempDir()
	repo := testutil.CreateDir(t, tmp, "repo")
	real := testutil.CreateDir(t, tmp, "real-config")
	testutil.CreateSymlink(t, real, filepath.Join(tmp, "home", ".config"))

	prog := types.Program{Name: "app", Root: filepath.Join(tmp, "home", ".config"), Paths: []string{"app.toml"}}
	plan, err := newPlanner(filesystem.NewOS()).Plan(context.Background(), types.Repository{Path: repo}, []types.Program{prog})
	require.NoError(t, err)
	assert.Equal(t, types.StateMissing, plan.Tasks[0].State)
}
