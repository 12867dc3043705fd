package planner

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/filesystem"
	"github.com/arthur-debert/rodeo/pkg/logging"
	"github.com/arthur-debert/rodeo/pkg/paths"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/rs/zerolog"
)

// Options contains configuration for the planner
type Options struct {
	Logger zerolog.Logger
	// Filesystem operations interface for testing
	FS types.FS
}

// Planner builds link plans
type Planner struct {
	logger zerolog.Logger
	fs     types.FS
}

// New creates a new planner instance
func New(opts Options) *Planner {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("planner")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	return &Planner{logger: logger, fs: fsys}
}

// CheckRepository verifies that the repository exists and is a directory.
// A symlink to a directory is accepted.
func (p *Planner) CheckRepository(repo types.Repository) error {
	if !filepath.IsAbs(repo.Path) {
		return errors.Newf(errors.ErrRepoInvalid, "repository path %q is not absolute", repo.Path)
	}
	info, err := p.fs.Stat(repo.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrRepoNotFound, "dotfiles directory %s does not exist", repo.Path)
		}
		return errors.WrapFS(err, errors.ErrRepoInvalid, "cannot access dotfiles directory").
			WithDetail("path", repo.Path)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrRepoInvalid, "dotfiles directory %s is not a directory", repo.Path)
	}
	return nil
}

// Plan builds one task per declared path, programs in declaration order and
// paths in declaration order. Program roots must already be absolute.
// Per-path problems are carried on the task; only cancellation is returned
// as an error.
func (p *Planner) Plan(ctx context.Context, repo types.Repository, programs []types.Program) (*types.Plan, error) {
	done := logging.LogOperationStart(p.logger, "plan")
	defer done()

	plan := &types.Plan{
		Repository: repo,
		Programs:   programs,
		Tasks:      make([]types.LinkTask, 0),
	}

	for _, prog := range programs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCancelled, "planning cancelled")
		}

		for _, raw := range prog.Paths {
			task := p.planTask(repo, prog, raw)
			task.Index = len(plan.Tasks)
			plan.Tasks = append(plan.Tasks, task)
		}
	}

	p.logger.Info().
		Int("programs", len(programs)).
		Int("tasks", len(plan.Tasks)).
		Msg("Plan built")

	return plan, nil
}

func (p *Planner) planTask(repo types.Repository, prog types.Program, raw string) types.LinkTask {
	task := types.LinkTask{Program: prog.Name, Path: raw}

	rel, err := paths.Relative(raw)
	if err != nil {
		return invalid(task, err)
	}
	task.Path = rel

	if !filepath.IsAbs(prog.Root) {
		return invalid(task, errors.Newf(errors.ErrInvalidPath, "program root %q is not absolute", prog.Root))
	}

	programDir := filepath.Join(repo.Path, prog.Name)
	task.Source = filepath.Join(programDir, rel)
	task.Target = filepath.Join(prog.Root, rel)
	if !paths.IsWithin(repo.Path, task.Source) {
		return invalid(task, errors.Newf(errors.ErrInvalidPath, "source %s is outside the repository", task.Source))
	}

	p.classify(&task)

	if _, err := p.fs.Lstat(task.Source); err != nil && task.Detail == "" {
		task.Detail = "source is missing from the repository"
	}

	p.logger.Debug().
		Str("program", task.Program).
		Str("path", task.Path).
		Str("target", task.Target).
		Str("state", task.State.String()).
		Bool("blocked", task.Blocked).
		Msg("Classified target")

	return task
}

// invalid marks a task that cannot be executed at all
func invalid(task types.LinkTask, err error) types.LinkTask {
	task.State = types.StateUnreachable
	task.Blocked = true
	task.Err = err
	task.Detail = err.Error()
	return task
}

// classify inspects the target without following it
func (p *Planner) classify(task *types.LinkTask) {
	info, err := p.fs.Lstat(task.Target)
	switch {
	case err == nil:
		// handled below
	case errors.Is(err, fs.ErrNotExist):
		p.classifyAbsent(task)
		return
	default:
		task.State = types.StateUnreachable
		task.Blocked = true
		task.Detail = err.Error()
		return
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		task.State = types.StateRegularFile
		if info.IsDir() {
			task.Detail = "a directory occupies the target"
		} else {
			task.Detail = "a file occupies the target"
		}
		return
	}

	dest, err := p.fs.Readlink(task.Target)
	if err != nil {
		task.State = types.StateUnreachable
		task.Blocked = true
		task.Detail = err.Error()
		return
	}
	task.CurrentDest = dest

	if linkDestination(task.Target, dest) == task.Source {
		task.State = types.StateCorrectLink
		return
	}
	task.State = types.StateWrongLink
	task.Detail = "points to " + dest
}

// classifyAbsent decides between Missing and Unreachable for a target that
// does not exist
func (p *Planner) classifyAbsent(task *types.LinkTask) {
	parent := filepath.Dir(task.Target)
	if p.isDir(parent) {
		task.State = types.StateMissing
		return
	}

	task.State = types.StateUnreachable
	ancestor, ok := p.nearestExisting(parent)
	switch {
	case !ok:
		task.Blocked = true
		task.Detail = "cannot inspect " + ancestor
	case ancestor == parent || !p.isDir(ancestor):
		task.Blocked = true
		task.Detail = ancestor + " is not a directory"
	default:
		task.Detail = "parent directory " + parent + " does not exist"
	}
}

// isDir reports whether path is a directory or a symlink to one
func (p *Planner) isDir(path string) bool {
	info, err := p.fs.Stat(path)
	return err == nil && info.IsDir()
}

// nearestExisting walks up from dir to the first path that exists.
// ok is false when an ancestor could not be inspected; the offending path
// is returned in that case.
func (p *Planner) nearestExisting(dir string) (string, bool) {
	for {
		_, err := p.fs.Lstat(dir)
		if err == nil {
			return dir, true
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return dir, false
		}
		next := filepath.Dir(dir)
		if next == dir {
			return dir, false
		}
		dir = next
	}
}

// linkDestination makes a link's destination absolute relative to the
// directory holding the link
func linkDestination(link, dest string) string {
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(link), dest)
	}
	return filepath.Clean(dest)
}
