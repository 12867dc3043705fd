package executor

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/filesystem"
	"github.com/arthur-debert/rodeo/pkg/logging"
	"github.com/arthur-debert/rodeo/pkg/report"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// dirPerm is used for directories created on the way to a target
const dirPerm fs.FileMode = 0755

// Options contains configuration for the executor
type Options struct {
	DryRun bool
	// Workers bounds the number of tasks applied concurrently; values
	// below 2 apply tasks one at a time
	Workers int
	Logger  zerolog.Logger
	// Filesystem operations interface for testing
	FS types.FS
}

// Executor applies plans
type Executor struct {
	dryRun  bool
	workers int
	logger  zerolog.Logger
	fs      types.FS
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	return &Executor{
		dryRun:  opts.DryRun,
		workers: opts.Workers,
		logger:  logger,
		fs:      fsys,
	}
}

// Apply executes every task of the plan and returns one record per task.
// Once ctx is cancelled no new task is started; the remaining tasks are
// recorded as skipped. A task that has started always runs to completion.
func (e *Executor) Apply(ctx context.Context, plan *types.Plan) *report.Report {
	done := logging.LogOperationStart(e.logger, "apply")
	defer done()

	rep := report.New(e.dryRun)

	if e.workers > 1 {
		e.applyParallel(ctx, plan.Tasks, rep)
	} else {
		for _, task := range plan.Tasks {
			rep.Add(e.applyTask(ctx, task))
		}
	}

	rep.Complete()
	e.logger.Info().
		Str("run_id", rep.RunID).
		Bool("dry_run", e.dryRun).
		Str("summary", rep.Summary()).
		Dur("duration", rep.Duration()).
		Msg("Apply finished")

	return rep
}

func (e *Executor) applyParallel(ctx context.Context, tasks []types.LinkTask, rep *report.Report) {
	var g errgroup.Group
	g.SetLimit(e.workers)

	for _, task := range tasks {
		g.Go(func() error {
			rep.Add(e.applyTask(ctx, task))
			return nil
		})
	}

	// Workers never return errors; failures live in the report
	_ = g.Wait()
}

func (e *Executor) applyTask(ctx context.Context, task types.LinkTask) report.Record {
	if err := ctx.Err(); err != nil {
		rec := report.NewRecord(task, types.OutcomeSkipped)
		rec.Err = errors.Wrap(err, errors.ErrCancelled, "run cancelled before this task started")
		return rec
	}

	start := time.Now()
	rec := e.execute(task)

	event := e.logger.Debug()
	if rec.Outcome.IsProblem() {
		event = e.logger.Warn()
	}
	event.
		Str("program", rec.Program).
		Str("path", rec.Path).
		Str("state", rec.State.String()).
		Str("outcome", string(rec.Outcome)).
		Err(rec.Err).
		Dur("duration", time.Since(start)).
		Msg("Task applied")

	return rec
}

// execute maps a task's state to its action
func (e *Executor) execute(task types.LinkTask) report.Record {
	if task.Err != nil {
		return failed(task, task.Err)
	}

	switch task.State {
	case types.StateMissing:
		return e.link(task)

	case types.StateCorrectLink:
		return report.NewRecord(task, types.OutcomeAlreadyLinked)

	case types.StateWrongLink:
		return e.relink(task)

	case types.StateRegularFile:
		rec := report.NewRecord(task, types.OutcomeConflict)
		rec.Err = errors.New(errors.ErrConflict, "target is occupied by a file that is not a link").
			WithDetail("target", task.Target)
		return rec

	case types.StateUnreachable:
		if task.Blocked && e.dryRun {
			return failed(task, errors.Newf(errors.ErrUnreachable, "cannot create parent of %s", task.Target).
				WithDetail("detail", task.Detail))
		}
		return e.link(task)

	default:
		return failed(task, errors.Newf(errors.ErrInternal, "unknown link state %s", task.State))
	}
}

// link creates the target's parent directories and then the link.
// Nothing is ever removed: if something took the target's place since
// planning, Symlink fails and the task is reported.
func (e *Executor) link(task types.LinkTask) report.Record {
	if e.dryRun {
		return report.NewRecord(task, types.OutcomeLinked)
	}

	parent := filepath.Dir(task.Target)
	if err := e.fs.MkdirAll(parent, dirPerm); err != nil {
		return failed(task, errors.WrapFS(err, errors.ErrDirCreate, "cannot create parent directory").
			WithDetail("dir", parent))
	}

	if err := e.fs.Symlink(task.Source, task.Target); err != nil {
		if errors.Is(err, fs.ErrExist) && e.occupiedByNonLink(task.Target) {
			rec := report.NewRecord(task, types.OutcomeConflict)
			rec.Err = errors.Wrap(err, errors.ErrConflict, "target was created by something else during the run")
			return rec
		}
		return failed(task, errors.WrapFS(err, errors.ErrSymlinkCreate, "cannot create link").
			WithDetail("target", task.Target))
	}

	return report.NewRecord(task, types.OutcomeLinked)
}

// relink replaces a wrong link by creating the correct one under a
// temporary sibling name and renaming it over the target, so the target
// never goes missing
func (e *Executor) relink(task types.LinkTask) report.Record {
	if e.dryRun {
		return report.NewRecord(task, types.OutcomeRelinked)
	}

	tmp := tempSibling(task.Target)
	if err := e.fs.Symlink(task.Source, tmp); err != nil {
		return failed(task, errors.WrapFS(err, errors.ErrSymlinkReplace, "cannot create replacement link").
			WithDetail("tmp", tmp))
	}

	if e.occupiedByNonLink(task.Target) {
		e.cleanup(tmp)
		rec := report.NewRecord(task, types.OutcomeConflict)
		rec.Err = errors.New(errors.ErrConflict, "target was replaced by a file during the run").
			WithDetail("target", task.Target)
		return rec
	}

	if err := e.fs.Rename(tmp, task.Target); err != nil {
		e.cleanup(tmp)
		return failed(task, errors.WrapFS(err, errors.ErrSymlinkReplace, "cannot replace link").
			WithDetail("target", task.Target))
	}

	return report.NewRecord(task, types.OutcomeRelinked)
}

// occupiedByNonLink reports whether something other than a symlink now
// exists at path
func (e *Executor) occupiedByNonLink(path string) bool {
	info, err := e.fs.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink == 0
}

func (e *Executor) cleanup(tmp string) {
	if err := e.fs.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary link")
	}
}

// tempSibling returns a hidden name next to target, e.g.
// ".init.vim.rodeo-1a2b3c4d"
func tempSibling(target string) string {
	name := fmt.Sprintf(".%s.rodeo-%s", filepath.Base(target), uuid.NewString()[:8])
	return filepath.Join(filepath.Dir(target), name)
}

func failed(task types.LinkTask, err error) report.Record {
	rec := report.NewRecord(task, types.OutcomeError)
	rec.Err = err
	return rec
}
