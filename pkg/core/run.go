package core

import (
	"context"
	"time"

	"github.com/arthur-debert/rodeo/pkg/config"
	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/executor"
	"github.com/arthur-debert/rodeo/pkg/filesystem"
	"github.com/arthur-debert/rodeo/pkg/hooks"
	"github.com/arthur-debert/rodeo/pkg/logging"
	"github.com/arthur-debert/rodeo/pkg/planner"
	"github.com/arthur-debert/rodeo/pkg/report"
	"github.com/arthur-debert/rodeo/pkg/types"
)

// RunOptions contains options for a plan-and-apply run
type RunOptions struct {
	Config *config.Config

	// Programs restricts the run to the named programs; empty means all
	Programs []string

	DryRun bool

	// Jobs overrides settings.jobs when positive
	Jobs int

	// NoHooks disables post-deploy commands
	NoHooks bool

	// HookTimeout overrides settings.hook_timeout when positive
	HookTimeout time.Duration

	// FileSystem is used for planning and applying; nil means the OS,
	// accessed through synthfs
	FileSystem types.FS
}

// Result is the outcome of a run
type Result struct {
	Plan   *types.Plan
	Report *report.Report
}

// Run plans and applies the configured links.
//
// Configuration and repository errors abort before anything is planned.
// Per-task failures never surface as an error; they are records in the
// report. When ctx is cancelled mid-run the partial result is returned
// together with a CANCELLED error.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	logger := logging.GetLogger("core.run")
	done := logging.LogOperationStart(logger, "run")
	defer done()

	if opts.Config == nil {
		return nil, errors.New(errors.ErrInternal, "no configuration given")
	}

	repo, programs, err := Resolve(opts.Config, opts.Programs)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("repository", repo.Path).
		Strs("programs", programNames(programs)).
		Bool("dryRun", opts.DryRun).
		Msg("Starting run")

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewSynthfs()
	}

	p := planner.New(planner.Options{FS: fsys})
	if err := p.CheckRepository(repo); err != nil {
		return nil, err
	}

	plan, err := p.Plan(ctx, repo, programs)
	if err != nil {
		return nil, err
	}

	engine := executor.New(executor.Options{
		DryRun:  opts.DryRun,
		Workers: jobs(opts),
		FS:      fsys,
	})
	rep := engine.Apply(ctx, plan)

	if !opts.NoHooks && !opts.DryRun {
		timeout := opts.HookTimeout
		if timeout <= 0 {
			timeout = opts.Config.Settings.HookTimeout
		}
		runner := hooks.New(hooks.Options{
			Timeout: timeout,
			Shell:   opts.Config.Settings.Shell,
		})
		runner.RunChanged(ctx, plan, rep)
	}

	result := &Result{Plan: plan, Report: rep}
	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(err, errors.ErrCancelled, "run interrupted").
			WithDetail("skipped", rep.Count(types.OutcomeSkipped))
	}
	return result, nil
}

// Resolve turns the configuration into the repository and the selected
// programs, in declaration order
func Resolve(cfg *config.Config, names []string) (types.Repository, []types.Program, error) {
	repo, programs, err := config.ToModel(cfg)
	if err != nil {
		return types.Repository{}, nil, err
	}

	selected, err := config.FilterPrograms(programs, names)
	if err != nil {
		return types.Repository{}, nil, err
	}
	return repo, selected, nil
}

func jobs(opts RunOptions) int {
	n := opts.Jobs
	if n <= 0 {
		n = opts.Config.Settings.Jobs
	}
	if n > config.MaxJobs {
		n = config.MaxJobs
	}
	return n
}

func programNames(programs []types.Program) []string {
	names := make([]string, 0, len(programs))
	for _, p := range programs {
		names = append(names, p.Name)
	}
	return names
}
