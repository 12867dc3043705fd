// Package hooks runs the post-deploy commands of programs whose links
// changed during an apply.
package hooks

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/logging"
	"github.com/arthur-debert/rodeo/pkg/report"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single post-deploy command
const DefaultTimeout = 5 * time.Minute

// Environment passed to every hook
const (
	EnvProgram     = "RODEO_PROGRAM"
	EnvProgramRoot = "RODEO_PROGRAM_ROOT"
	EnvProgramDir  = "RODEO_PROGRAM_DIR"
)

// Options contains configuration for the hook runner
type Options struct {
	Timeout time.Duration
	// Shell runs the command as Shell -c <cmd>; defaults to "sh"
	Shell  string
	Logger zerolog.Logger
}

// Runner executes post-deploy commands
type Runner struct {
	timeout time.Duration
	shell   string
	logger  zerolog.Logger
}

// New creates a hook runner
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("hooks")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	shell := opts.Shell
	if shell == "" {
		shell = "sh"
	}
	return &Runner{timeout: timeout, shell: shell, logger: logger}
}

// RunChanged runs the post-deploy command of every program that gained or
// repaired at least one link in rep, in declaration order, and records the
// results on rep. Dry-run reports never trigger hooks.
func (r *Runner) RunChanged(ctx context.Context, plan *types.Plan, rep *report.Report) {
	if rep.DryRun {
		return
	}

	changed := make(map[string]bool)
	for _, name := range rep.ChangedPrograms() {
		changed[name] = true
	}

	for _, prog := range plan.Programs {
		if !prog.HasPostDeploy() || !changed[prog.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			rep.AddHook(report.HookResult{
				Program: prog.Name,
				Command: prog.PostDeployCmd,
				Dir:     prog.Root,
				Err:     errors.Wrap(err, errors.ErrCancelled, "hook not started"),
			})
			continue
		}
		rep.AddHook(r.Run(ctx, plan.Repository, prog))
	}
}

// Run executes one program's post-deploy command in the program root
func (r *Runner) Run(ctx context.Context, repo types.Repository, prog types.Program) report.HookResult {
	result := report.HookResult{
		Program: prog.Name,
		Command: prog.PostDeployCmd,
		Dir:     prog.Root,
	}

	if info, err := os.Stat(prog.Root); err != nil || !info.IsDir() {
		result.Err = errors.Newf(errors.ErrHookFailed, "working directory %s is not available", prog.Root)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.shell, "-c", prog.PostDeployCmd)
	cmd.Dir = prog.Root
	// Background children may keep the output pipe open after a kill
	cmd.WaitDelay = time.Second
	cmd.Env = append(os.Environ(),
		EnvProgram+"="+prog.Name,
		EnvProgramRoot+"="+prog.Root,
		EnvProgramDir+"="+filepath.Join(repo.Path, prog.Name),
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.logger.Info().
		Str("program", prog.Name).
		Str("command", prog.PostDeployCmd).
		Str("dir", prog.Root).
		Msg("Running post-deploy command")

	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = strings.TrimRight(output.String(), "\n")

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = errors.Wrapf(err, errors.ErrHookFailed, "post-deploy command timed out after %s", r.timeout)
		} else {
			err = errors.Wrapf(err, errors.ErrHookFailed, "post-deploy command for %s failed", prog.Name)
		}
		result.Err = err
		r.logger.Error().
			Err(err).
			Str("program", prog.Name).
			Str("output", result.Output).
			Msg("Post-deploy command failed")
		return result
	}

	r.logger.Debug().
		Str("program", prog.Name).
		Dur("duration", result.Duration).
		Str("output", result.Output).
		Msg("Post-deploy command finished")

	return result
}
