package rodeo

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/rodeo/internal/version"
	"github.com/arthur-debert/rodeo/pkg/config"
	"github.com/arthur-debert/rodeo/pkg/core"
	"github.com/arthur-debert/rodeo/pkg/paths"
	"github.com/arthur-debert/rodeo/pkg/ui"
	"github.com/arthur-debert/rodeo/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:               "apply [programs...]",
		Short:             MsgApplyShort,
		Long:              MsgApplyLong,
		Example:           MsgApplyExample,
		GroupID:           "core",
		ValidArgsFunction: opts.programNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runLinks(cmd, args, "apply", dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)

	return cmd
}

func newPreviewCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "preview [programs...]",
		Aliases:           []string{"status"},
		Short:             MsgPreviewShort,
		Long:              MsgPreviewLong,
		Example:           MsgPreviewExample,
		GroupID:           "core",
		ValidArgsFunction: opts.programNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runLinks(cmd, args, "preview", true)
		},
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return opts.fail(cmd, err)
			}

			inv, err := core.List(cfg)
			if err != nil {
				return opts.fail(cmd, err)
			}

			return renderer.RenderPrograms(display.NewProgramList(inv.ConfigPath, inv.Repository, inv.Programs))
		},
	}
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	var dotfiles string

	cmd := &cobra.Command{
		Use:     "init [path]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			target := opts.configPath
			if len(args) == 1 {
				if target, err = paths.Resolve(args[0], ""); err != nil {
					return opts.fail(cmd, err)
				}
			}

			log.Info().Str("path", target).Str("dotfiles", dotfiles).Msg("Writing starter configuration")

			if err := core.Init(target, dotfiles); err != nil {
				return opts.fail(cmd, err)
			}

			if err := renderer.RenderMessage(fmt.Sprintf(MsgConfigCreated, target)); err != nil {
				return err
			}
			if opts.format != ui.FormatJSON {
				return renderer.RenderMessage(MsgNextSteps)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dotfiles, "dotfiles", "d", "~/dotfiles", MsgFlagDotfiles)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// runLinks loads the configuration, runs the pipeline and renders the
// report. Problems and failed hooks turn into a non-zero exit after the
// report has been shown.
func (o *globalOptions) runLinks(cmd *cobra.Command, args []string, command string, dryRun bool) error {
	renderer, err := o.renderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return o.fail(cmd, err)
	}

	result, runErr := core.Run(cmd.Context(), core.RunOptions{
		Config:   cfg,
		Programs: args,
		DryRun:   dryRun,
		Jobs:     o.jobs,
		NoHooks:  o.noHooks,
	})

	if result != nil {
		if err := renderer.RenderReport(display.NewReportView(command, result.Report)); err != nil {
			return err
		}
	}
	if runErr != nil {
		return o.fail(cmd, runErr)
	}

	rep := result.Report
	if n := len(rep.Problems()); n > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf(MsgErrProblems, n)}
	}
	if n := len(rep.FailedHooks()); n > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf(MsgErrHooks, n)}
	}
	return nil
}

func (o *globalOptions) renderer(w io.Writer) (ui.Renderer, error) {
	renderer, err := ui.NewRenderer(o.format, w)
	if err != nil {
		return nil, fmt.Errorf(MsgErrRenderer, err)
	}
	return renderer, nil
}

// fail reports err and returns an ExitError so that main does not print it
// again. JSON errors go to stdout next to the rest of the JSON output.
func (o *globalOptions) fail(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()
	if o.format == ui.FormatJSON {
		w = cmd.OutOrStdout()
	}

	renderer, rerr := o.renderer(w)
	if rerr != nil {
		return err
	}
	if rerr := renderer.RenderError(err); rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return &ExitError{Code: 1, Err: err}
}
