package rodeo

import (
	"fmt"

	"github.com/arthur-debert/rodeo/internal/version"
	"github.com/arthur-debert/rodeo/pkg/config"
	"github.com/arthur-debert/rodeo/pkg/logging"
	"github.com/arthur-debert/rodeo/pkg/paths"
	"github.com/arthur-debert/rodeo/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ExitError ends the process with Code once its cause has been reported
// to the user
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configPath string
	format     ui.Format
	jobs       int
	noHooks    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "rodeo",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			log.Debug().
				Str("command", cmd.Name()).
				Str("config", opts.configPath).
				Msg("Command started")

			if opts.jobs < 0 {
				return fmt.Errorf("--jobs must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&opts.configPath, "config", "c", paths.DefaultConfigPath(), MsgFlagConfig)
	flags.Var(&opts.format, "format", MsgFlagFormat)
	flags.IntVar(&opts.jobs, "jobs", 0, MsgFlagJobs)
	flags.BoolVar(&opts.noHooks, "no-hooks", false, MsgFlagNoHooks)

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagFilename("config", "toml", "yaml", "yml")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newApplyCmd(opts))
	rootCmd.AddCommand(newPreviewCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topic-based help; a broken topic set must not make the tool unusable
	if tm, err := newTopicManager(); err == nil {
		topicsCmd := tm.Command("rodeo")
		topicsCmd.GroupID = "misc"
		rootCmd.AddCommand(topicsCmd)
		tm.Install(rootCmd)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// programNamesCompletion completes the names of configured programs that
// are not already on the command line
func (o *globalOptions) programNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	given := make(map[string]bool, len(args))
	for _, a := range args {
		given[a] = true
	}

	var names []string
	for _, name := range cfg.ProgramNames() {
		if !given[name] {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
