package rodeo

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A stateless dotfiles linker"
	MsgApplyShort      = "Link dotfiles into place"
	MsgPreviewShort    = "Show what apply would change"
	MsgListShort       = "List configured programs"
	MsgListLong        = "List shows every program declared in the configuration file with its resolved root and paths."
	MsgInitShort       = "Write a starter configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgConfigCreated = "Created %s"
	MsgNextSteps     = "Edit it to declare your programs, then run \"rodeo preview\"."
	MsgInterrupted   = "interrupted"

	// Error messages
	MsgErrRenderer = "failed to create renderer: %w"
	MsgErrProblems = "%d path(s) need attention"
	MsgErrHooks    = "%d post-deploy command(s) failed"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Configuration file (env RODEO_CONFIG)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagJobs     = "Reconcile up to N paths concurrently (default from settings.jobs)"
	MsgFlagNoHooks  = "Do not run post-deploy commands"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagDotfiles = "Dotfiles directory written into the starter configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimRight(msgApplyExampleRaw, "\n")

	//go:embed msgs/preview-long.txt
	msgPreviewLongRaw string
	MsgPreviewLong    = strings.TrimSpace(msgPreviewLongRaw)

	//go:embed msgs/preview-example.txt
	msgPreviewExampleRaw string
	MsgPreviewExample    = strings.TrimRight(msgPreviewExampleRaw, "\n")

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimRight(msgListExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
