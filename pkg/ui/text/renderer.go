// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/rodeo/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderReport prints one line per task, then problems, hooks and the
// summary
func (r *Renderer) RenderReport(view *display.ReportView) error {
	var b strings.Builder

	if view.DryRun {
		b.WriteString("Dry run: no changes were made\n\n")
	}

	program := ""
	for _, rec := range view.Records {
		if rec.Program != program {
			program = rec.Program
			fmt.Fprintf(&b, "%s\n", program)
		}
		fmt.Fprintf(&b, "  %-15s %s\n", rec.Outcome, RecordLine(rec))
	}

	if len(view.Problems) > 0 {
		b.WriteString("\nProblems:\n")
		for _, rec := range view.Problems {
			fmt.Fprintf(&b, "  %s\n", ProblemLine(rec))
		}
	}

	if len(view.Hooks) > 0 {
		b.WriteString("\nPost-deploy commands:\n")
		for _, h := range view.Hooks {
			fmt.Fprintf(&b, "  %s\n", HookLine(h))
			if h.Error != "" && h.Output != "" {
				for _, line := range strings.Split(h.Output, "\n") {
					fmt.Fprintf(&b, "    | %s\n", line)
				}
			}
		}
	}

	fmt.Fprintf(&b, "\nSummary: %s\n", view.Summary)

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderPrograms prints each program with its paths
func (r *Renderer) RenderPrograms(list *display.ProgramList) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dotfiles: %s\n", list.Repository)
	if len(list.Programs) == 0 {
		b.WriteString("No programs configured\n")
	}
	for _, p := range list.Programs {
		fmt.Fprintf(&b, "\n%s -> %s\n", p.Name, p.Root)
		for _, path := range p.Paths {
			fmt.Fprintf(&b, "  %s\n", path)
		}
		if p.PostDeployCmd != "" {
			fmt.Fprintf(&b, "  post-deploy: %s\n", p.PostDeployCmd)
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// RecordLine describes a task after its outcome column
func RecordLine(rec display.RecordView) string {
	switch rec.Outcome {
	case "linked", "already-linked", "relinked":
		return fmt.Sprintf("%s -> %s", rec.Path, rec.Target)
	default:
		label := rec.StateLabel()
		if label == "" {
			label = "invalid path"
		}
		if rec.Path == "" {
			return fmt.Sprintf(`"" (%s)`, label)
		}
		return fmt.Sprintf("%s (%s)", rec.Path, label)
	}
}

// ProblemLine names the program, path, state and cause of a problem
func ProblemLine(rec display.RecordView) string {
	cause := rec.Error
	if cause == "" {
		cause = rec.Detail
	}
	where := rec.Target
	if where == "" {
		where = rec.Path
	}
	if where == "" {
		where = `""`
	}
	if label := rec.StateLabel(); label != "" {
		return fmt.Sprintf("%s: %s [%s] %s: %s", rec.Program, where, label, rec.Outcome, cause)
	}
	return fmt.Sprintf("%s: %s %s: %s", rec.Program, where, rec.Outcome, cause)
}

// HookLine summarises one post-deploy command
func HookLine(h display.HookView) string {
	if h.Error != "" {
		return fmt.Sprintf("%s: failed after %s: %s", h.Program, h.Duration, h.Error)
	}
	return fmt.Sprintf("%s: ok (%s)", h.Program, h.Duration)
}
