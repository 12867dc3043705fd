// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/rodeo/pkg/ui/display"
	"github.com/arthur-debert/rodeo/pkg/ui/styles"
	"github.com/arthur-debert/rodeo/pkg/ui/text"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using lipgloss styles and pterm
// tables
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderReport renders tasks grouped by program, then the problems and a
// summary table
func (r *Renderer) RenderReport(view *display.ReportView) error {
	var b strings.Builder

	if view.DryRun {
		b.WriteString(styles.Render("DryRunBanner", "DRY RUN: no changes were made"))
		b.WriteString("\n\n")
	}

	program := ""
	for _, rec := range view.Records {
		if rec.Program != program {
			if program != "" {
				b.WriteString("\n")
			}
			program = rec.Program
			b.WriteString(styles.Render("Program", program))
			b.WriteString("\n")
		}
		outcome := styles.Render(rec.Outcome, fmt.Sprintf("%-15s", rec.Outcome))
		fmt.Fprintf(&b, "  %s %s\n", outcome, r.recordLine(rec))
	}

	if len(view.Problems) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Render("Error", "Needs attention"))
		b.WriteString("\n")
		table, err := problemsTable(view.Problems)
		if err != nil {
			return err
		}
		b.WriteString(table)
	}

	if len(view.Hooks) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Render("Header", "Post-deploy commands"))
		b.WriteString("\n")
		for _, h := range view.Hooks {
			style := "Success"
			if h.Error != "" {
				style = "Error"
			}
			fmt.Fprintf(&b, "  %s\n", styles.Render(style, text.HookLine(h)))
			if h.Error != "" && h.Output != "" {
				for _, line := range strings.Split(h.Output, "\n") {
					fmt.Fprintf(&b, "    %s\n", styles.Render("Muted", line))
				}
			}
		}
	}

	b.WriteString("\n")
	if counts := view.OrderedCounts(); len(counts) > 0 {
		table, err := countsTable(counts)
		if err != nil {
			return err
		}
		b.WriteString(table)
	} else {
		b.WriteString(styles.Render("Muted", "Nothing to do"))
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) recordLine(rec display.RecordView) string {
	switch rec.Outcome {
	case "linked", "already-linked", "relinked":
		return fmt.Sprintf("%s %s %s", rec.Path, styles.Render("Muted", "->"), styles.Render("FilePath", rec.Target))
	default:
		label := rec.StateLabel()
		if label == "" {
			label = "invalid path"
		}
		return fmt.Sprintf("%s %s", rec.Path, styles.Render("Muted", "("+label+")"))
	}
}

func problemsTable(problems []display.RecordView) (string, error) {
	data := pterm.TableData{{"Program", "Target", "State", "Outcome", "Detail"}}
	for _, rec := range problems {
		cause := rec.Error
		if cause == "" {
			cause = rec.Detail
		}
		where := rec.Target
		if where == "" {
			where = rec.Path
		}
		data = append(data, []string{rec.Program, where, rec.StateLabel(), rec.Outcome, cause})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func countsTable(counts []display.OutcomeCount) (string, error) {
	data := pterm.TableData{{"Outcome", "Count"}}
	for _, c := range counts {
		data = append(data, []string{styles.Render(c.Outcome, c.Outcome), strconv.Itoa(c.Count)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return table + "\n", nil
}

// RenderPrograms renders the configured programs
func (r *Renderer) RenderPrograms(list *display.ProgramList) error {
	var b strings.Builder
	b.WriteString(styles.Render("Header", "Dotfiles: "+list.Repository))
	b.WriteString("\n")
	if len(list.Programs) == 0 {
		b.WriteString(styles.Render("Muted", "No programs configured"))
		b.WriteString("\n")
	}
	for _, p := range list.Programs {
		fmt.Fprintf(&b, "%s %s %s\n", styles.Render("Program", p.Name), styles.Render("Muted", "->"), styles.Render("FilePath", p.Root))
		for _, path := range p.Paths {
			fmt.Fprintf(&b, "  %s\n", path)
		}
		if p.PostDeployCmd != "" {
			fmt.Fprintf(&b, "  %s %s\n", styles.Render("Muted", "post-deploy:"), p.PostDeployCmd)
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "%s %v\n", styles.Render("Error", "Error:"), err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
