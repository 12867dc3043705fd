// Package display holds the renderer-neutral views of rodeo results.
//
// Commands build these views from a report or a configuration; every
// output format renders the same view, so the JSON output carries exactly
// what the terminal shows.
package display

import (
	"time"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/report"
	"github.com/arthur-debert/rodeo/pkg/types"
)

// RecordView is one task's result
type RecordView struct {
	Program     string `json:"program"`
	Path        string `json:"path"`
	Source      string `json:"source,omitempty"`
	Target      string `json:"target,omitempty"`
	State       string `json:"state"`
	Outcome     string `json:"outcome"`
	CurrentDest string `json:"current_dest,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Error       string `json:"error,omitempty"`
	Code        string `json:"code,omitempty"`
}

// HookView is one post-deploy command result
type HookView struct {
	Program  string `json:"program"`
	Command  string `json:"command"`
	Output   string `json:"output,omitempty"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// ReportView is the rendered form of a run
type ReportView struct {
	Command  string         `json:"command"`
	RunID    string         `json:"run_id"`
	DryRun   bool           `json:"dry_run"`
	Records  []RecordView   `json:"records"`
	Problems []RecordView   `json:"problems"`
	Hooks    []HookView     `json:"hooks,omitempty"`
	Counts   map[string]int `json:"counts"`
	Summary  string         `json:"summary"`
	Success  bool           `json:"success"`
	Duration string         `json:"duration"`
}

// NewReportView converts a report for rendering
func NewReportView(command string, rep *report.Report) *ReportView {
	view := &ReportView{
		Command:  command,
		RunID:    rep.RunID,
		DryRun:   rep.DryRun,
		Records:  make([]RecordView, 0, rep.Len()),
		Problems: make([]RecordView, 0),
		Counts:   make(map[string]int, len(types.AllOutcomes)),
		Summary:  rep.Summary(),
		Success:  rep.Success(),
		Duration: rep.Duration().Round(time.Millisecond).String(),
	}

	for _, rec := range rep.Records() {
		rv := newRecordView(rec)
		view.Records = append(view.Records, rv)
		if rec.Outcome.IsProblem() {
			view.Problems = append(view.Problems, rv)
		}
	}

	for outcome, n := range rep.Counts() {
		view.Counts[string(outcome)] = n
	}

	for _, h := range rep.Hooks() {
		hv := HookView{
			Program:  h.Program,
			Command:  h.Command,
			Output:   h.Output,
			Duration: h.Duration.Round(time.Millisecond).String(),
		}
		if h.Err != nil {
			hv.Error = h.Err.Error()
		}
		view.Hooks = append(view.Hooks, hv)
	}

	return view
}

func newRecordView(rec report.Record) RecordView {
	rv := RecordView{
		Program:     rec.Program,
		Path:        rec.Path,
		Source:      rec.Source,
		Target:      rec.Target,
		State:       rec.State.String(),
		Outcome:     string(rec.Outcome),
		CurrentDest: rec.CurrentDest,
		Detail:      rec.Detail,
	}
	if rec.Err != nil {
		rv.Error = rec.Err.Error()
		rv.Code = string(rec.ErrorCode())
	}
	return rv
}

// StateLabel is the target state to show for the record. Tasks rejected
// for an invalid declared path never had their target inspected, so they
// have no state to show.
func (rv RecordView) StateLabel() string {
	if rv.Code == string(errors.ErrInvalidPath) {
		return ""
	}
	return rv.State
}

// OrderedCounts returns the counts in display order, skipping zeroes
func (v *ReportView) OrderedCounts() []OutcomeCount {
	var out []OutcomeCount
	for _, o := range types.AllOutcomes {
		if n := v.Counts[string(o)]; n > 0 {
			out = append(out, OutcomeCount{Outcome: string(o), Count: n})
		}
	}
	return out
}

// OutcomeCount pairs an outcome with its tally
type OutcomeCount struct {
	Outcome string
	Count   int
}

// ProgramView describes one configured program
type ProgramView struct {
	Name          string   `json:"name"`
	Root          string   `json:"root"`
	Paths         []string `json:"paths"`
	PostDeployCmd string   `json:"post_deploy_cmd,omitempty"`
}

// ProgramList is the result of `rodeo list`
type ProgramList struct {
	ConfigPath string        `json:"config_path"`
	Repository string        `json:"repository"`
	Programs   []ProgramView `json:"programs"`
}

// NewProgramList builds the list view
func NewProgramList(configPath string, repo types.Repository, programs []types.Program) *ProgramList {
	list := &ProgramList{
		ConfigPath: configPath,
		Repository: repo.Path,
		Programs:   make([]ProgramView, 0, len(programs)),
	}
	for _, p := range programs {
		list.Programs = append(list.Programs, ProgramView{
			Name:          p.Name,
			Root:          p.Root,
			Paths:         p.Paths,
			PostDeployCmd: p.PostDeployCmd,
		})
	}
	return list
}
