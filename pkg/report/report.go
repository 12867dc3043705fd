package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/rodeo/pkg/errors"
	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/google/uuid"
)

// Record is the result of executing one link task
type Record struct {
	Index   int
	Program string
	Path    string
	Source  string
	Target  string
	State   types.LinkState
	Outcome types.Outcome

	// CurrentDest is the destination an existing link had before the run
	CurrentDest string
	Detail      string
	Err         error
}

// NewRecord starts a record from a planned task
func NewRecord(task types.LinkTask, outcome types.Outcome) Record {
	return Record{
		Index:       task.Index,
		Program:     task.Program,
		Path:        task.Path,
		Source:      task.Source,
		Target:      task.Target,
		State:       task.State,
		Outcome:     outcome,
		CurrentDest: task.CurrentDest,
		Detail:      task.Detail,
	}
}

// ErrorCode returns the taxonomy code of the record's error, if any
func (r Record) ErrorCode() errors.ErrorCode {
	if r.Err == nil {
		return ""
	}
	return errors.GetErrorCode(r.Err)
}

// MarshalJSON flattens the error into a message and code
func (r Record) MarshalJSON() ([]byte, error) {
	out := struct {
		Program     string          `json:"program"`
		Path        string          `json:"path"`
		Source      string          `json:"source"`
		Target      string          `json:"target"`
		State       types.LinkState `json:"state"`
		Outcome     types.Outcome   `json:"outcome"`
		CurrentDest string          `json:"current_dest,omitempty"`
		Detail      string          `json:"detail,omitempty"`
		Error       string          `json:"error,omitempty"`
		Code        string          `json:"code,omitempty"`
	}{
		Program:     r.Program,
		Path:        r.Path,
		Source:      r.Source,
		Target:      r.Target,
		State:       r.State,
		Outcome:     r.Outcome,
		CurrentDest: r.CurrentDest,
		Detail:      r.Detail,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		out.Code = string(r.ErrorCode())
	}
	return json.Marshal(out)
}

// HookResult records one post-deploy command run
type HookResult struct {
	Program  string        `json:"program"`
	Command  string        `json:"command"`
	Dir      string        `json:"dir"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Failed reports whether the hook exited unsuccessfully
func (h HookResult) Failed() bool {
	return h.Err != nil
}

// Report accumulates records for a single run
type Report struct {
	RunID     string
	DryRun    bool
	StartTime time.Time
	EndTime   time.Time

	mu      sync.Mutex
	records []Record
	hooks   []HookResult
}

// New creates an empty report with a fresh run ID
func New(dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartTime: time.Now(),
	}
}

// Add appends a record. Safe for concurrent use.
func (r *Report) Add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// AddHook appends a hook result. Safe for concurrent use.
func (r *Report) AddHook(h HookResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Complete stamps the end time
func (r *Report) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.EndTime = time.Now()
}

// Duration returns how long the run took, or zero if not complete
func (r *Report) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Records returns a copy of all records in plan order
func (r *Report) Records() []Record {
	r.mu.Lock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Hooks returns a copy of the hook results in the order they ran
func (r *Report) Hooks() []HookResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]HookResult, len(r.hooks))
	copy(out, r.hooks)
	return out
}

// Counts tallies records per outcome
func (r *Report) Counts() map[types.Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[types.Outcome]int, len(types.AllOutcomes))
	for _, rec := range r.records {
		counts[rec.Outcome]++
	}
	return counts
}

// Count returns the number of records with the given outcome
func (r *Report) Count(o types.Outcome) int {
	return r.Counts()[o]
}

// Len returns the number of records
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Problems returns the Conflict and Error records in plan order
func (r *Report) Problems() []Record {
	var out []Record
	for _, rec := range r.Records() {
		if rec.Outcome.IsProblem() {
			out = append(out, rec)
		}
	}
	return out
}

// FailedHooks returns the hook results that did not succeed
func (r *Report) FailedHooks() []HookResult {
	var out []HookResult
	for _, h := range r.Hooks() {
		if h.Failed() {
			out = append(out, h)
		}
	}
	return out
}

// HasProblems reports whether any task ended in Conflict or Error
func (r *Report) HasProblems() bool {
	return len(r.Problems()) > 0
}

// Success reports whether the run should exit zero: no problem records and
// no failed hooks
func (r *Report) Success() bool {
	return !r.HasProblems() && len(r.FailedHooks()) == 0
}

// ChangedPrograms returns, in plan order, the programs with at least one
// Linked or Relinked record
func (r *Report) ChangedPrograms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range r.Records() {
		if rec.Outcome.IsChange() && !seen[rec.Program] {
			seen[rec.Program] = true
			out = append(out, rec.Program)
		}
	}
	return out
}

// Summary renders the outcome counts on one line, e.g.
// "2 linked, 1 already-linked, 1 conflict". Zero counts are omitted.
func (r *Report) Summary() string {
	counts := r.Counts()
	var parts []string
	for _, o := range types.AllOutcomes {
		if n := counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if failed := len(r.FailedHooks()); failed > 0 {
		parts = append(parts, fmt.Sprintf("%d hook failed", failed))
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
