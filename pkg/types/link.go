package types

import "fmt"

// LinkState classifies what currently occupies a task's target path
type LinkState int

const (
	// StateMissing means nothing exists at the target and its parent is a directory
	StateMissing LinkState = iota
	// StateCorrectLink means the target is a symlink already pointing at the source
	StateCorrectLink
	// StateWrongLink means the target is a symlink pointing somewhere else
	StateWrongLink
	// StateRegularFile means a real file or directory occupies the target
	StateRegularFile
	// StateUnreachable means the parent directory is missing or inaccessible
	StateUnreachable
)

// AllLinkStates lists every state in declaration order
var AllLinkStates = []LinkState{
	StateMissing,
	StateCorrectLink,
	StateWrongLink,
	StateRegularFile,
	StateUnreachable,
}

func (s LinkState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateCorrectLink:
		return "correct-link"
	case StateWrongLink:
		return "wrong-link"
	case StateRegularFile:
		return "regular-file"
	case StateUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("LinkState(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON and logs
func (s LinkState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LinkTask pairs one repository source with one target location.
// Tasks are rebuilt on every run and never persisted.
type LinkTask struct {
	// Index is the task's position in the plan
	Index   int    `json:"index"`
	Program string `json:"program"`
	Path    string `json:"path"`
	Source  string `json:"source"`
	Target  string `json:"target"`

	State LinkState `json:"state"`

	// CurrentDest is the destination of an existing symlink at Target
	CurrentDest string `json:"current_dest,omitempty"`

	// Blocked is set for unreachable targets whose nearest existing
	// ancestor is not a directory, so directory creation cannot succeed
	Blocked bool `json:"blocked,omitempty"`

	// Detail is a human readable note on the classification
	Detail string `json:"detail,omitempty"`

	// Err is set when the task could not be planned at all (for example
	// an invalid declared path). Such tasks are never executed.
	Err error `json:"-"`
}

// Plan is the ordered result of planning: programs in declaration order,
// then paths in declaration order.
type Plan struct {
	Repository Repository `json:"repository"`
	Programs   []Program  `json:"programs"`
	Tasks      []LinkTask `json:"tasks"`
}

// CountByState tallies tasks per state
func (p *Plan) CountByState() map[LinkState]int {
	counts := make(map[LinkState]int, len(AllLinkStates))
	for _, t := range p.Tasks {
		counts[t.State]++
	}
	return counts
}
