package types

// Outcome is the per-task result of reconciliation
type Outcome string

const (
	OutcomeLinked        Outcome = "linked"
	OutcomeAlreadyLinked Outcome = "already-linked"
	OutcomeRelinked      Outcome = "relinked"
	OutcomeConflict      Outcome = "conflict"
	OutcomeError         Outcome = "error"
	// OutcomeSkipped marks tasks not reached because the run was cancelled
	OutcomeSkipped Outcome = "skipped"
)

// AllOutcomes lists outcomes in display order
var AllOutcomes = []Outcome{
	OutcomeLinked,
	OutcomeRelinked,
	OutcomeAlreadyLinked,
	OutcomeConflict,
	OutcomeError,
	OutcomeSkipped,
}

// IsProblem reports whether the outcome needs manual attention
func (o Outcome) IsProblem() bool {
	return o == OutcomeConflict || o == OutcomeError
}

// IsChange reports whether the outcome created or replaced a link
func (o Outcome) IsChange() bool {
	return o == OutcomeLinked || o == OutcomeRelinked
}
