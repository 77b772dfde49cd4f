package pipeline

import "fmt"

// PredecessorIncompleteError rejects entry to a stage while an earlier
// enabled stage is still open. Stage names the offender.
type PredecessorIncompleteError struct {
	Stage string
}

func (e *PredecessorIncompleteError) Error() string {
	return fmt.Sprintf("stage %s is not complete", e.Stage)
}

// AlreadyCompletedError rejects reentry to a stage whose done flag is set.
type AlreadyCompletedError struct {
	Stage string
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("stage %s is already completed", e.Stage)
}

// InsufficientQuantityError rejects a forward that asks for more units than
// the stage currently holds.
type InsufficientQuantityError struct {
	Field     string
	Current   int
	Requested int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity in %s: have %d, requested %d", e.Field, e.Current, e.Requested)
}

// CrossSchemaForwardError rejects automatic quantity propagation between
// the in-process and completion schemas. The boundary at production QC is
// crossed by creating a completion record, never by forwarding.
type CrossSchemaForwardError struct {
	From string
	To   string
}

func (e *CrossSchemaForwardError) Error() string {
	return fmt.Sprintf("cannot forward from %s to %s: stages live in different schemas", e.From, e.To)
}
