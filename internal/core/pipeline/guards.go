// Package pipeline contains the pure business logic for the stage pipeline:
// gating on predecessor completion and conserved quantity forwarding.
// This is part of the Functional Core - no I/O, only pure functions.
package pipeline

import (
	"fmt"

	"github.com/example/prodline/internal/core/stage"
)

// Snapshot is the view of one record that the pure pipeline functions
// operate on. Values holds the record's field values keyed by qualified
// name, with booleans encoded "1"/"0". Stages lists the part's enabled
// stage names; order does not matter, gating always follows the canonical
// order.
type Snapshot struct {
	Stages []string
	Values map[string]string
}

// Done reports whether a stage's done flag is set on the record.
func (s Snapshot) Done(stageName string) bool {
	return s.Values[stage.DoneField(stageName)] == "1"
}

// CanEnter evaluates whether work on a stage may begin: every enabled,
// gated stage with a smaller canonical position must be done, and the stage
// itself must not be. Returns nil when entry is allowed.
func CanEnter(snap Snapshot, target string) error {
	if !stage.Known(target) {
		return fmt.Errorf("unknown stage: %s", target)
	}
	enabled := false
	for _, st := range snap.Stages {
		if st == target {
			enabled = true
			break
		}
	}
	if !enabled {
		return fmt.Errorf("stage %s is not enabled for this part", target)
	}
	for _, st := range snap.Stages {
		if st == target || !stage.Gated(st) {
			continue
		}
		if stage.Before(st, target) && !snap.Done(st) {
			return &PredecessorIncompleteError{Stage: st}
		}
	}
	if snap.Done(target) {
		return &AlreadyCompletedError{Stage: target}
	}
	return nil
}
