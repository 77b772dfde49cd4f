// Package stage defines the canonical production stage order.
// This is part of the Functional Core - no I/O, only pure functions.
package stage

// Canonical production order. Every part flows through a subset of these
// stages; positions are fixed regardless of which stages a part enables.
const (
	Kit                = "kit"
	SMD                = "smd"
	SMDQC              = "smd_qc"
	PreFormingQC       = "pre_forming_qc"
	AccessoriesPacking = "accessories_packing"
	LeadedQC           = "leaded_qc"
	ProdQC             = "prod_qc"
	QC                 = "qc"
	QCImages           = "qc_images"
	Testing            = "testing"
	HeatRun            = "heat_run"
	Glueing            = "glueing"
	Cleaning           = "cleaning"
	Spraying           = "spraying"
	Dispatch           = "dispatch"
)

// Order lists all stages in canonical production order.
var Order = []string{
	Kit,
	SMD,
	SMDQC,
	PreFormingQC,
	AccessoriesPacking,
	LeadedQC,
	ProdQC,
	QC,
	QCImages,
	Testing,
	HeatRun,
	Glueing,
	Cleaning,
	Spraying,
	Dispatch,
}

var positions = func() map[string]int {
	m := make(map[string]int, len(Order))
	for i, name := range Order {
		m[name] = i
	}
	return m
}()

// Position returns the canonical position of a stage and whether the stage
// name is known. Positions start at 0 for "kit".
func Position(name string) (int, bool) {
	pos, ok := positions[name]
	return pos, ok
}

// Known reports whether name is a canonical stage name.
func Known(name string) bool {
	_, ok := positions[name]
	return ok
}

// PreQC reports whether the stage belongs to the in-process group
// (kit through prod_qc). Unknown stages report false.
func PreQC(name string) bool {
	pos, ok := positions[name]
	return ok && pos <= positions[ProdQC]
}

// PostQC reports whether the stage belongs to the completion group
// (qc through dispatch). Unknown stages report false.
func PostQC(name string) bool {
	pos, ok := positions[name]
	return ok && pos >= positions[QC]
}

// Gated reports whether the stage participates in operator-facing gating.
// qc_images is a documentation stage and never gates.
func Gated(name string) bool {
	return Known(name) && name != QCImages
}

// Before reports whether stage a comes strictly before stage b in the
// canonical order. Unknown stages report false.
func Before(a, b string) bool {
	pa, oka := positions[a]
	pb, okb := positions[b]
	return oka && okb && pa < pb
}

// DoneField returns the derived boolean field name that records completion
// of a stage.
func DoneField(name string) string {
	return name + "_done"
}

// DoneByField returns the derived field name that records the operator who
// completed a stage.
func DoneByField(name string) string {
	return name + "_done_by"
}
