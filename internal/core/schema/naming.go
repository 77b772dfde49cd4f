package schema

import (
	"regexp"
	"strings"

	"github.com/example/prodline/internal/core/stage"
)

// identPattern is the only shape accepted for stage and field names. It is
// also what makes the dynamically built SQL safe: every physical identifier
// passes through this check before any DDL or DML is generated from it.
var identPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidIdent reports whether name is an acceptable physical identifier.
func ValidIdent(name string) bool {
	return identPattern.MatchString(name)
}

// Qualify derives the physical column name for a field declared under a
// stage: stageName + "_" + base, unless base already carries the prefix.
// This is the single place the prefix rule lives; callers must never
// re-apply it.
func Qualify(stageName, base string) string {
	if strings.HasPrefix(base, stageName+"_") {
		return base
	}
	return stageName + "_" + base
}

// OwningStage returns the stage that owns a qualified field name, chosen by
// longest-prefix match over the given stage names. A name like
// "smd_qc_done" belongs to "smd_qc", not "smd", even though both prefixes
// match textually.
func OwningStage(qualifiedName string, stages []string) (string, bool) {
	best := ""
	for _, s := range stages {
		if strings.HasPrefix(qualifiedName, s+"_") && len(s) > len(best) {
			best = s
		}
	}
	return best, best != ""
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizePart converts a part number to its physical table-name stem:
// lower-cased, runs of non-alphanumerics collapsed to single underscores,
// and a leading digit prefixed with "p_" so the result is a legal
// identifier.
func SanitizePart(partNumber string) string {
	s := strings.ToLower(partNumber)
	s = nonAlnum.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "part"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "p_" + s
	}
	return s
}

// TableName returns the backing table name for one half of a part's schema
// pair, e.g. "eics145_in_process".
func TableName(partNumber string, which Which) string {
	return SanitizePart(partNumber) + "_" + string(which)
}

// labelFor derives a human label from a base field name when the
// configuration does not supply one.
func labelFor(base string) string {
	words := strings.Split(base, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// commonFields are the identifying fields seeded on the completion schema.
// In-process entries are distinct units not yet serialized, so they carry
// neither.
func commonFields() []FieldSpec {
	return []FieldSpec{
		{QualifiedName: "usid", Kind: KindText, Label: "USID", IsCommon: true},
		{QualifiedName: "serial_number", Kind: KindText, Label: "Serial Number", IsCommon: true},
	}
}

// stageControlFields are the implicit completion-tracking fields every
// enabled stage contributes.
func stageControlFields(stageName string) []FieldDef {
	return []FieldDef{
		{Name: stage.DoneField(stageName), Kind: KindBoolean, Label: labelFor(stageName) + " Done"},
		{Name: stage.DoneByField(stageName), Kind: KindText, Label: labelFor(stageName) + " Done By"},
	}
}
