package schema

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid stage or field specification.
// No partial schema is ever produced alongside one.
type ConfigurationError struct {
	Part   string
	Stage  string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid procedure configuration")
	if e.Part != "" {
		fmt.Fprintf(&b, " for part %s", e.Part)
	}
	if e.Stage != "" {
		fmt.Fprintf(&b, ", stage %s", e.Stage)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ", field %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	return b.String()
}

// FieldNotFoundError reports that field resolution exhausted all candidate
// names. Both the candidates tried and the fields available are listed for
// diagnosis.
type FieldNotFoundError struct {
	Candidates []string
	Available  []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("no field matches candidates [%s]; available fields: [%s]",
		strings.Join(e.Candidates, ", "), strings.Join(e.Available, ", "))
}
