package schema

import "strings"

// Resolution is the outcome of resolving a logical field name against a
// schema. Fuzzy is set when the fallback (normalized) path matched instead
// of an exact name; callers should log such hits, as they indicate a
// configuration whose field names drifted from the derivation rule.
type Resolution struct {
	Field FieldSpec
	Fuzzy bool
}

// ResolveField finds the schema field for a prioritized list of plausible
// logical names (e.g. ["kit_no", "kit_kit_no"]). Exact matches win; when
// none exists, names are compared with underscores stripped and case
// folded, accepting equality or containment in either direction. The first
// candidate that matches anything wins.
//
// This tolerance is a compatibility shim for historically inconsistent
// prefixing, not a design goal: the qualification rule in Qualify is
// authoritative for all new configurations.
func ResolveField(s *PartSchema, candidates []string) (Resolution, error) {
	for _, cand := range candidates {
		if f, ok := s.Field(cand); ok {
			return Resolution{Field: f}, nil
		}
	}

	for _, cand := range candidates {
		norm := normalizeName(cand)
		if norm == "" {
			continue
		}
		for _, f := range s.Fields {
			fn := normalizeName(f.QualifiedName)
			if fn == norm || strings.Contains(fn, norm) || strings.Contains(norm, fn) {
				return Resolution{Field: f, Fuzzy: true}, nil
			}
		}
	}

	return Resolution{}, &FieldNotFoundError{
		Candidates: append([]string(nil), candidates...),
		Available:  s.FieldNames(),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}
