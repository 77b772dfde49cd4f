package schema

import (
	"sort"

	"github.com/example/prodline/internal/core/stage"
)

// BuildSchemas derives the in-process and completion schemas for a part
// from its ordered stage definitions. The derivation is deterministic:
// rebuilding with an unchanged configuration yields identical schemas.
//
// Disabled stages contribute nothing. Enabled stages contribute their
// implicit done/done_by control fields plus every declared field, with
// names qualified exactly once by the owning stage prefix.
func BuildSchemas(partNumber string, stages []StageDefinition) (Pair, error) {
	if partNumber == "" {
		return Pair{}, &ConfigurationError{Reason: "part number is required"}
	}

	if err := validateStages(partNumber, stages); err != nil {
		return Pair{}, err
	}

	enabled := enabledNames(stages)

	type owned struct {
		spec     FieldSpec
		position int
	}
	var inProcess, completion []owned
	seen := map[Which]map[string]string{
		InProcess:  {},
		Completion: {},
	}

	for _, st := range stages {
		if !st.Enabled {
			continue
		}

		defs := append(stageControlFields(st.Name), st.Fields...)
		for _, def := range defs {
			qualified := Qualify(st.Name, def.Name)
			if !ValidIdent(qualified) {
				return Pair{}, &ConfigurationError{
					Part: partNumber, Stage: st.Name, Field: def.Name,
					Reason: "field name must be a lower-case snake_case identifier",
				}
			}

			// Ownership by longest matching stage prefix, not by the
			// declaring stage: "smd_qc_count" declared under smd still
			// belongs to smd_qc.
			owner, ok := OwningStage(qualified, enabled)
			if !ok {
				owner = st.Name
			}
			pos, _ := stage.Position(owner)

			which := InProcess
			if stage.PostQC(owner) {
				which = Completion
			}
			if prev, dup := seen[which][qualified]; dup {
				return Pair{}, &ConfigurationError{
					Part: partNumber, Stage: st.Name, Field: def.Name,
					Reason: "qualified name " + qualified + " already produced by stage " + prev,
				}
			}
			seen[which][qualified] = st.Name

			spec := FieldSpec{
				QualifiedName: qualified,
				Kind:          def.Kind,
				Label:         def.Label,
				Section:       owner,
			}
			if spec.Label == "" {
				spec.Label = labelFor(def.Name)
			}
			if which == Completion {
				completion = append(completion, owned{spec, pos})
			} else {
				inProcess = append(inProcess, owned{spec, pos})
			}
		}
	}

	order := func(fields []owned) []FieldSpec {
		sort.SliceStable(fields, func(i, j int) bool {
			if fields[i].position != fields[j].position {
				return fields[i].position < fields[j].position
			}
			return fields[i].spec.QualifiedName < fields[j].spec.QualifiedName
		})
		specs := make([]FieldSpec, len(fields))
		for i, f := range fields {
			specs[i] = f.spec
		}
		return specs
	}

	pair := Pair{
		InProcess: &PartSchema{
			PartNumber: partNumber,
			Which:      InProcess,
			TableName:  TableName(partNumber, InProcess),
			Fields:     order(inProcess),
			Timestamps: true,
		},
		Completion: &PartSchema{
			PartNumber: partNumber,
			Which:      Completion,
			TableName:  TableName(partNumber, Completion),
			Fields:     append(commonFields(), order(completion)...),
			Timestamps: true,
		},
	}
	return pair, nil
}

func validateStages(partNumber string, stages []StageDefinition) error {
	lastPos := -1
	for _, st := range stages {
		if !stage.Known(st.Name) {
			return &ConfigurationError{
				Part: partNumber, Stage: st.Name,
				Reason: "unknown stage name",
			}
		}
		if st.Position <= lastPos {
			return &ConfigurationError{
				Part: partNumber, Stage: st.Name,
				Reason: "stage positions must strictly increase",
			}
		}
		lastPos = st.Position
		for _, def := range st.Fields {
			if def.Kind != KindText && def.Kind != KindBoolean {
				return &ConfigurationError{
					Part: partNumber, Stage: st.Name, Field: def.Name,
					Reason: "field kind must be text or boolean",
				}
			}
		}
	}
	return nil
}

func enabledNames(stages []StageDefinition) []string {
	var names []string
	for _, st := range stages {
		if st.Enabled {
			names = append(names, st.Name)
		}
	}
	return names
}
