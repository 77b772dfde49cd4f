// Package procfile parses procedure configuration files. The file is the
// operator-facing way to configure a part's stages without the excluded
// web UI.
package procfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/prodline/internal/ports/primary"
)

// File is the YAML shape of a procedure configuration.
type File struct {
	PartNumber string  `yaml:"part_number"`
	Stages     []Stage `yaml:"stages"`
}

// Stage is one stage entry of a procedure file. Enabled defaults to true:
// listing a stage opts it in.
type Stage struct {
	Name             string   `yaml:"name"`
	Enabled          *bool    `yaml:"enabled"`
	Fields           []Field  `yaml:"fields"`
	CustomFields     []string `yaml:"custom_fields"`
	CustomCheckboxes []string `yaml:"custom_checkboxes"`
}

// Field is one declared field of a stage entry.
type Field struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
}

// Load reads and parses a procedure file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read procedure file: %w", err)
	}
	return Parse(data)
}

// Parse parses procedure file content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse procedure file: %w", err)
	}
	if f.PartNumber == "" {
		return nil, fmt.Errorf("procedure file is missing part_number")
	}
	if len(f.Stages) == 0 {
		return nil, fmt.Errorf("procedure file for part %s lists no stages", f.PartNumber)
	}
	return &f, nil
}

// ToRequest converts the parsed file to a configuration request.
func (f *File) ToRequest() primary.SaveProcedureRequest {
	req := primary.SaveProcedureRequest{PartNumber: f.PartNumber}
	for _, st := range f.Stages {
		in := primary.StageInput{
			Name:             st.Name,
			Enabled:          st.Enabled == nil || *st.Enabled,
			CustomFields:     st.CustomFields,
			CustomCheckboxes: st.CustomCheckboxes,
		}
		for _, fd := range st.Fields {
			in.Fields = append(in.Fields, primary.FieldInput{
				Name:  fd.Name,
				Kind:  fd.Kind,
				Label: fd.Label,
			})
		}
		req.Stages = append(req.Stages, in)
	}
	return req
}
