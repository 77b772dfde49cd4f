package schema

import "testing"

func TestQualify(t *testing.T) {
	tests := []struct {
		name      string
		stageName string
		base      string
		want      string
	}{
		{"plain field gets prefix", "smd", "available_quantity", "smd_available_quantity"},
		{"already prefixed stays", "smd", "smd_available_quantity", "smd_available_quantity"},
		{"no double prefix on re-qualification", "kit", "kit_kit_no", "kit_kit_no"},
		{"longer stage prefix", "smd_qc", "count", "smd_qc_count"},
		{"prefix of prefix is not the prefix", "smd_qc", "smd_count", "smd_qc_smd_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualify(tt.stageName, tt.base); got != tt.want {
				t.Errorf("Qualify(%q, %q) = %q, want %q", tt.stageName, tt.base, got, tt.want)
			}
		})
	}
}

func TestQualifyIsIdempotent(t *testing.T) {
	once := Qualify("smd", "count")
	if twice := Qualify("smd", once); twice != once {
		t.Errorf("Qualify applied twice = %q, want %q", twice, once)
	}
}

func TestOwningStage(t *testing.T) {
	stages := []string{"kit", "smd", "smd_qc"}

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"smd_available_quantity", "smd", true},
		{"smd_qc_available_quantity", "smd_qc", true},
		{"smd_qc_done", "smd_qc", true},
		{"smd_done", "smd", true},
		{"kit_no", "kit", true},
		{"serial_number", "", false},
	}

	for _, tt := range tests {
		got, ok := OwningStage(tt.field, stages)
		if got != tt.want || ok != tt.ok {
			t.Errorf("OwningStage(%q) = %q, %v, want %q, %v", tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSanitizePart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EICS145", "eics145"},
		{"EICS-145/B", "eics_145_b"},
		{"145X", "p_145x"},
		{"  Weird  Part  ", "weird_part"},
		{"", "part"},
	}

	for _, tt := range tests {
		if got := SanitizePart(tt.in); got != tt.want {
			t.Errorf("SanitizePart(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableName(t *testing.T) {
	if got := TableName("EICS145", InProcess); got != "eics145_in_process" {
		t.Errorf("TableName in_process = %q", got)
	}
	if got := TableName("EICS145", Completion); got != "eics145_completion" {
		t.Errorf("TableName completion = %q", got)
	}
}
