package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims and lowers", "  Managua  ", "managua"},
		{"strips diacritics", "León", "leon"},
		{"strips tilde", "Peñas Blancas", "penas blancas"},
		{"already normalized", "san salvador", "san salvador"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  León ", "MANAGUA", "Peñón", "tegucigalpa", "Ciudad de Guatemala", ""}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", s)
	}
}

func TestHeadquarterLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Managua Centro", "managua"},
		{"MANGUA", "managua"},
		{"Sn Salvador", "san salvador"},
		{"León", "leon"},
		{"Tegucigalpa MDC", "tegucigalpa"},
		{"Cd de Guatemala", "guatemala"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HeadquarterLabel(tt.input), "input %q", tt.input)
	}
}

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alumno", "student"},
		{"ESTUDIANTE", "student"},
		{"Profesora", "teacher"},
		{"Dirección", "director"},
		{"student", "student"},
		{"unknown-role-xyz", "unknown-role-xyz"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleLabel(tt.input), "input %q", tt.input)
	}
}

func TestDomainLabelsIdempotent(t *testing.T) {
	// Alias output must itself be a fixed point so a second pass through the
	// normalizer never changes the key.
	for alias, canonical := range headquarterAliases {
		assert.Equal(t, canonical, HeadquarterLabel(alias))
		assert.Equal(t, canonical, HeadquarterLabel(canonical))
	}
	for alias, canonical := range roleAliases {
		assert.Equal(t, canonical, RoleLabel(alias))
		assert.Equal(t, canonical, RoleLabel(canonical))
	}
}
