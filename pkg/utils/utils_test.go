package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(24)
	assert.Len(t, s, 24)

	// Two draws colliding would mean the source is not random at all.
	assert.NotEqual(t, s, GenerateRandomString(24))

	assert.Empty(t, GenerateRandomString(0))
	assert.Empty(t, GenerateRandomString(-3))
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"normal address", "maria.lopez@example.com", "ma***@example.com"},
		{"short local part", "m@example.com", "m***@example.com"},
		{"no at sign", "not-an-email", "***"},
		{"empty", "", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}
