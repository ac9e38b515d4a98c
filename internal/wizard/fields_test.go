package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	assert.True(t, Required("x"))
	assert.True(t, Required("  x "))
	assert.False(t, Required(""))
	assert.False(t, Required(" \t\n"))
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"jane.doe@example.com", true},
		{"a@b", false},
		{"a @b.co", false},
		{"@b.co", false},
		{"a@@b.co", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.in))
		})
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("(555) 123-4567"))
	assert.True(t, ValidPhone("+1 555 123 4567"))
	assert.False(t, ValidPhone("555-1234"))
	assert.False(t, ValidPhone(""))
}

func TestValidZIP(t *testing.T) {
	for _, ok := range []string{"94105", "94105-1234"} {
		assert.True(t, ValidZIP(ok), ok)
	}
	for _, bad := range []string{"9410", "abcde", "94105-12", "941051", " 94105"} {
		assert.False(t, ValidZIP(bad), bad)
	}
}

func TestValidCardNumber(t *testing.T) {
	assert.True(t, ValidCardNumber("4111 1111 1111 1111"))
	assert.True(t, ValidCardNumber("4111111111111111"))
	assert.False(t, ValidCardNumber("4111 1111 1111 111"))
	assert.False(t, ValidCardNumber(""))
}

func TestValidPropertySize(t *testing.T) {
	assert.True(t, ValidPropertySize("2500"))
	assert.True(t, ValidPropertySize("0.5"))
	assert.False(t, ValidPropertySize("0"))
	assert.False(t, ValidPropertySize("-10"))
	assert.False(t, ValidPropertySize("big"))
	assert.False(t, ValidPropertySize("NaN"))
	assert.False(t, ValidPropertySize("Inf"))
	assert.False(t, ValidPropertySize(""))
}
