package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Libr4ry!", nil},
		{"Renew#2024", nil},
		{"Sh0rt!", ErrPasswordTooShort},
		{"overdue123!", ErrPasswordNoUpper},
		{"OVERDUE123!", ErrPasswordNoLower},
		{"Overdue!!!", ErrPasswordNoNumber},
		{"Overdue1234", ErrPasswordNoSpecialChar},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePasswordStrength(tt.password))
		})
	}
}
