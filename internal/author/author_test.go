package author

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"locallibrary/internal/catalog"
)

func ptr(t time.Time) *time.Time { return &t }

func TestValidateLifespan(t *testing.T) {
	tests := []struct {
		name  string
		birth *time.Time
		death *time.Time
		want  error
	}{
		{"no dates", nil, nil, nil},
		{"only birth", ptr(catalog.Date(1920, 1, 2)), nil, nil},
		{"only death", nil, ptr(catalog.Date(1992, 4, 6)), nil},
		{"same day", ptr(catalog.Date(1920, 1, 2)), ptr(catalog.Date(1920, 1, 2)), nil},
		{"ordered", ptr(catalog.Date(1920, 1, 2)), ptr(catalog.Date(1992, 4, 6)), nil},
		{"death first", ptr(catalog.Date(1992, 4, 6)), ptr(catalog.Date(1920, 1, 2)), ErrDeathBeforeBirth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLifespan(catalog.Author{DateOfBirth: tt.birth, DateOfDeath: tt.death})
			assert.ErrorIs(t, err, tt.want)
			if tt.want == nil {
				assert.NoError(t, err)
			}
		})
	}
}
