package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"locallibrary/internal/catalog"
)

func TestValidateRenewalDate(t *testing.T) {
	today := catalog.Date(2024, time.January, 1)

	tests := []struct {
		name     string
		proposed time.Time
		wantErr  error
	}{
		{"today", today, nil},
		{"yesterday", catalog.Date(2023, time.December, 31), ErrPastDate},
		{"three weeks", catalog.Date(2024, time.January, 22), nil},
		{"last allowed day", catalog.Date(2024, time.January, 29), nil},
		{"one day past window", catalog.Date(2024, time.January, 30), ErrTooFarInFuture},
		{"far past", catalog.Date(1999, time.June, 1), ErrPastDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRenewalDate(tt.proposed, today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.proposed, got)
		})
	}
}

func TestValidateRenewalDate_IgnoresClockTime(t *testing.T) {
	today := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	proposed := catalog.Date(2024, time.January, 1)

	got, err := ValidateRenewalDate(proposed, today)
	assert.NoError(t, err)
	assert.Equal(t, proposed, got)
}

func TestProposedRenewalDate(t *testing.T) {
	assert.Equal(t, catalog.Date(2024, time.January, 22), ProposedRenewalDate(catalog.Date(2024, time.January, 1)))
	assert.Equal(t, catalog.Date(2024, time.March, 14), ProposedRenewalDate(catalog.Date(2024, time.February, 22)))
}

func TestParseRenewalDate(t *testing.T) {
	got, err := ParseRenewalDate("2024-01-15")
	assert.NoError(t, err)
	assert.Equal(t, catalog.Date(2024, time.January, 15), got)

	got, err = ParseRenewalDate("01/15/2024")
	assert.NoError(t, err)
	assert.Equal(t, catalog.Date(2024, time.January, 15), got)

	for _, input := range []string{"", "soon", "2024-13-01", "15/01/2024"} {
		_, err := ParseRenewalDate(input)
		assert.ErrorIs(t, err, ErrInvalidInput, input)
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "invalid", ErrorCode(ErrInvalidInput))
	assert.Equal(t, "past_date", ErrorCode(ErrPastDate))
	assert.Equal(t, "too_far_in_future", ErrorCode(ErrTooFarInFuture))
	assert.Equal(t, "", ErrorCode(ErrNotFound))
}

func TestRenewalState_String(t *testing.T) {
	assert.Equal(t, "awaiting_input", AwaitingInput.String())
	assert.Equal(t, "validating", Validating.String())
	assert.Equal(t, "persisted", Persisted.String())
	assert.Equal(t, "redisplay_with_error", RedisplayWithError.String())
}
