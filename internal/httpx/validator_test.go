package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
	ISBN     string `json:"isbn" validate:"omitempty,isbn"`
}

func TestValidateStruct_Valid(t *testing.T) {
	details := ValidateStruct(signupForm{
		Email:    "librarian@example.com",
		Username: "librarian",
		Password: "Test123!@#",
		ISBN:     "9780123456789",
	})
	assert.Empty(t, details)
}

func TestValidateStruct_ReportsJSONFieldNames(t *testing.T) {
	details := ValidateStruct(signupForm{Email: "not-an-email", ISBN: "12345"})
	require.NotEmpty(t, details)

	byField := map[string]ErrorDetail{}
	for _, d := range details {
		byField[d.Field] = d
	}

	assert.Equal(t, "email", byField["email"].Code)
	assert.Equal(t, "required", byField["username"].Code)
	assert.Equal(t, "required", byField["password"].Code)
	assert.Equal(t, "isbn", byField["isbn"].Code)
}

func TestValidateISBN(t *testing.T) {
	type isbnOnly struct {
		ISBN string `json:"isbn" validate:"isbn"`
	}
	for _, ok := range []string{"9780123456789", "978-0-12-345678-9", "012345678X"} {
		assert.Empty(t, ValidateStruct(isbnOnly{ISBN: ok}), ok)
	}
	for _, bad := range []string{"", "123", "97801234567890", "ABCDEFGHIJ"} {
		assert.NotEmpty(t, ValidateStruct(isbnOnly{ISBN: bad}), bad)
	}
}
