package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"locallibrary/internal/platform/crypto"
)

var validate *validator.Validate

var (
	isbn10Re = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Re = regexp.MustCompile(`^\d{13}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	_ = validate.RegisterValidation("isbn", validateISBN)
	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// jsonFieldName reports fields by their JSON name so details match the
// request body the client sent.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	switch len(isbn) {
	case 10:
		return isbn10Re.MatchString(isbn)
	case 13:
		return isbn13Re.MatchString(isbn)
	}
	return false
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	return crypto.ValidatePasswordStrength(fl.Field().String()) == nil
}

// ValidateStruct runs the validate tags on s and returns one detail per
// failing field, or nil.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ErrorDetail{{Field: "", Code: "invalid", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		tag := fe.Tag()
		param := fe.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
		case "password_strength":
			message = fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, param)
		case "gt", "gte", "lt", "lte":
			message = fmt.Sprintf("%s is out of range", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{
			Field:   field,
			Code:    tag,
			Message: message,
		})
	}

	return details
}
