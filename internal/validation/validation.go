// Package validation checks request DTOs with go-playground/validator tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ovaphlow/pitchfork/service-youapp/internal/apperr"
)

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// RE2 has no lookahead, so the character-class rule is a function.
	_ = v.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
		return PasswordHasRequiredClasses(fl.Field().String())
	})
	return v
}

// PasswordHasRequiredClasses reports whether s has an ASCII uppercase letter,
// an ASCII digit and a symbol from the accepted set.
func PasswordHasRequiredClasses(s string) bool {
	var upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && digit && symbol
}

// Struct validates v and returns an apperr validation error listing each
// failing field by its JSON name.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return apperr.Validation("invalid_input", "Validation failed", fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "excludes":
		return fmt.Sprintf("must not contain %q", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "password_policy":
		return "must contain an uppercase letter, a number and a special character"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "gte", "lte", "gt", "lt":
		return fmt.Sprintf("is out of range (%s %s)", fe.Tag(), fe.Param())
	default:
		return "is invalid"
	}
}
