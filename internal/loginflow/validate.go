package loginflow

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// form mirrors Credentials with the email already trimmed.
// Field order decides which message wins when both are missing.
type form struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var requiredMessages = map[string]string{
	"Email":    "Email is required",
	"Password": "Password is required",
}

// Validate returns the message for the first missing field, or "" when
// the credentials can be submitted
func Validate(creds Credentials) string {
	err := validate.Struct(form{
		Email:    strings.TrimSpace(creds.Email),
		Password: creds.Password,
	})
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := requiredMessages[fieldErrs[0].Field()]; ok {
			return msg
		}
		return fieldErrs[0].Error()
	}
	return err.Error()
}
