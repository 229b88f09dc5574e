package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

var validate = validator.New()

type linkForm struct {
	URL string `validate:"required,url"`
}

type credentialsForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=5"`
}

// fieldMessages maps "Field.tag" to the message shown to the user
type fieldMessages map[string]string

var (
	linkMessages = fieldMessages{
		"URL.required": "Enter a valid URL",
		"URL.url":      "Enter a valid URL",
	}
	loginMessages = fieldMessages{
		"Email.required":    "Invalid email",
		"Email.email":       "Invalid email",
		"Password.required": "Password too short",
		"Password.min":      "Password too short",
	}
	signupMessages = fieldMessages{
		"Email.required":    "Invalid email",
		"Email.email":       "Invalid email",
		"Password.required": "Password must be at least 5 characters",
		"Password.min":      "Password must be at least 5 characters",
	}
)

func validateLink(longURL string) error {
	return check(linkForm{URL: strings.TrimSpace(longURL)}, linkMessages)
}

func validateLogin(creds domain.Credentials) error {
	return check(credentialsForm{Email: creds.Email, Password: creds.Password}, loginMessages)
}

func validateSignup(creds domain.Credentials) error {
	return check(credentialsForm{Email: creds.Email, Password: creds.Password}, signupMessages)
}

// check returns a validation ActionError for the first failing field, or nil
func check(form interface{}, messages fieldMessages) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		if msg, ok := messages[first.Field()+"."+first.Tag()]; ok {
			return domain.NewValidationError(msg)
		}
		return domain.NewValidationError("Invalid " + strings.ToLower(first.Field()))
	}
	return domain.NewValidationError(domain.GenericMessage)
}
