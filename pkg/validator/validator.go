package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/go-playground/validator/v10"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 256
	MaxSlugLength     = 50
	MinScore          = 1
	MaxScore          = 10
)

// ReservedUsername is routed to the self-profile endpoint and can never
// be registered.
const ReservedUsername = "me"

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9.@+_-]+$`)
	slugRegex     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Username validates the signup username rules: allowed charset, length
// and the reserved word.
func Username(username string) error {
	if username == "" {
		return apperror.Validation("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return apperror.Validation("username", fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		return apperror.Validation("username", "username may only contain letters, digits and . @ + - _")
	}
	if username == ReservedUsername {
		return apperror.Validation("username", fmt.Sprintf("username cannot be %q", ReservedUsername))
	}
	return nil
}

// Slug validates the URL-safe lookup key of categories and genres.
func Slug(slug string) error {
	if slug == "" {
		return apperror.Validation("slug", "slug is required")
	}
	if len(slug) > MaxSlugLength {
		return apperror.Validation("slug", fmt.Sprintf("slug must be at most %d characters", MaxSlugLength))
	}
	if !slugRegex.MatchString(slug) {
		return apperror.Validation("slug", "slug may only contain lowercase letters, digits and hyphens")
	}
	return nil
}

// Year rejects publication years in the future.
func Year(year int) error {
	if year > time.Now().Year() {
		return apperror.Validation("year", "year cannot be greater than the current year")
	}
	return nil
}

// Score checks the review score range.
func Score(score int) error {
	if score < MinScore || score > MaxScore {
		return apperror.Validation("score", fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore))
	}
	return nil
}

// Role checks membership in the closed role set.
func Role(role string) error {
	switch role {
	case "user", "moderator", "admin":
		return nil
	}
	return apperror.Validation("role", "role must be one of: user, moderator, admin")
}

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

// AsFieldErrors converts binding errors into the field-scoped taxonomy so
// handlers reply with {"<field>": "<message>"} bodies.
func AsFieldErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Validation("body", err.Error())
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[strings.ToLower(fieldError.Field())] = getFieldErrorMessage(fieldError)
	}
	return &apperror.ValidationError{Fields: fields}
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
