package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected before any state changes
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

// ValidateStruct checks validate tags and wraps failures in ErrValidation.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", e.Field(), e.Tag(), e.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// RequireText trims s and fails when nothing is left
func RequireText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return s, nil
}
