package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// FieldError is a single field-level validation message
type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries the draft to redisplay and what is wrong with it
type ValidationError struct {
	Draft  Draft
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks the draft and returns a *ValidationError when it is not
// fit to be persisted
func (d Draft) Validate(policy YearPolicy) error {
	var errs []FieldError
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating book: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, FieldError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("Please provide a value for %q", fe.Field()),
			})
		}
	}
	if policy == YearNumeric {
		if err := validate.Var(d.Year, "omitempty,number"); err != nil {
			errs = append(errs, FieldError{
				Field:   "Year",
				Message: `"Year" must be a whole number`,
			})
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Draft: d, Errors: errs}
	}
	return nil
}
