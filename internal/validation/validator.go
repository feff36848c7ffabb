// Package validation checks request DTOs with go-playground/validator and reports
// failures as domain validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	domainerrors "roomlog/internal/errors"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// halfstep accepts multiples of 0.5, the granularity of review ratings.
	_ = v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		value := fl.Field().Float()
		return math.Mod(value*2, 1) == 0
	})

	return &Validator{v: v}
}

// Validate returns nil or a VALIDATION/INVALID_REQUEST error whose details map
// each failing field to a short message.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domainerrors.Validation(domainerrors.CodeInvalidRequest, err.Error())
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}

	return domainerrors.Validation(domainerrors.CodeInvalidRequest, "validation failed").
		WithDetails(fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "halfstep":
		return "must be a multiple of 0.5"
	default:
		return "is invalid"
	}
}
