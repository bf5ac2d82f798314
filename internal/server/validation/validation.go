// Package validation checks request payloads with go-playground/validator and
// reports failures as *common.ValidationError naming the offending fields by
// their JSON names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ruchidavda1/todoapp/internal/common"
	"github.com/ruchidavda1/todoapp/internal/server/models"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// date accepts YYYY-MM-DD or RFC 3339.
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})

	// priority accepts one of the models.Priority values.
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Struct validates s against its `validate` tags.
func (v *Validator) Struct(s any) error {
	return v.translate("", v.v.Struct(s))
}

// Var validates a single value under the given field name.
func (v *Validator) Var(field string, value any, tag string) error {
	return v.translate(field, v.v.Var(value, tag))
}

func (v *Validator) translate(field string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if name == "" {
			name = field
		}
		details = append(details, message(name, fe))
	}

	return common.NewValidationError(details...)
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "priority":
		return field + " must be one of: low, medium, high"
	case "date":
		return field + " must be a date (YYYY-MM-DD)"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
