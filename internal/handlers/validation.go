package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"productapi/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// fieldMessages holds the client-facing message per "field.tag" pair.
var fieldMessages = map[string]string{
	"id.required":        "Product id cannot be null",
	"name.required":      "Product name cannot be null",
	"name.min":           "Product name must be between 2 and 100 characters",
	"name.max":           "Product name must be between 2 and 100 characters",
	"brand.required":     "Product brand cannot be null",
	"price.gte":          "Product price cannot be negative",
	"category.required":  "Product category cannot be null",
	"available.required": "Product status cannot be null",
	"quantity.gte":       "Product quantity cannot be negative",
}

// newValidator reports JSON field names and compares decimals as floats.
func newValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return validate
}

// validateStruct runs the struct rules and converts failures into a ValidationError.
func validateStruct(validate *validator.Validate, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fieldMessage(e.Field(), e.Tag())
	}
	return &apperrors.ValidationError{Fields: fields}
}

func fieldMessage(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, tag)
}
