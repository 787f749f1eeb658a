package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// error messages name fields by their label tag
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against a tag expression.
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}

func FormatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		case "email":
			msgs = append(msgs, e.Field()+" must be a valid email")
		case "url":
			msgs = append(msgs, e.Field()+" must be a valid URL")
		case "min", "gte":
			msgs = append(msgs, e.Field()+" must be at least "+e.Param())
		case "max", "lte":
			msgs = append(msgs, e.Field()+" must be at most "+e.Param())
		case "oneof":
			msgs = append(msgs, e.Field()+" must be one of: "+strings.ReplaceAll(e.Param(), " ", ", "))
		default:
			msgs = append(msgs, e.Field()+" is not valid")
		}
	}
	return strings.Join(msgs, "; ")
}
