// Package validation wraps go-playground/validator with English messages and JSON
// field names, for validating request bodies.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const notBlankTag = "notblank"

// Validator validates structs and renders failures per JSON field.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with the default English translations and the notblank tag.
func New() (*Validator, error) {
	v := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(notBlankTag, validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register %s: %w", notBlankTag, err)
	}
	err := v.RegisterTranslation(notBlankTag, trans,
		func(t ut.Translator) error { return t.Add(notBlankTag, "{0} must not be blank", true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(notBlankTag, fe.Field())
			return msg
		})
	if err != nil {
		return nil, fmt.Errorf("register %s translation: %w", notBlankTag, err)
	}

	return &Validator{validate: v, translator: trans}, nil
}

// MustNew is like New but panics on a registration error.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct validates s. The error, if any, is a validator.ValidationErrors.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// Fields maps each failing JSON field to a readable message. It returns nil when err
// is not a validation error.
func (v *Validator) Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}
