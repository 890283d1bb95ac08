package validator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/trimly/internal/pkg/strcase"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(map[string]string(vs))
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator builds a validator with English messages and the custom tags.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	lang := en.New()
	trans, ok := ut.New(lang, lang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	rules := []struct {
		tag string
		msg string
		fn  func(string) bool
	}{
		{tag: "identity", msg: "{0} must be a valid email identity", fn: IsIdentity},
	}

	for _, rule := range rules {
		fn := rule.fn
		if err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && fn(s)
		}); err != nil {
			return nil, err
		}

		if err := registerMessage(validate, trans, rule.tag, rule.msg); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, msg string) error {
	return validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, msg, false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

// Validate returns V10ValidationError when data breaks a rule.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return out
}
