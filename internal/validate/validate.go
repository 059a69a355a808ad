// Package validate checks configuration structs against their declared
// `validate` tags and reports failures as field-keyed, human readable
// messages.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adamwoolhether/fetch/internal/charset"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("validate: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(fieldName)

	if err := validate.RegisterValidation("charset", isCharset); err != nil {
		panic(err)
	}

	register := func(t ut.Translator) error {
		return t.Add("charset", "{0} must name a supported character set", true)
	}
	translate := func(t ut.Translator, fe validator.FieldError) string {
		msg, err := t.T("charset", fe.Field())
		if err != nil {
			return fe.Error()
		}
		return msg
	}
	if err := validate.RegisterTranslation("charset", translator, register, translate); err != nil {
		panic(err)
	}
}

// Check validates val against its declared tags. A failure is returned as
// [FieldErrors].
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		fields := make(FieldErrors, 0, len(verrors))
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Err:   message(verror),
			})
		}

		return fields
	}

	return nil
}

// FieldError is a single validation failure for one field.
type FieldError struct {
	Field string
	Err   string
}

// FieldErrors is every validation failure of one struct.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}

	return strings.Join(parts, "; ")
}

// Fields returns the failures keyed by field name.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}

	return m
}

// fieldName reports fields by the key they are configured under.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}

	return fld.Name
}

func isCharset(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}

	_, err := charset.Lookup(name)
	return err == nil
}

func message(verror validator.FieldError) string {
	switch verror.Tag() {
	case "required":
		return "This field is required"
	default:
		return verror.Translate(translator)
	}
}
