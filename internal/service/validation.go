package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/art-studio-api/internal/schedule"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
)

const (
	weekdayTag = "weekday"
	timeTag    = "hhmm"
)

var (
	validatorOnce  sync.Once
	sharedValidate *validator.Validate
	translator     ut.Translator
)

// NewValidator returns the process-wide validator that knows the schedule
// tags, reports JSON field names and renders English messages. It is built
// once and is safe for concurrent use.
func NewValidator() *validator.Validate {
	validatorOnce.Do(func() {
		sharedValidate, translator = buildValidator()
	})
	return sharedValidate
}

func buildValidator() (*validator.Validate, ut.Translator) {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		return schedule.IsValidWeekday(fl.Field().String())
	})
	_ = v.RegisterValidation(timeTag, func(fl validator.FieldLevel) bool {
		return schedule.IsValidTime(fl.Field().String())
	})

	_en := en.New()
	trans, _ := ut.New(_en, _en).GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(v, trans)
	registerMessage(v, trans, weekdayTag, "{0} must be a day of the week (Monday to Sunday)")
	registerMessage(v, trans, timeTag, "{0} must use the HH:mm format")

	return v, trans
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
}

// checkField runs a single validator tag against value and converts the first
// failure into a validation error naming field.
func checkField(v *validator.Validate, field, value, tag string) error {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+field)
	}
	switch fieldErrs[0].Tag() {
	case "required":
		return appErrors.Invalid(field, "missing required field: "+field)
	case weekdayTag:
		return appErrors.Invalid(field, "invalid "+field+": must be a day of the week (Monday to Sunday)")
	case timeTag:
		return appErrors.Invalid(field, "invalid "+field+" format: use HH:mm")
	}
	return appErrors.Invalid(field, "invalid "+field)
}

// structError converts validator.Struct output into a validation error that
// names the first offending field.
func structError(err error, message string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	first := fieldErrs[0]
	text := message
	if translator != nil {
		text = first.Translate(translator)
	}
	return appErrors.Invalid(first.Field(), text)
}
