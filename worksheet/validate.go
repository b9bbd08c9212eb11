package worksheet

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("question_kind", func(fl validator.FieldLevel) bool {
		return QuestionKind(fl.Field().String()).Valid()
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("question_kind", trans,
		func(t ut.Translator) error {
			return t.Add("question_kind", "{0} must be a supported question type", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("question_kind", fe.Field())
			return msg
		},
	)
}

// ValidationError maps field paths (json names, e.g. "question_types[0].count")
// to human readable messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

// checkStruct runs struct tag validation and returns a *ValidationError, or
// nil when v is valid.
func checkStruct(v any) *ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	out := &ValidationError{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out.add("detail", err.Error())
		return out
	}
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out.add(ns, fe.Translate(trans))
	}
	return out
}

// ValidateConfig checks a single question-type config.
func ValidateConfig(c QuestionTypeConfig) error {
	if ve := checkStruct(c); ve != nil {
		return ve
	}
	return nil
}

// ValidateItems checks individually authored items.
func ValidateItems(items []Item) error {
	out := &ValidationError{}
	for i, it := range items {
		if ve := checkStruct(it); ve != nil {
			for k, msg := range ve.Fields {
				out.add(fmt.Sprintf("questions[%d].%s", i, k), msg)
			}
		}
	}
	if len(out.Fields) > 0 {
		return out
	}
	return nil
}
