package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// Validator wraps go-playground/validator and reports failures as
// entities.ValidationError field maps keyed by wire name.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// New creates a validator with the dashboard's custom rules registered
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("isodate", isoDate)
	_ = v.RegisterValidation("hhmm", timeOfDay)

	return &Validator{
		validate: v,
		messages: map[string]string{
			"team.min":      "At least one team member is required",
			"team.notblank": "Team member ids must not be empty",
		},
	}
}

// Struct validates s and returns *entities.ValidationError on failure.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	labels := labelsOf(s)
	result := entities.NewValidationError()
	for _, fe := range verrs {
		field := fieldKey(fe)
		label, ok := labels[field]
		if !ok {
			label = Label(field)
		}
		result.Add(field, v.message(field, label, fe.Tag(), fe.Param()))
	}
	return result
}

// Field checks a single value against tag and records a message on out.
// It returns false when the value failed.
func (v *Validator) Field(out *entities.ValidationError, field string, value interface{}, tag string) bool {
	err := v.validate.Var(value, tag)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		out.Add(field, v.message(field, Label(field), verrs[0].Tag(), verrs[0].Param()))
	} else {
		out.Add(field, fmt.Sprintf("%s is invalid", Label(field)))
	}
	return false
}

func (v *Validator) message(field, label, tag, param string) string {
	if msg, ok := v.messages[field+"."+tag]; ok {
		return msg
	}

	switch tag {
	case "required", "notblank", "required_if":
		return fmt.Sprintf("%s is required", label)
	case "isodate":
		return fmt.Sprintf("%s must be a valid date (yyyy-MM-dd)", label)
	case "hhmm":
		return fmt.Sprintf("%s must be a valid time (HH:MM)", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, param)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// labelsOf collects `label` tag overrides keyed by wire name.
func labelsOf(s interface{}) map[string]string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	labels := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		label := fld.Tag.Get("label")
		if label == "" {
			continue
		}
		name := fld.Tag.Get("field")
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "" {
			name = fld.Name
		}
		labels[name] = label
	}
	return labels
}

// fieldKey strips the struct name and any dive index from the namespace.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.Index(ns, "["); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

// Label turns a camelCase wire name into a form label: dueDate -> "Due date".
func Label(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() > 0
	default:
		return !field.IsZero()
	}
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := entities.ParseDate(fl.Field().String())
	return err == nil
}

func timeOfDay(fl validator.FieldLevel) bool {
	_, err := entities.ParseTimeOfDay(fl.Field().String())
	return err == nil
}
