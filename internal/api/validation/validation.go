// Package validation checks request DTOs with go-playground/validator struct
// tags and reports failures keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Error lists the failed fields of one request.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds a validator with the custom tags:
//
//	notblank  string with at least one non-space rune
//	future    time.Time strictly after now
//	maxbytes  string no longer than the given number of bytes
//	urlorempty  empty string or a valid URL
func New() *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v.validate, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v.validate, "future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(v.now())
	})
	mustRegister(v.validate, "urlorempty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || v.validate.Var(s, "url") == nil
	})
	mustRegister(v.validate, "maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
		}
		return len(fl.Field().String()) <= limit
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering validation tag %q: %v", tag, err))
	}
}

// Struct validates s and returns *Error when any field fails.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return &Error{Fields: fields}
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Email reports whether s is a well-formed address.
func (v *Validator) Email(s string) bool {
	return v.validate.Var(s, "required,email") == nil
}

func shared() *Validator {
	defaultOnce.Do(func() { defaultValidator = New() })
	return defaultValidator
}

// Struct validates s with a shared validator.
func Struct(s any) error {
	return shared().Struct(s)
}

// Email checks an address with the shared validator.
func Email(s string) bool {
	return shared().Email(s)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url", "http_url", "urlorempty":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	case "future":
		return "must be in the future"
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}

// SanitizeString removes control characters other than newlines and tabs.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, s)
}

// SanitizePtr applies SanitizeString to a non-nil pointer.
func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeString(*s)
	return &clean
}
