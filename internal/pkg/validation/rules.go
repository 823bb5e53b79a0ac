package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// DNIPattern accepts 7 to 10 alphanumerics, no separators
	DNIPattern = `^[0-9A-Za-z]{7,10}$`

	// ClockPattern is a 24-hour HH:MM time
	ClockPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

	// PhonePattern is a loose international phone number
	PhonePattern = `^\+?[0-9 ()\-]{6,20}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	DNI   *regexp.Regexp
	Clock *regexp.Regexp
	Phone *regexp.Regexp
}{
	DNI:   regexp.MustCompile(DNIPattern),
	Clock: regexp.MustCompile(ClockPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// IsValidDNI reports whether s looks like a national identity number
func IsValidDNI(s string) bool {
	return CompiledPatterns.DNI.MatchString(s)
}

// IsValidClock reports whether s is a HH:MM time
func IsValidClock(s string) bool {
	return CompiledPatterns.Clock.MatchString(s)
}

var registerOnce sync.Once

// RegisterGinValidators installs the custom binding tags ("dni", "hhmm", "phone")
// on gin's validator engine and reports fields by their JSON name. Safe to call
// more than once.
func RegisterGinValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
			return IsValidDNI(fl.Field().String())
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return IsValidClock(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Phone.MatchString(fl.Field().String())
		})
	})
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len([]rune(v.Value)) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len([]rune(v.Value)) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}
