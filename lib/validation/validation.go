package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"qualityhome/lib/models"
)

// ErrorKind classifies a field-level validation failure
type ErrorKind string

const (
	RequiredMissing ErrorKind = "required-missing"
	InvalidFormat   ErrorKind = "invalid-format"
	InvalidEnum     ErrorKind = "invalid-enum"
)

// Errors maps a form field (by its json name) to the kind of failure found on it.
// An empty mapping means the form may be submitted.
type Errors map[string]ErrorKind

func (e Errors) Error() string {
	fields := e.Fields()
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + string(e[field])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fields lists the failing field names in sorted order
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// HasErrors reports whether at least one field failed
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// AsMap returns the mapping with plain string kinds, as sent in API responses
func (e Errors) AsMap() map[string]string {
	out := make(map[string]string, len(e))
	for field, kind := range e {
		out[field] = string(kind)
	}
	return out
}

var (
	validate   = newValidator()
	indexRegex = regexp.MustCompile(`\[\d+\]$`)
)

// tagKinds maps each struct tag rule to the error kind it reports
var tagKinds = map[string]ErrorKind{
	"notblank": RequiredMissing,
	"br_phone": InvalidFormat,
	"option":   InvalidEnum,
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return !models.IsBlank(fl.Field().String())
	})
	mustRegister(v, "br_phone", func(fl validator.FieldLevel) bool {
		digits := models.PhoneDigits(fl.Field().String())
		return len(digits) == 10 || len(digits) == 11
	})
	mustRegister(v, "option", func(fl validator.FieldLevel) bool {
		table, ok := models.LookupOptionTable(fl.Param())
		if !ok {
			return false
		}
		return table.Contains(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: registering " + tag + ": " + err.Error())
	}
}

// Validate checks required fields, phone and numeric formats and enum membership.
// It never mutates form and performs no I/O.
func Validate(form models.FormState) Errors {
	result := Errors{}

	if err := validate.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			result["form"] = InvalidFormat
			return result
		}
		for _, fieldError := range fieldErrors {
			field := indexRegex.ReplaceAllString(fieldError.Field(), "")
			kind, ok := tagKinds[fieldError.Tag()]
			if !ok {
				kind = InvalidFormat
			}
			if _, exists := result[field]; !exists {
				result[field] = kind
			}
		}
	}

	checkNumeric(result, "areaTerreno", form.AreaTerreno, form.AreaTerrenoNA)
	checkNumeric(result, "areaConstruida", form.AreaConstruida, form.AreaConstruidaNA)
	checkNumeric(result, "idadeConstrucao", form.IdadeConstrucao, false)

	if _, exists := result["documentosDisponiveis"]; !exists && form.HasDocumentConflict() {
		result["documentosDisponiveis"] = InvalidEnum
	}

	return result
}

// checkNumeric flags text that is neither empty, "não se aplica" nor a non-negative number.
// A set not-applicable flag makes any residual text irrelevant.
func checkNumeric(result Errors, field, raw string, notApplicable bool) {
	if notApplicable || models.IsNotApplicableText(raw) {
		return
	}
	if !models.IsDecimal(raw) {
		result[field] = InvalidFormat
	}
}
