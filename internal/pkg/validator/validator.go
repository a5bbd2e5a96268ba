package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"foodgram/internal/domain"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	hexColorPattern = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	registerRules(validate)
}

// RegisterGin installs the custom rules and json field naming into gin's
// binding validator so ShouldBindJSON reports the same field names.
func RegisterGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerRules(v)
	}
}

func registerRules(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsValidUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return IsHexColor(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// IsValidUsername checks the allowed alphabet and rejects the reserved name.
func IsValidUsername(s string) bool {
	return usernamePattern.MatchString(s) && !strings.EqualFold(s, domain.ReservedUsername)
}

func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ValidationError carries field-level messages, keyed by json field path.
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

// NewError builds a single-field ValidationError.
func NewError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Validate checks v against its `validate` tags and returns messages keyed by
// json field path, or nil.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return fieldErrors(err)
}

// Details converts a bind, validation or ValidationError into the
// {"field_errors": {...}} payload used in error responses.
func Details(err error) map[string]any {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return map[string]any{"field_errors": ve.Fields}
	}
	fields := fieldErrors(err)
	if len(fields) == 0 {
		return nil
	}
	return map[string]any{"field_errors": fields}
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			out[fieldPath(fe)] = message(fe)
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		out[typeErr.Field] = "has the wrong type"
		return out
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || err != nil {
		out["body"] = "must be valid JSON"
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so nested
// errors read like "ingredients[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "must have at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "username":
		return "may contain only letters, digits and @/./+/-/_ and must not be \"me\""
	case "hexcolor6":
		return "must be a #RRGGBB color"
	case "slug":
		return "may contain only letters, digits, - and _"
	default:
		return "is invalid"
	}
}
