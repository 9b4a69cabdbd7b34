package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagHHMM validates a 24h clock time such as "08:00".
const TagHHMM = "hhmm"

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// FieldError describes the first failing rule of a struct.
type FieldError struct {
	// Namespace is the dotted struct path, e.g. "RegistrationInput.Orders[0].Priority".
	Namespace string
	Field     string
	Tag       string
	Value     interface{}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s failed on %q", e.Namespace, e.Tag)
}

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	ValidateVar(value interface{}, rules string) error
	Engine() *validator.Validate
}

type structValidator struct {
	v *validator.Validate
}

func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterCustom(v)
	return &structValidator{v: v}
}

// RegisterCustom installs the project's custom rules on v. It is also used
// on gin's binding engine so request structs and domain structs agree.
func RegisterCustom(v *validator.Validate) {
	_ = v.RegisterValidation(TagHHMM, func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
}

// Validate returns a *FieldError for the first failing field, nil otherwise.
func (s *structValidator) Validate(obj interface{}) error {
	return first(s.v.Struct(obj))
}

func (s *structValidator) ValidateVar(value interface{}, rules string) error {
	return first(s.v.Var(value, rules))
}

func (s *structValidator) Engine() *validator.Validate {
	return s.v
}

func first(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{
			Namespace: fe.Namespace(),
			Field:     fe.Field(),
			Tag:       fe.Tag(),
			Value:     fe.Value(),
		}
	}
	return err
}

// Messages renders validation errors as field -> message, the way the
// API reports binding failures.
func Messages(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case TagHHMM:
		return "Must be a time formatted as HH:mm"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}
