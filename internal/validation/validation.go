package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// nicknameRegexp matches the characters allowed in a nickname: letters,
// digits, underscore and hyphen. No spaces or other punctuation.
var nicknameRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Errors maps each offending field to a human-readable message. Every invalid
// field is enumerated, not just the first one encountered.
type Errors map[string]string

// Error implements the error interface.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Validator validates request shapes against their struct tags. It is safe
// for concurrent use and performs no side effects.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New()

	// nickname: 3-50 chars drawn from [A-Za-z0-9_-].
	_ = v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		nickname := fl.Field().String()
		if len(nickname) < 3 || len(nickname) > 50 {
			return false
		}
		return nicknameRegexp.MatchString(nickname)
	})

	return &Validator{validate: v}
}

// Struct validates the given shape. It returns nil when the shape is valid,
// and an Errors value enumerating every failing field otherwise.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-struct input or similar misuse; surface as-is.
		return err
	}

	errorMessages := make(Errors, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}
