package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// speakerIDRe accepts the raw speaker identifier shapes upstream sources
// produce: "1", "SPEAKER_1", "SPEAKER 1", "speaker_2".
var speakerIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]*$`)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with domain validations
// registered.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("speaker_id", func(fl validator.FieldLevel) bool {
		return speakerIDRe.MatchString(fl.Field().String())
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
