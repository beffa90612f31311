package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phonePattern matches dial-format numbers such as "2-222-222",
// "8-923-666-13-13" and "+7-923-666-13-13": an optional plus, a single
// leading digit and 1 to 3 dash-separated groups.
var phonePattern = regexp.MustCompile(`^\+?\d-\d{3}-\d{3,4}(-\d{2,4}){0,2}$`)

// IsValidPhoneNumber reports whether the number is in the accepted dial format
func IsValidPhoneNumber(number string) bool {
	return phonePattern.MatchString(number)
}

// RegisterValidations registers the custom "dialphone" rule used by
// CreateOrganizationRequest on the given validator instance.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("dialphone", func(fl validator.FieldLevel) bool {
		return IsValidPhoneNumber(fl.Field().String())
	})
}
