package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var (
	phoneRegex    = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)
	languageRegex = regexp.MustCompile(`^[a-z]{2,3}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validator *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use json tags for field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("phone_number", validatePhoneNumber)
	v.RegisterValidation("identifier", validateIdentifier)
	v.RegisterValidation("username", validateUsername)
	v.RegisterValidation("language_code", validateLanguageCode)

	return &Validator{
		validator: v,
	}
}

// ValidateStruct validates a struct and returns formatted errors
func (v *Validator) ValidateStruct(s interface{}) error {
	if s == nil {
		return fmt.Errorf("input cannot be nil")
	}

	if err := v.validator.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errors []string
			for _, validationErr := range validationErrors {
				errors = append(errors, v.formatFieldError(validationErr))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(errors, "; "))
		}
		// Handle other validation errors (like InvalidValidationError)
		return fmt.Errorf("validation error: %v", err)
	}
	return nil
}

// formatFieldError formats a single field validation error
func (v *Validator) formatFieldError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", field, param)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone_number":
		return fmt.Sprintf("%s must be a valid phone number (format: +1234567890)", field)
	case "identifier":
		return fmt.Sprintf("%s must be a valid email address or phone number (format: +1234567890)", field)
	case "username":
		return fmt.Sprintf("%s must be 3-30 characters of letters, digits, '_' or '.'", field)
	case "language_code":
		return fmt.Sprintf("%s must be an ISO 639 language code", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "datetime":
		return fmt.Sprintf("%s must be a date in the format YYYY-MM-DD", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validatePhoneNumber validates phone number format
// Accepts international format starting with + followed by country code and number
// Examples: +1234567890, +12345678901, +123456789012
func validatePhoneNumber(fl validator.FieldLevel) bool {
	return IsPhoneNumber(fl.Field().String())
}

// validateIdentifier accepts an email when the value contains "@", otherwise a phone number.
func validateIdentifier(fl validator.FieldLevel) bool {
	return IsIdentifier(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func validateLanguageCode(fl validator.FieldLevel) bool {
	return IsLanguageCode(fl.Field().String())
}

var emailValidator = validator.New()

// IsPhoneNumber reports whether s is an E.164 style phone number.
func IsPhoneNumber(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsIdentifier reports whether s is a syntactically valid email or phone number.
func IsIdentifier(s string) bool {
	if strings.Contains(s, "@") {
		return emailValidator.Var(s, "email") == nil
	}
	return IsPhoneNumber(s)
}

// IsLanguageCode reports whether s is a known ISO 639 base language.
func IsLanguageCode(s string) bool {
	if !languageRegex.MatchString(s) {
		return false
	}
	base, err := language.ParseBase(s)
	return err == nil && base.String() != "und"
}
