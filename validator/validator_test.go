package validator

import (
	"testing"

	"chatlink-auth/entity"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func validRegisterRequest() entity.RegisterRequest {
	return entity.RegisterRequest{
		FullName:         "Bob Builder",
		Username:         "bob",
		Identifier:       "bob@example.com",
		DateOfBirth:      "2000-04-12",
		Gender:           "male",
		Country:          "Germany",
		NativeLanguage:   "de",
		LearningLanguage: "en",
	}
}

func TestNew(t *testing.T) {
	v := New()

	assert.NotNil(t, v)
	assert.NotNil(t, v.validator)
}

func TestValidator_ValidateStruct_Success(t *testing.T) {
	v := New()

	req := validRegisterRequest()
	assert.NoError(t, v.ValidateStruct(&req))

	req.Identifier = "+4915123456789"
	assert.NoError(t, v.ValidateStruct(&req))
}

func TestValidator_ValidateStruct_MissingFields(t *testing.T) {
	v := New()

	req := entity.RegisterRequest{}

	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	for _, field := range []string{"full_name", "username", "identifier", "date_of_birth", "gender", "country", "native_language", "learning_language"} {
		assert.Contains(t, err.Error(), field+" is required")
	}
}

func TestValidator_ValidateIdentifier(t *testing.T) {
	v := New()

	valid := []string{
		"a@x.com",
		"reset@example.com",
		"first.last+tag@sub.example.org",
		"+1234567890",
		"+8613912345678",
	}
	for _, identifier := range valid {
		req := validRegisterRequest()
		req.Identifier = identifier
		assert.NoError(t, v.ValidateStruct(&req), "identifier %s should be valid", identifier)
	}

	invalid := []string{
		"bob@",
		"@example.com",
		"bob@@example.com",
		"1234567890",
		"+0234567890",
		"+12345",
		"bob",
	}
	for _, identifier := range invalid {
		req := validRegisterRequest()
		req.Identifier = identifier
		err := v.ValidateStruct(&req)
		assert.Error(t, err, "identifier %s should be invalid", identifier)
		if err != nil {
			assert.Contains(t, err.Error(), "identifier must be a valid email address or phone number")
		}
	}
}

func TestValidator_ValidateUsername(t *testing.T) {
	v := New()

	for _, username := range []string{"bob", "bob_99", "b.o.b"} {
		req := validRegisterRequest()
		req.Username = username
		assert.NoError(t, v.ValidateStruct(&req), "username %s should be valid", username)
	}

	for _, username := range []string{"bo", "bob smith", "bob!", "this_username_is_way_too_long_for_us"} {
		req := validRegisterRequest()
		req.Username = username
		assert.Error(t, v.ValidateStruct(&req), "username %s should be invalid", username)
	}
}

func TestValidator_ValidateLanguageCode(t *testing.T) {
	v := New()

	for _, code := range []string{"en", "de", "fr", "ja", "fil"} {
		req := validRegisterRequest()
		req.LearningLanguage = code
		assert.NoError(t, v.ValidateStruct(&req), "language %s should be valid", code)
	}

	for _, code := range []string{"EN", "english", "zz", "e", "en-US"} {
		req := validRegisterRequest()
		req.LearningLanguage = code
		err := v.ValidateStruct(&req)
		assert.Error(t, err, "language %s should be invalid", code)
		if err != nil {
			assert.Contains(t, err.Error(), "learning_language must be an ISO 639 language code")
		}
	}
}

func TestValidator_ValidateDateOfBirth(t *testing.T) {
	v := New()

	req := validRegisterRequest()
	req.DateOfBirth = "12/04/2000"

	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date_of_birth must be a date in the format YYYY-MM-DD")
}

func TestValidator_ValidateVerifyRegistrationRequest(t *testing.T) {
	v := New()

	req := entity.VerifyRegistrationRequest{
		Token:           "token",
		Identifier:      "a@x.com",
		Code:            "012345",
		Password:        "StrongPass123",
		ConfirmPassword: "StrongPass123",
	}
	assert.NoError(t, v.ValidateStruct(&req))

	req.Code = "12345"
	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "code must be exactly 6 characters long")

	req.Code = "12345a"
	err = v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "code must contain only digits")

	req.Code = "123456"
	req.Password = "short"
	err = v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 8 characters long")
}

func TestValidator_ValidateResetPasswordRequest_MissingToken(t *testing.T) {
	v := New()

	req := entity.ResetPasswordRequest{
		Password:        "StrongPass123",
		ConfirmPassword: "StrongPass123",
	}

	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestValidator_ValidateUpdateProfileRequest(t *testing.T) {
	v := New()

	req := entity.UpdateProfileRequest{
		FullName:         "Bob Builder",
		Gender:           "unknown",
		Country:          "Germany",
		NativeLanguage:   "de",
		LearningLanguage: "es",
	}

	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gender must be one of: male female other")
}

func TestValidator_ValidateStruct_NilInput(t *testing.T) {
	v := New()

	err := v.ValidateStruct(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input cannot be nil")
}

func TestValidator_ValidateStruct_NonStruct(t *testing.T) {
	v := New()

	err := v.ValidateStruct("not a struct")
	assert.Error(t, err)
}

// Test the direct validatePhoneNumber function
func TestValidatePhoneNumber_Direct(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("phone_number", validatePhoneNumber)

	validPhones := []string{
		"+1234567890",
		"+12345678901234",
		"+987654321098765",
	}

	for _, phone := range validPhones {
		err := v.Var(phone, "phone_number")
		assert.NoError(t, err, "Phone number %s should be valid", phone)
	}

	invalidPhones := []string{
		"1234567890",
		"+0234567890",
		"+12345",
		"salamsalam",
		"+abc1234567890",
		"+1 234 567 890",
	}

	for _, phone := range invalidPhones {
		err := v.Var(phone, "phone_number")
		assert.Error(t, err, "Phone number %s should be invalid", phone)
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("a@x.com"))
	assert.True(t, IsIdentifier("+1234567890"))
	assert.False(t, IsIdentifier("a@"))
	assert.False(t, IsIdentifier("bob"))
}
