package validation_test

import (
	"strings"
	"testing"

	"usermgmt/internal/models"
	"usermgmt/internal/validation"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

// validCreateRequest returns a fully-populated request that passes every rule.
func validCreateRequest() models.UserCreateRequest {
	return models.UserCreateRequest{
		Nickname:           "john_doe_123",
		Email:              "john.doe@example.com",
		Password:           "SecurePassword123!",
		FirstName:          "John",
		LastName:           "Doe",
		Role:               models.RoleAuthenticated,
		Bio:                "I am a software engineer with over 5 years of experience.",
		ProfilePictureURL:  strPtr("https://example.com/profile_pictures/john_doe.jpg"),
		LinkedinProfileURL: strPtr("https://linkedin.com/in/johndoe"),
		GithubProfileURL:   strPtr("https://github.com/johndoe"),
	}
}

func TestUserCreateRequestValid(t *testing.T) {
	v := validation.New()
	req := validCreateRequest()
	assert.NoError(t, v.Struct(&req))
}

func TestNicknameBoundaries(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name     string
		nickname string
		wantErr  bool
	}{
		{"two chars rejected", "ab", true},
		{"three chars accepted", "abc", false},
		{"fifty chars accepted", "ab" + strings.Repeat("c", 48), false},
		{"fifty-one chars rejected", strings.Repeat("a", 51), true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			req.Nickname = tt.nickname
			err := v.Struct(&req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNicknameCharset(t *testing.T) {
	v := validation.New()

	valid := []string{"test_user", "test-user", "testuser123", "123test"}
	for _, nickname := range valid {
		req := validCreateRequest()
		req.Nickname = nickname
		assert.NoError(t, v.Struct(&req), "nickname %q should be valid", nickname)
	}

	invalid := []string{"test user", "test?user", "test.user", "tëst"}
	for _, nickname := range invalid {
		req := validCreateRequest()
		req.Nickname = nickname
		assert.Error(t, v.Struct(&req), "nickname %q should be rejected", nickname)
	}
}

func TestProfileURLSchemes(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		url     *string
		wantErr bool
	}{
		{"absent is valid", nil, false},
		{"http accepted", strPtr("http://valid.com/profile.jpg"), false},
		{"https accepted", strPtr("https://valid.com/profile.png"), false},
		{"ftp rejected", strPtr("ftp://invalid.com/profile.jpg"), true},
		{"missing colon rejected", strPtr("http//invalid"), true},
		{"missing colon https rejected", strPtr("https//invalid"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			req.ProfilePictureURL = tt.url
			err := v.Struct(&req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// Same rule applies to the other URL fields.
	req := validCreateRequest()
	req.LinkedinProfileURL = strPtr("ftp://linkedin.com/in/johndoe")
	assert.Error(t, v.Struct(&req))

	req = validCreateRequest()
	req.GithubProfileURL = nil
	assert.NoError(t, v.Struct(&req))
}

func TestEmailFormat(t *testing.T) {
	v := validation.New()

	req := validCreateRequest()
	req.Email = "not-an-email"
	assert.Error(t, v.Struct(&req))

	req.Email = ""
	assert.Error(t, v.Struct(&req))
}

func TestRoleEnum(t *testing.T) {
	v := validation.New()

	for _, role := range []string{models.RoleAnonymous, models.RoleAuthenticated, models.RoleManager, models.RoleAdmin} {
		req := validCreateRequest()
		req.Role = role
		assert.NoError(t, v.Struct(&req), "role %q should be valid", role)
	}

	req := validCreateRequest()
	req.Role = "SUPERUSER"
	assert.Error(t, v.Struct(&req))
}

func TestAllInvalidFieldsEnumerated(t *testing.T) {
	v := validation.New()

	req := validCreateRequest()
	req.Nickname = "us"
	req.Email = "broken"
	req.ProfilePictureURL = strPtr("ftp://example.com/p.png")

	err := v.Struct(&req)
	assert.Error(t, err)

	fieldErrors, ok := err.(validation.Errors)
	assert.True(t, ok)
	assert.Len(t, fieldErrors, 3)
	assert.Contains(t, fieldErrors, "Nickname")
	assert.Contains(t, fieldErrors, "Email")
	assert.Contains(t, fieldErrors, "ProfilePictureURL")
	assert.Contains(t, err.Error(), "Nickname")
}

func TestUserUpdateRequestThreeState(t *testing.T) {
	v := validation.New()

	// All fields absent: nothing to validate, nothing fails.
	assert.NoError(t, v.Struct(&models.UserUpdateRequest{}))

	// Present and valid fields pass individually.
	update := models.UserUpdateRequest{
		Nickname:          strPtr("j_doe"),
		Email:             strPtr("john.doe.new@example.com"),
		Bio:               strPtr("I specialize in backend development."),
		ProfilePictureURL: strPtr("https://example.com/profile_pictures/john_doe_updated.jpg"),
	}
	assert.NoError(t, v.Struct(&update))

	// A present invalid field rejects the request even when others are valid.
	update.Nickname = strPtr("no spaces allowed")
	err := v.Struct(&update)
	assert.Error(t, err)
	fieldErrors, ok := err.(validation.Errors)
	assert.True(t, ok)
	assert.Contains(t, fieldErrors, "Nickname")
	assert.NotContains(t, fieldErrors, "Email")
}

func TestLoginRequestShape(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Struct(&models.LoginRequest{
		Email:    "john_doe_123@email.com",
		Password: "SecurePassword123!",
	}))

	assert.Error(t, v.Struct(&models.LoginRequest{
		Email: "john_doe_123@email.com",
	}))

	assert.Error(t, v.Struct(&models.LoginRequest{
		Email:    "nope",
		Password: "SecurePassword123!",
	}))
}
