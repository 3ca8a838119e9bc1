package models

import "time"

// UserCreateRequest is the payload for registering a new user.
// Field names are the wire contract; do not rename the json tags.
type UserCreateRequest struct {
	Nickname           string  `json:"nickname" validate:"required,nickname"`
	Email              string  `json:"email" validate:"required,email"`
	Password           string  `json:"password" validate:"required,min=8"`
	FirstName          string  `json:"first_name" validate:"omitempty,max=100"`
	LastName           string  `json:"last_name" validate:"omitempty,max=100"`
	Role               string  `json:"role" validate:"omitempty,oneof=ANONYMOUS AUTHENTICATED MANAGER ADMIN"`
	Bio                string  `json:"bio" validate:"omitempty,max=500"`
	ProfilePictureURL  *string `json:"profile_picture_url" validate:"omitempty,http_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url" validate:"omitempty,http_url"`
	GithubProfileURL   *string `json:"github_profile_url" validate:"omitempty,http_url"`
}

// UserUpdateRequest is a partial overlay of the user profile. Every field is
// a pointer: nil means "leave the stored value unchanged", a non-nil value is
// validated with the same rule as on creation and then applied.
type UserUpdateRequest struct {
	Nickname           *string `json:"nickname" validate:"omitempty,nickname"`
	Email              *string `json:"email" validate:"omitempty,email"`
	FirstName          *string `json:"first_name" validate:"omitempty,max=100"`
	LastName           *string `json:"last_name" validate:"omitempty,max=100"`
	Role               *string `json:"role" validate:"omitempty,oneof=ANONYMOUS AUTHENTICATED MANAGER ADMIN"`
	Bio                *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePictureURL  *string `json:"profile_picture_url" validate:"omitempty,http_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url" validate:"omitempty,http_url"`
	GithubProfileURL   *string `json:"github_profile_url" validate:"omitempty,http_url"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Link is a rel/href pair pointing at a related resource.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// UserResponse is the outward representation of a user. It never carries the
// password hash or the verification token.
type UserResponse struct {
	ID                 string     `json:"id"`
	Nickname           string     `json:"nickname"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Role               string     `json:"role"`
	Bio                string     `json:"bio"`
	ProfilePictureURL  *string    `json:"profile_picture_url"`
	LinkedinProfileURL *string    `json:"linkedin_profile_url"`
	GithubProfileURL   *string    `json:"github_profile_url"`
	EmailVerified      bool       `json:"email_verified"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
	Links              []Link     `json:"links"`
}

// UserListResponse is a paginated collection of users.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ToResponse converts a User record to its outward representation.
func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:                 u.ID,
		Nickname:           u.Nickname,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		Bio:                u.Bio,
		ProfilePictureURL:  u.ProfilePictureURL,
		LinkedinProfileURL: u.LinkedinProfileURL,
		GithubProfileURL:   u.GithubProfileURL,
		EmailVerified:      u.EmailVerified,
		LastLoginAt:        u.LastLoginAt,
		Links: []Link{
			{Rel: "self", Href: "/api/v1/users/" + u.ID},
		},
	}
	// Timestamps stay null until the record has actually been persisted.
	if !u.CreatedAt.IsZero() {
		createdAt := u.CreatedAt
		resp.CreatedAt = &createdAt
	}
	if !u.UpdatedAt.IsZero() {
		updatedAt := u.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
