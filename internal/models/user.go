package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user account can hold. New accounts default to AUTHENTICATED.
const (
	RoleAnonymous     = "ANONYMOUS"
	RoleAuthenticated = "AUTHENTICATED"
	RoleManager       = "MANAGER"
	RoleAdmin         = "ADMIN"
)

// User represents a registered user account.
type User struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Nickname           string     `json:"nickname" gorm:"uniqueIndex;type:varchar(50)" validate:"required,nickname"`
	Email              string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password           string     `gorm:"type:varchar(255)"` // bcrypt hash; no json tag for security
	FirstName          string     `json:"first_name" gorm:"type:varchar(100)"`
	LastName           string     `json:"last_name" gorm:"type:varchar(100)"`
	Role               string     `json:"role" gorm:"type:varchar(20)" validate:"required,oneof=ANONYMOUS AUTHENTICATED MANAGER ADMIN"`
	Bio                string     `json:"bio" gorm:"type:text" validate:"omitempty,max=500"`
	ProfilePictureURL  *string    `json:"profile_picture_url" gorm:"type:varchar(255)" validate:"omitempty,http_url"`
	LinkedinProfileURL *string    `json:"linkedin_profile_url" gorm:"type:varchar(255)" validate:"omitempty,http_url"`
	GithubProfileURL   *string    `json:"github_profile_url" gorm:"type:varchar(255)" validate:"omitempty,http_url"`
	EmailVerified      bool       `json:"email_verified"`
	VerificationToken  string     `gorm:"type:varchar(36)"` // no json tag; only ever delivered by email
	LastLoginAt        *time.Time `json:"last_login_at"`
	gorm.Model                    // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
