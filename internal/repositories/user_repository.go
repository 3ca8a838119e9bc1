package repositories

import (
	"errors"

	"usermgmt/internal/models"
)

// Sentinel errors returned by UserRepository implementations. Uniqueness
// errors are produced by the storage boundary itself (a unique index), never
// by a separate lookup, so concurrent creates with the same email cannot
// both succeed.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateNickname = errors.New("nickname already taken")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByNickname(nickname string) (*models.User, error)
	Update(user *models.User) error
	Delete(id string) error
	List(offset, limit int) ([]models.User, int64, error)
}
