package services

import (
	"fmt"
	"log"
	"time"

	"usermgmt/internal/models"
	"usermgmt/internal/repositories"
	"usermgmt/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EmailSender dispatches account emails. Implementations must treat each call
// as independent; the service invokes it at most once per registration.
type EmailSender interface {
	SendVerificationEmail(email, token string) error
}

// CollaboratorError reports a failure in an external collaborator (currently
// only email dispatch). It is distinct from validation and uniqueness errors
// so callers can tell "your input was bad" from "the system could not
// complete the operation".
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s collaborator failed: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// UserService handles business logic for user accounts: registration,
// authentication, profile updates and email verification.
type UserService struct {
	userRepo             repositories.UserRepository
	mailer               EmailSender
	validate             *validation.Validator
	jwtSecret            []byte
	tokenDurat           time.Duration // Duration for which JWT is valid
	requireEmailDispatch bool
}

// NewUserService creates a new UserService. mailer may be nil, in which case
// verification emails are skipped with a log line.
func NewUserService(userRepo repositories.UserRepository, mailer EmailSender, jwtSecret string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		mailer:     mailer,
		validate:   validation.New(),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RequireEmailDispatch controls what happens when the verification email
// cannot be dispatched: when required, the just-created record is rolled back
// and registration fails; otherwise the failure is logged and registration
// stands. Default is not required.
func (s *UserService) RequireEmailDispatch(required bool) {
	s.requireEmailDispatch = required
}

// Create validates the request, hashes the password, and persists the user.
// Validation runs before anything else; an invalid request never reaches the
// repository. A duplicate email or nickname surfaces as the repository's
// sentinel error.
func (s *UserService) Create(req *models.UserCreateRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	// Default the role on the record only; the caller's request is not touched.
	role := req.Role
	if role == "" {
		role = models.RoleAuthenticated
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:                 uuid.New().String(),
		Nickname:           req.Nickname,
		Email:              req.Email,
		Password:           string(hashedPassword), // Store the hashed password
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Role:               role,
		Bio:                req.Bio,
		ProfilePictureURL:  req.ProfilePictureURL,
		LinkedinProfileURL: req.LinkedinProfileURL,
		GithubProfileURL:   req.GithubProfileURL,
		VerificationToken:  uuid.New().String(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterUser creates the user and then dispatches exactly one verification
// email to the registered address.
func (s *UserService) RegisterUser(req *models.UserCreateRequest) (*models.User, error) {
	user, err := s.Create(req)
	if err != nil {
		return nil, err
	}

	if s.mailer == nil {
		log.Printf("Mail sender is not configured. Skipping verification email for %s", user.Email)
		return user, nil
	}

	if err := s.mailer.SendVerificationEmail(user.Email, user.VerificationToken); err != nil {
		if s.requireEmailDispatch {
			if delErr := s.userRepo.Delete(user.ID); delErr != nil {
				log.Printf("Failed to roll back user %s after email dispatch failure: %v", user.ID, delErr)
			}
			return nil, &CollaboratorError{Collaborator: "email", Err: err}
		}
		log.Printf("Warning: failed to send verification email to %s: %v", user.Email, err)
	}
	return user, nil
}

// LoginUser authenticates a user by email and password, stamps the login
// time, and returns a JWT token plus the user.
func (s *UserService) LoginUser(req *models.LoginRequest) (string, *models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		// Do not reveal whether the email is registered.
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("Warning: failed to stamp last login for user %s: %v", user.ID, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"nickname": user.Nickname,
		"role":     user.Role,
		"exp":      now.Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      now.Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateUser applies a partial profile update. Each field of the request is
// three-state: nil leaves the stored value unchanged, a present valid value
// replaces it, and a present invalid value rejects the whole request before
// any write happens.
func (s *UserService) UpdateUser(id string, req *models.UserUpdateRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		user.Nickname = *req.Nickname
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.LinkedinProfileURL != nil {
		user.LinkedinProfileURL = req.LinkedinProfileURL
	}
	if req.GithubProfileURL != nil {
		user.GithubProfileURL = req.GithubProfileURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of users. Pages are 1-based; size defaults to 10
// and is capped at 100.
func (s *UserService) ListUsers(page, size int) (*models.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	users, total, err := s.userRepo.List((page-1)*size, size)
	if err != nil {
		return nil, err
	}

	items := make([]models.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *users[i].ToResponse())
	}
	return &models.UserListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

// VerifyEmail confirms a user's email address with the token that was sent
// to it. Verification is idempotent: confirming an already-verified account
// succeeds without touching the store.
func (s *UserService) VerifyEmail(id, token string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	if token == "" || user.VerificationToken != token {
		return fmt.Errorf("invalid verification token")
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	if user.Role == models.RoleAnonymous {
		user.Role = models.RoleAuthenticated
	}
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to mark email verified for user %s: %w", user.ID, err)
	}
	return nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *UserService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
