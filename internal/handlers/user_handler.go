package handlers

import (
	"errors"
	"log"

	"usermgmt/internal/models"
	"usermgmt/internal/repositories"
	"usermgmt/internal/services"
	"usermgmt/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/verify/:id/:token", h.HandleVerifyEmail)
}

// RegisterProtectedRoutes registers the routes that require authentication.
func (h *UserHandler) RegisterProtectedRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
}

// errorResponse maps the service error taxonomy onto HTTP statuses:
// validation failures to 400 with the per-field error map, uniqueness
// violations to 409, missing records to 404, collaborator failures to 502.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	var fieldErrors validation.Errors
	var collabErr *services.CollaboratorError

	switch {
	case errors.As(err, &fieldErrors):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
	case errors.Is(err, repositories.ErrDuplicateEmail), errors.Is(err, repositories.ErrDuplicateNickname):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.As(err, &collabErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.userService.RegisterUser(&req)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return errorResponse(c, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user.ToResponse(),
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	token, user, err := h.userService.LoginUser(&req)
	if err != nil {
		var fieldErrors validation.Errors
		if errors.As(err, &fieldErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fieldErrors,
			})
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user.ToResponse(),
	})
}

// HandleVerifyEmail confirms a user's email address.
func (h *UserHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	id := c.Params("id")
	token := c.Params("token")

	if err := h.userService.VerifyEmail(id, token); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorResponse(c, "Verification failed", err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Verification failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

// HandleGetUser returns a single user by ID.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		return errorResponse(c, "Could not get user", err)
	}
	return c.JSON(user.ToResponse())
}

// HandleListUsers returns a page of users.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	size := c.QueryInt("size", 10)

	list, err := h.userService.ListUsers(page, size)
	if err != nil {
		return errorResponse(c, "Could not list users", err)
	}
	return c.JSON(list)
}

// HandleUpdateUser applies a partial profile update.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req models.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.userService.UpdateUser(c.Params("id"), &req)
	if err != nil {
		log.Printf("Error updating user %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not update user", err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user.ToResponse(),
	})
}
