package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/auth"
	"github.com/user/cryptotrack/internal/middleware"
	"github.com/user/cryptotrack/internal/models"
)

// RegisterRequest defines the expected JSON body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected JSON body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse defines the JSON response for a successful login.
type LoginResponse struct {
	Message  string       `json:"message"`
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	IssuedAt time.Time    `json:"issued_at"`
}

// Register handles user registration.
func (h *Handler) Register(c *fiber.Ctx) error {
	req := new(RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("Cannot parse request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperr.Validation("Missing username, email, or password")
	}

	// Pre-check both unique keys so the caller gets a clean conflict
	// message; the schema constraint still backstops races.
	byName, err := h.users.GetByUsername(c.Context(), req.Username)
	if err != nil {
		h.logger.Error("check username", zap.String("username", req.Username), zap.Error(err))
		return err
	}
	byEmail, err := h.users.GetByEmail(c.Context(), req.Email)
	if err != nil {
		h.logger.Error("check email", zap.Error(err))
		return err
	}
	if byName != nil || byEmail != nil {
		return apperr.Conflict("User already exists")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		return err
	}

	user, err := h.users.Create(c.Context(), req.Username, req.Email, passwordHash)
	if err != nil {
		h.logger.Error("create user", zap.String("username", req.Username), zap.Error(err))
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles credential verification and token issuance.
func (h *Handler) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.Validation("Cannot parse request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return apperr.Validation("Missing email or password")
	}

	user, err := h.users.GetByEmail(c.Context(), req.Email)
	if err != nil {
		h.logger.Error("find user for login", zap.Error(err))
		return err
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return apperr.Unauthorized("Invalid email or password")
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.logger.Error("generate token", zap.String("username", user.Username), zap.Error(err))
		return err
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message:  "Login successful",
		Token:    token,
		User:     user,
		IssuedAt: time.Now(),
	})
}

// Logout is a stateless no-op: the client discards its token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout successful. Please remove the token from your client.",
	})
}

// Me returns the authenticated caller's account summary. Serves both
// /me and /check-session.
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.LocalUserID).(uuid.UUID)
	if !ok {
		return apperr.Unauthorized("Invalid user ID in token")
	}

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		h.logger.Error("load current user", zap.String("user_id", userID.String()), zap.Error(err))
		return err
	}
	if user == nil {
		return apperr.Unauthorized("User not found")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
