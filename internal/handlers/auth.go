package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shuttleshop/internal/cart"
	"shuttleshop/internal/middleware"
	"shuttleshop/internal/repositories"
	"shuttleshop/internal/services"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	auth     *services.AuthService
	users    repositories.UserRepository
	carts    *cart.Registry
	validate *validator.Validate
	log      *slog.Logger
}

func NewAuthHandler(auth *services.AuthService, users repositories.UserRepository, carts *cart.Registry, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		users:    users,
		carts:    carts,
		validate: validator.New(),
		log:      log,
	}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/auth/register", h.Register)
	router.Post("/auth/login", h.Login)
	router.Post("/auth/logout", h.Logout)
	router.Get("/profile", middleware.RequireAuth(h.auth), h.Profile)
}

func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/users", h.ListUsers)
	router.Delete("/users/:id", h.DeleteUser)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Password, req.FullName)
	if errors.Is(err, services.ErrEmailTaken) {
		return badRequest(c, "email already registered")
	}
	if err != nil {
		h.log.Error("registration failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login authenticates and, when the request carries a session id,
// folds that session's guest cart into the user's cart.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	token, user, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	if err != nil {
		h.log.Error("login failed", "error", err)
		return serverError(c)
	}

	if sessionID := c.Get(HeaderSessionID); sessionID != "" {
		h.carts.Get(c.Context(), sessionID).Login(c.Context(), user.ID)
	}

	return c.JSON(fiber.Map{"token": token, "user": user})
}

// Logout switches the session cart back to the guest scope; the user's
// persisted cart stays on storage for the next login.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sessionID := c.Get(HeaderSessionID); sessionID != "" {
		h.carts.Get(c.Context(), sessionID).Logout(c.Context())
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)
	user, err := h.users.GetByID(c.Context(), claims.UserID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "user not found")
	}
	if err != nil {
		h.log.Error("profile lookup failed", "error", err)
		return serverError(c)
	}
	return c.JSON(user)
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		h.log.Error("user list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(users)
}

func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	if err := h.users.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "user not found")
		}
		h.log.Error("user delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
