package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
	"shuttleshop/internal/services"
)

type CouponRequest struct {
	Code           string     `json:"code" validate:"required"`
	DiscountType   string     `json:"discount_type" validate:"required,oneof=percent fixed"`
	DiscountValue  float64    `json:"discount_value" validate:"required,gt=0"`
	MaxDiscount    float64    `json:"max_discount" validate:"gte=0"`
	MinOrderAmount float64    `json:"min_order_amount" validate:"gte=0"`
	UsageLimit     int        `json:"usage_limit" validate:"gte=0"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Active         *bool      `json:"active"`
}

type ApplyCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"required,gt=0"`
}

type CouponHandler struct {
	coupons  *services.CouponService
	repo     repositories.CouponRepository
	validate *validator.Validate
	log      *slog.Logger
}

func NewCouponHandler(coupons *services.CouponService, repo repositories.CouponRepository, log *slog.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, repo: repo, validate: validator.New(), log: log}
}

func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/coupons/apply", h.Apply)
}

func (h *CouponHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/coupons", h.List)
	router.Post("/coupons", h.Create)
	router.Put("/coupons/:id", h.Update)
	router.Delete("/coupons/:id", h.Delete)
}

// Apply lets the checkout page preview a discount before placing the
// order. It does not redeem the coupon.
func (h *CouponHandler) Apply(c *fiber.Ctx) error {
	var req ApplyCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	coupon, discount, err := h.coupons.Apply(c.Context(), req.Code, req.Subtotal)
	switch {
	case errors.Is(err, services.ErrCouponInvalid):
		return notFound(c, "coupon not found or inactive")
	case errors.Is(err, services.ErrCouponExpired):
		return badRequest(c, "coupon expired")
	case errors.Is(err, services.ErrCouponExhausted):
		return badRequest(c, "coupon usage limit reached")
	case errors.Is(err, services.ErrCouponMinAmount):
		return badRequest(c, "order total below coupon minimum")
	case err != nil:
		h.log.Error("coupon apply failed", "error", err)
		return serverError(c)
	}

	return c.JSON(fiber.Map{
		"code":     coupon.Code,
		"discount": discount,
	})
}

func (h *CouponHandler) List(c *fiber.Ctx) error {
	list, err := h.repo.List(c.Context())
	if err != nil {
		h.log.Error("coupon list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	coupon := models.Coupon{
		Code:           req.Code,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		ExpiresAt:      req.ExpiresAt,
		Active:         true,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := h.repo.Create(c.Context(), &coupon); err != nil {
		h.log.Error("coupon create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

func (h *CouponHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid coupon id")
	}

	var req CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	coupon := models.Coupon{
		ID:             id,
		Code:           req.Code,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		ExpiresAt:      req.ExpiresAt,
		Active:         true,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := h.repo.Update(c.Context(), &coupon); err != nil {
		h.log.Error("coupon update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(coupon)
}

func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid coupon id")
	}
	if err := h.repo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "coupon not found")
		}
		h.log.Error("coupon delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "coupon deleted"})
}
