package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shuttleshop/internal/cart"
	"shuttleshop/internal/middleware"
	"shuttleshop/internal/models"
	"shuttleshop/internal/orders"
	"shuttleshop/internal/services"
)

type CheckoutRequest struct {
	ShippingAddress string  `json:"shipping_address" validate:"required"`
	ShippingFee     float64 `json:"shipping_fee" validate:"gte=0"`
	CustomerPhone   string  `json:"customer_phone" validate:"required"`
	PaymentMethod   string  `json:"payment_method"`
	CouponCode      string  `json:"coupon_code"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderHandler struct {
	orders   *services.OrderService
	coupons  *services.CouponService
	carts    *cart.Registry
	auth     *services.AuthService
	validate *validator.Validate
	log      *slog.Logger
}

func NewOrderHandler(orderSvc *services.OrderService, coupons *services.CouponService, carts *cart.Registry, auth *services.AuthService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orderSvc,
		coupons:  coupons,
		carts:    carts,
		auth:     auth,
		validate: validator.New(),
		log:      log,
	}
}

func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	requireAuth := middleware.RequireAuth(h.auth)
	router.Post("/orders", requireAuth, h.CreateOrder)
	router.Post("/checkout", requireAuth, h.Checkout)
	router.Get("/orders", requireAuth, h.ListMyOrders)
	router.Get("/orders/:id", requireAuth, h.GetOrder)
}

func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/orders", h.ListAllOrders)
	router.Put("/orders/:id/status", h.UpdateStatus)
}

// CreateOrder accepts a fully specified checkout payload. The user id
// always comes from the token, not the body.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	input.UserID = middleware.ClaimsFromCtx(c).UserID

	order, err := h.orders.CreateOrder(c.Context(), input)
	if err != nil {
		return h.orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "order created",
		"orderId":      order.ID,
		"order_number": order.OrderNumber,
	})
}

// Checkout places an order from the session cart: snapshot the cart,
// apply the coupon, create the order atomically, and clear the cart
// only after confirmed success.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	sessionID := c.Get(HeaderSessionID)
	if sessionID == "" {
		return badRequest(c, "missing "+HeaderSessionID+" header")
	}
	store := h.carts.Get(c.Context(), sessionID)

	items := store.Items()
	if len(items) == 0 {
		return badRequest(c, "cart is empty")
	}
	subtotal := store.Total()

	input := services.CreateOrderInput{
		UserID:          middleware.ClaimsFromCtx(c).UserID,
		ShippingAddress: req.ShippingAddress,
		ShippingFee:     req.ShippingFee,
		CustomerPhone:   req.CustomerPhone,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, item := range items {
		input.Items = append(input.Items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	var coupon *models.Coupon
	if req.CouponCode != "" {
		var discount float64
		var err error
		coupon, discount, err = h.coupons.Apply(c.Context(), req.CouponCode, subtotal)
		if err != nil {
			if errors.Is(err, services.ErrCouponInvalid) || errors.Is(err, services.ErrCouponExpired) ||
				errors.Is(err, services.ErrCouponExhausted) || errors.Is(err, services.ErrCouponMinAmount) {
				return badRequest(c, "coupon cannot be applied")
			}
			h.log.Error("coupon lookup failed", "error", err)
			return serverError(c)
		}
		input.CouponID = &coupon.ID
		input.CouponCode = &coupon.Code
		input.DiscountAmount = discount
	}
	input.TotalAmount = subtotal + req.ShippingFee - input.DiscountAmount

	order, err := h.orders.CreateOrder(c.Context(), input)
	if err != nil {
		return h.orderError(c, err)
	}

	if coupon != nil {
		if err := h.coupons.Redeem(c.Context(), coupon.ID); err != nil {
			h.log.Error("coupon redeem failed", "coupon_id", coupon.ID, "error", err)
		}
	}
	store.ClearCart(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "order created",
		"orderId":      order.ID,
		"order_number": order.OrderNumber,
	})
}

func (h *OrderHandler) orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, orders.ErrValidation):
		return badRequest(c, err.Error())
	case errors.Is(err, orders.ErrDuplicateOrderNumber):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order number conflict, please retry"})
	default:
		h.log.Error("order creation failed", "error", err)
		return serverError(c)
	}
}

func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	list, err := h.orders.ListByUser(c.Context(), middleware.ClaimsFromCtx(c).UserID)
	if err != nil {
		h.log.Error("order list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.orders.GetByID(c.Context(), id)
	if errors.Is(err, orders.ErrNotFound) {
		return notFound(c, "order not found")
	}
	if err != nil {
		h.log.Error("order lookup failed", "error", err)
		return serverError(c)
	}

	claims := middleware.ClaimsFromCtx(c)
	if order.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your order"})
	}
	return c.JSON(order)
}

func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	list, err := h.orders.List(c.Context())
	if err != nil {
		h.log.Error("order list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err = h.orders.UpdateStatus(c.Context(), id, req.Status)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return notFound(c, "order not found")
	case errors.Is(err, orders.ErrInvalidTransition):
		return badRequest(c, err.Error())
	case err != nil:
		h.log.Error("status update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "status updated"})
}
