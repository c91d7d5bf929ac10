package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shuttleshop/internal/cart"
	"shuttleshop/internal/repositories"
	"shuttleshop/internal/services"
)

// HeaderSessionID identifies the browsing session a cart belongs to.
// Clients generate a UUID once and send it on every request, the same
// way a browser keeps its local storage.
const HeaderSessionID = "X-Session-ID"

type AddItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
	SizeID    uint `json:"size_id"`
}

type UpdateItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
	SizeID    uint `json:"size_id"`
}

type CartHandler struct {
	carts    *cart.Registry
	products *services.ProductService
	validate *validator.Validate
	log      *slog.Logger
}

func NewCartHandler(carts *cart.Registry, products *services.ProductService, log *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		validate: validator.New(),
		log:      log,
	}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cart", h.GetCart)
	router.Post("/cart/items", h.AddItem)
	router.Put("/cart/items", h.UpdateItem)
	router.Delete("/cart/items/:productId", h.RemoveItem)
	router.Delete("/cart", h.ClearCart)
}

// session returns the request's cart store, minting a session id when
// the client has none yet. The id is echoed back so the client can
// persist it.
func (h *CartHandler) session(c *fiber.Ctx) *cart.Store {
	sessionID := c.Get(HeaderSessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Set(HeaderSessionID, sessionID)
	return h.carts.Get(c.Context(), sessionID)
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	store := h.session(c)
	return c.JSON(fiber.Map{
		"items": store.Items(),
		"total": store.Total(),
		"count": store.ItemCount(),
	})
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.products.GetByID(c.Context(), req.ProductID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "product not found")
	}
	if err != nil {
		h.log.Error("product lookup failed", "error", err)
		return serverError(c)
	}

	var size *cart.Size
	if req.SizeID != 0 {
		for _, s := range product.Sizes {
			if s.ID == req.SizeID {
				size = &cart.Size{ID: s.ID, Name: s.Name}
				break
			}
		}
		if size == nil {
			return badRequest(c, "size does not belong to product")
		}
	}

	price := product.Price
	if product.SalePrice > 0 {
		price = product.SalePrice
	}

	store := h.session(c)
	store.AddToCart(c.Context(), cart.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     price,
		Image:     product.Image,
		Quantity:  req.Quantity,
		Size:      size,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"items": store.Items(), "count": store.ItemCount()})
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var size *cart.Size
	if req.SizeID != 0 {
		size = &cart.Size{ID: req.SizeID}
	}

	store := h.session(c)
	store.UpdateQuantity(c.Context(), req.ProductID, req.Quantity, size)
	return c.JSON(fiber.Map{"items": store.Items(), "count": store.ItemCount()})
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	var size *cart.Size
	if sizeID := c.QueryInt("size_id"); sizeID > 0 {
		size = &cart.Size{ID: uint(sizeID)}
	}

	store := h.session(c)
	store.RemoveFromCart(c.Context(), productID, size)
	return c.JSON(fiber.Map{"items": store.Items(), "count": store.ItemCount()})
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	store := h.session(c)
	store.ClearCart(c.Context())
	return c.JSON(fiber.Map{"items": store.Items(), "count": 0})
}
