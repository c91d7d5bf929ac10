package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
	"shuttleshop/internal/services"
)

type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	SalePrice   float64 `json:"sale_price" validate:"gte=0"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  uint    `json:"category_id"`
	BrandID     uint    `json:"brand_id"`
	Active      *bool   `json:"active"`
}

type ProductHandler struct {
	products *services.ProductService
	validate *validator.Validate
	log      *slog.Logger
}

func NewProductHandler(products *services.ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, validate: validator.New(), log: log}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.List)
	router.Get("/products/:id", h.Get)
}

func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/products", h.Create)
	router.Put("/products/:id", h.Update)
	router.Delete("/products/:id", h.Delete)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID: uint(c.QueryInt("category_id")),
		BrandID:    uint(c.QueryInt("brand_id")),
		Search:     c.Query("search"),
		ActiveOnly: true,
	}
	list, err := h.products.List(c.Context(), filter)
	if err != nil {
		h.log.Error("product list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	product, err := h.products.GetByID(c.Context(), id)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "product not found")
	}
	if err != nil {
		h.log.Error("product lookup failed", "error", err)
		return serverError(c)
	}
	return c.JSON(product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Image:       req.Image,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.products.Create(c.Context(), &product); err != nil {
		h.log.Error("product create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	product, err := h.products.GetByID(c.Context(), id)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "product not found")
	}
	if err != nil {
		h.log.Error("product lookup failed", "error", err)
		return serverError(c)
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.SalePrice = req.SalePrice
	product.Image = req.Image
	product.Stock = req.Stock
	product.CategoryID = req.CategoryID
	product.BrandID = req.BrandID
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.products.Update(c.Context(), product); err != nil {
		h.log.Error("product update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	if err := h.products.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "product not found")
		}
		h.log.Error("product delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}
