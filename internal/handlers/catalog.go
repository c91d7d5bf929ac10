package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
)

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description"`
}

type BrandRequest struct {
	Name string `json:"name" validate:"required"`
	Logo string `json:"logo"`
}

type CatalogHandler struct {
	categories repositories.CategoryRepository
	brands     repositories.BrandRepository
	validate   *validator.Validate
	log        *slog.Logger
}

func NewCatalogHandler(categories repositories.CategoryRepository, brands repositories.BrandRepository, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		categories: categories,
		brands:     brands,
		validate:   validator.New(),
		log:        log,
	}
}

func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.ListCategories)
	router.Get("/brands", h.ListBrands)
}

func (h *CatalogHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/categories", h.CreateCategory)
	router.Put("/categories/:id", h.UpdateCategory)
	router.Delete("/categories/:id", h.DeleteCategory)
	router.Post("/brands", h.CreateBrand)
	router.Put("/brands/:id", h.UpdateBrand)
	router.Delete("/brands/:id", h.DeleteBrand)
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	list, err := h.categories.List(c.Context())
	if err != nil {
		h.log.Error("category list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	category := models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if err := h.categories.Create(c.Context(), &category); err != nil {
		h.log.Error("category create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	category, err := h.categories.GetByID(c.Context(), id)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "category not found")
	}
	if err != nil {
		h.log.Error("category lookup failed", "error", err)
		return serverError(c)
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.Description = req.Description
	if err := h.categories.Update(c.Context(), category); err != nil {
		h.log.Error("category update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(category)
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	if err := h.categories.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "category not found")
		}
		h.log.Error("category delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}

func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	list, err := h.brands.List(c.Context())
	if err != nil {
		h.log.Error("brand list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var req BrandRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	brand := models.Brand{Name: req.Name, Logo: req.Logo}
	if err := h.brands.Create(c.Context(), &brand); err != nil {
		h.log.Error("brand create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

func (h *CatalogHandler) UpdateBrand(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid brand id")
	}
	brand, err := h.brands.GetByID(c.Context(), id)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "brand not found")
	}
	if err != nil {
		h.log.Error("brand lookup failed", "error", err)
		return serverError(c)
	}

	var req BrandRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	brand.Name = req.Name
	brand.Logo = req.Logo
	if err := h.brands.Update(c.Context(), brand); err != nil {
		h.log.Error("brand update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(brand)
}

func (h *CatalogHandler) DeleteBrand(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid brand id")
	}
	if err := h.brands.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "brand not found")
		}
		h.log.Error("brand delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "brand deleted"})
}
