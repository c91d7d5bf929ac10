package handlers

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shuttleshop/internal/middleware"
	"shuttleshop/internal/models"
	"shuttleshop/internal/repositories"
	"shuttleshop/internal/services"
)

type ReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1024"`
}

type NewsRequest struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Published *bool  `json:"published"`
}

type SlideRequest struct {
	Title    string `json:"title"`
	Image    string `json:"image" validate:"required"`
	Link     string `json:"link"`
	Position int    `json:"position"`
	Active   *bool  `json:"active"`
}

type SettingRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// ContentHandler serves the storefront's supporting resources: reviews,
// news, slides, settings and contact messages.
type ContentHandler struct {
	reviews  repositories.ReviewRepository
	news     repositories.NewsRepository
	slides   repositories.SlideRepository
	settings repositories.SettingRepository
	contacts repositories.ContactRepository
	auth     *services.AuthService
	validate *validator.Validate
	log      *slog.Logger
}

func NewContentHandler(
	reviews repositories.ReviewRepository,
	news repositories.NewsRepository,
	slides repositories.SlideRepository,
	settings repositories.SettingRepository,
	contacts repositories.ContactRepository,
	auth *services.AuthService,
	log *slog.Logger,
) *ContentHandler {
	return &ContentHandler{
		reviews:  reviews,
		news:     news,
		slides:   slides,
		settings: settings,
		contacts: contacts,
		auth:     auth,
		validate: validator.New(),
		log:      log,
	}
}

func (h *ContentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:id/reviews", h.ListProductReviews)
	router.Post("/reviews", middleware.RequireAuth(h.auth), h.CreateReview)
	router.Get("/news", h.ListNews)
	router.Get("/news/:id", h.GetNews)
	router.Get("/slides", h.ListSlides)
	router.Get("/settings", h.ListSettings)
	router.Post("/contacts", h.CreateContact)
}

func (h *ContentHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/reviews", h.ListAllReviews)
	router.Put("/reviews/:id/approve", h.ApproveReview)
	router.Delete("/reviews/:id", h.DeleteReview)
	router.Post("/news", h.CreateNews)
	router.Put("/news/:id", h.UpdateNews)
	router.Delete("/news/:id", h.DeleteNews)
	router.Post("/slides", h.CreateSlide)
	router.Put("/slides/:id", h.UpdateSlide)
	router.Delete("/slides/:id", h.DeleteSlide)
	router.Put("/settings", h.UpsertSetting)
	router.Delete("/settings/:key", h.DeleteSetting)
	router.Get("/contacts", h.ListContacts)
	router.Delete("/contacts/:id", h.DeleteContact)
}

func (h *ContentHandler) ListProductReviews(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	list, err := h.reviews.ListByProduct(c.Context(), productID, true)
	if err != nil {
		h.log.Error("review list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ContentHandler) CreateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	review := models.Review{
		ProductID: req.ProductID,
		UserID:    middleware.ClaimsFromCtx(c).UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.reviews.Create(c.Context(), &review); err != nil {
		h.log.Error("review create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ContentHandler) ListAllReviews(c *fiber.Ctx) error {
	list, err := h.reviews.List(c.Context())
	if err != nil {
		h.log.Error("review list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ContentHandler) ApproveReview(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid review id")
	}
	if err := h.reviews.SetApproved(c.Context(), id, true); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "review not found")
		}
		h.log.Error("review approve failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "review approved"})
}

func (h *ContentHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid review id")
	}
	if err := h.reviews.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "review not found")
		}
		h.log.Error("review delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "review deleted"})
}

func (h *ContentHandler) ListNews(c *fiber.Ctx) error {
	list, err := h.news.List(c.Context(), true)
	if err != nil {
		h.log.Error("news list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ContentHandler) GetNews(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid news id")
	}
	news, err := h.news.GetByID(c.Context(), id)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "news not found")
	}
	if err != nil {
		h.log.Error("news lookup failed", "error", err)
		return serverError(c)
	}
	return c.JSON(news)
}

func (h *ContentHandler) CreateNews(c *fiber.Ctx) error {
	var req NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	news := models.News{Title: req.Title, Content: req.Content, Image: req.Image, Published: true}
	if req.Published != nil {
		news.Published = *req.Published
	}
	if err := h.news.Create(c.Context(), &news); err != nil {
		h.log.Error("news create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(news)
}

func (h *ContentHandler) UpdateNews(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid news id")
	}
	news, err := h.news.GetByID(c.Context(), id)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return notFound(c, "news not found")
	}
	if err != nil {
		h.log.Error("news lookup failed", "error", err)
		return serverError(c)
	}

	var req NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	news.Title = req.Title
	news.Content = req.Content
	news.Image = req.Image
	if req.Published != nil {
		news.Published = *req.Published
	}
	if err := h.news.Update(c.Context(), news); err != nil {
		h.log.Error("news update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(news)
}

func (h *ContentHandler) DeleteNews(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid news id")
	}
	if err := h.news.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "news not found")
		}
		h.log.Error("news delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "news deleted"})
}

func (h *ContentHandler) ListSlides(c *fiber.Ctx) error {
	list, err := h.slides.List(c.Context(), true)
	if err != nil {
		h.log.Error("slide list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ContentHandler) CreateSlide(c *fiber.Ctx) error {
	var req SlideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	slide := models.Slide{Title: req.Title, Image: req.Image, Link: req.Link, Position: req.Position, Active: true}
	if req.Active != nil {
		slide.Active = *req.Active
	}
	if err := h.slides.Create(c.Context(), &slide); err != nil {
		h.log.Error("slide create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(slide)
}

func (h *ContentHandler) UpdateSlide(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid slide id")
	}

	var req SlideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	slide := models.Slide{ID: id, Title: req.Title, Image: req.Image, Link: req.Link, Position: req.Position, Active: true}
	if req.Active != nil {
		slide.Active = *req.Active
	}
	if err := h.slides.Update(c.Context(), &slide); err != nil {
		h.log.Error("slide update failed", "error", err)
		return serverError(c)
	}
	return c.JSON(slide)
}

func (h *ContentHandler) DeleteSlide(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid slide id")
	}
	if err := h.slides.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "slide not found")
		}
		h.log.Error("slide delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "slide deleted"})
}

func (h *ContentHandler) ListSettings(c *fiber.Ctx) error {
	list, err := h.settings.List(c.Context())
	if err != nil {
		h.log.Error("setting list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ContentHandler) UpsertSetting(c *fiber.Ctx) error {
	var req SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	setting := models.Setting{Key: req.Key, Value: req.Value}
	if err := h.settings.Upsert(c.Context(), &setting); err != nil {
		h.log.Error("setting upsert failed", "error", err)
		return serverError(c)
	}
	return c.JSON(setting)
}

func (h *ContentHandler) DeleteSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return badRequest(c, "missing setting key")
	}
	if err := h.settings.Delete(c.Context(), key); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "setting not found")
		}
		h.log.Error("setting delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "setting deleted"})
}

func (h *ContentHandler) CreateContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	contact := models.Contact{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message}
	if err := h.contacts.Create(c.Context(), &contact); err != nil {
		h.log.Error("contact create failed", "error", err)
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "thank you for reaching out"})
}

func (h *ContentHandler) ListContacts(c *fiber.Ctx) error {
	list, err := h.contacts.List(c.Context())
	if err != nil {
		h.log.Error("contact list failed", "error", err)
		return serverError(c)
	}
	return c.JSON(list)
}

func (h *ContentHandler) DeleteContact(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "invalid contact id")
	}
	if err := h.contacts.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return notFound(c, "contact not found")
		}
		h.log.Error("contact delete failed", "error", err)
		return serverError(c)
	}
	return c.JSON(fiber.Map{"message": "contact deleted"})
}
