package handlers

import (
	"log/slog"
	"strconv"

	"productapi/internal/apperrors"
	"productapi/internal/dto"
	"productapi/internal/models"
	"productapi/internal/query"
	"productapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	// Static segments must be registered before /:id.
	productRoutes.Get("/filter", h.HandleFilterProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleFilterProducts returns a page of products filtered by name and/or category.
func (h *ProductHandler) HandleFilterProducts(c *fiber.Ctx) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.service.Filter(c.UserContext(), optionalQuery(c, "name"), optionalQuery(c, "category"), page, size)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleSearchProducts returns a page of products matching a keyword in any text field.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.service.Search(c.UserContext(), optionalQuery(c, "keyword"), page, size)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req dto.CreateRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.logger.InfoContext(c.UserContext(), "product created", "id", product.ID)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct overwrites the product identified by the body's id.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req dto.UpdateRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.Update(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.logger.InfoContext(c.UserContext(), "product updated", "id", product.ID)
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	h.logger.InfoContext(c.UserContext(), "product deleted", "id", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes the JSON body into req and validates it.
func (h *ProductHandler) parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		h.logger.DebugContext(c.UserContext(), "error parsing request body", "error", err)
		return apperrors.NewValidationError("body", "Malformed JSON request")
	}
	return validateStruct(h.validate, req)
}

// optionalQuery returns nil when key is absent from the query string. A present
// but empty value is returned as an empty string.
func optionalQuery(c *fiber.Ctx, key string) *string {
	if !c.Context().QueryArgs().Has(key) {
		return nil
	}
	value := c.Query(key)
	return &value
}

func pageParams(c *fiber.Ctx) (int, int, error) {
	page, err := intQuery(c, "page", query.DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	size, err := intQuery(c, "size", query.DefaultSize)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func intQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(key, "must be an integer")
	}
	return value, nil
}

// productID parses the :id segment. Integers that no store can assign
// (zero or negative) are reported as not found.
func productID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, apperrors.NewValidationError("id", "must be an integer")
	}
	if id < 1 {
		return 0, apperrors.NotFound(models.ResourceName, int64(id))
	}
	return uint(id), nil
}
