package handlers

import (
	"officehub/internal/models"
	"officehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// invalidBodyDetail is returned when the request body is not a JSON object
const invalidBodyDetail = "Request body must be a JSON object"

// ResourceHandler exposes one ResourceService over HTTP
type ResourceHandler struct {
	service *services.ResourceService
	schema  *models.Schema
}

// NewResourceHandler creates a handler for service
func NewResourceHandler(service *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		schema:  service.Schema(),
	}
}

// Register mounts the five operations under the schema prefix. Routing is not
// strict, so every path also answers with a trailing slash.
func (h *ResourceHandler) Register(router fiber.Router) {
	group := router.Group(h.schema.Prefix)
	group.Post("/", h.Create)
	group.Get("/", h.List)
	group.Get("/search", h.Search)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}

// Create handles POST /<prefix>/
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	payload, ok := parseObject(c)
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: invalidBodyDetail})
	}

	rec, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"detail": h.schema.Name + " created successfully.",
		"data":   rec,
	})
}

// List handles GET /<prefix>/
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	recs, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recs)
}

// Search handles GET /<prefix>/search. Every query parameter is passed through;
// the schema decides which ones filter.
func (h *ResourceHandler) Search(c *fiber.Ctx) error {
	recs, err := h.service.Search(c.UserContext(), c.Queries())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recs)
}

// Update handles PUT /<prefix>/:id
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	payload, ok := parseObject(c)
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Detail: invalidBodyDetail})
	}

	rec, err := h.service.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"detail": h.schema.Name + " updated successfully.",
		"data":   rec,
	})
}

// Delete handles DELETE /<prefix>/:id
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"detail": h.schema.Name + " deleted successfully."})
}

// parseObject decodes the body into a map; ok is false unless it was a JSON object
func parseObject(c *fiber.Ctx) (payload map[string]any, ok bool) {
	if err := c.BodyParser(&payload); err != nil || payload == nil {
		return nil, false
	}
	return payload, true
}
