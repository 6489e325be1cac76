package handler

import (
	"motoparts-inventory/internal/middleware"
	"motoparts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves CRUD for one kind of reference data (categories,
// brands, motorcycles).
type CatalogHandler[T any] struct {
	service service.CatalogService[T]
	label   string
}

func NewCatalogHandler[T any](s service.CatalogService[T], label string) *CatalogHandler[T] {
	return &CatalogHandler[T]{service: s, label: label}
}

func (h *CatalogHandler[T]) Create(c *fiber.Ctx) error {
	entity := new(T)
	if err := c.BodyParser(entity); err != nil {
		return errInvalidJSON
	}

	created, err := h.service.Create(c.UserContext(), entity, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": h.label + " created", "data": created})
}

func (h *CatalogHandler[T]) List(c *fiber.Ctx) error {
	list, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *CatalogHandler[T]) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	entity, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity)
}

func (h *CatalogHandler[T]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	entity := new(T)
	if err := c.BodyParser(entity); err != nil {
		return errInvalidJSON
	}

	updated, err := h.service.Update(c.UserContext(), id, entity, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " updated", "data": updated})
}

func (h *CatalogHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id, middleware.ActorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Mount registers the five CRUD routes on r.
func (h *CatalogHandler[T]) Mount(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}
