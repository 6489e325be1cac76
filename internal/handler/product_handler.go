package handler

import (
	"strconv"

	"motoparts-inventory/internal/middleware"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

type compatibilityRequest struct {
	MotorcycleIDs []uint `json:"motorcycleIds"`
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &req, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), id, middleware.ActorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetProducts lists products
// Query params: categoryId, brandId, motorcycleId, lowStock=true
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	var filter repository.ProductFilter
	var err error

	if filter.CategoryID, err = queryID(c, "categoryId"); err != nil {
		return err
	}
	if filter.BrandID, err = queryID(c, "brandId"); err != nil {
		return err
	}
	if filter.MotorcycleID, err = queryID(c, "motorcycleId"); err != nil {
		return err
	}
	filter.LowStockOnly = c.QueryBool("lowStock", false)

	products, err := h.service.GetAllProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.GetLowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id/motorcycles
func (h *ProductHandler) GetCompatibleMotorcycles(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	motorcycles, err := h.service.GetCompatibleMotorcycles(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(motorcycles)
}

// PUT /api/v1/products/:id/motorcycles replaces the whole set
func (h *ProductHandler) SetCompatibleMotorcycles(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req compatibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	motorcycles, err := h.service.SetCompatibleMotorcycles(c.UserContext(), id, req.MotorcycleIDs, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Compatibility updated", "data": motorcycles})
}

// POST /api/v1/products/:id/motorcycles/:motorcycleId
func (h *ProductHandler) AddCompatibleMotorcycle(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	motorcycleID, err := paramID(c, "motorcycleId")
	if err != nil {
		return err
	}

	if err := h.service.AddCompatibleMotorcycle(c.UserContext(), id, motorcycleID, middleware.ActorFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Compatibility added"})
}

// DELETE /api/v1/products/:id/motorcycles/:motorcycleId
func (h *ProductHandler) RemoveCompatibleMotorcycle(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	motorcycleID, err := paramID(c, "motorcycleId")
	if err != nil {
		return err
	}

	if err := h.service.RemoveCompatibleMotorcycle(c.UserContext(), id, motorcycleID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/motorcycles/:id/products
func (h *ProductHandler) GetProductsForMotorcycle(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	products, err := h.service.GetProductsForMotorcycle(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// queryID reads an optional numeric filter; absent means 0.
func queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
