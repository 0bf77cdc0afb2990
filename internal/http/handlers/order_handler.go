package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/services"
	"tavola/internal/validate"
)

// OrderHandler exposes the JSON order API. Placement is public; listing and
// status changes are staff operations.
type OrderHandler struct {
	Orders *services.OrderService
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var d domain.OrderDraft
	if err := c.BodyParser(&d); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	name, ok := validate.Name(d.CustomerName)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "customer_name is required")
	}
	d.CustomerName = name
	if d.CustomerPhone != "" {
		phone, ok := validate.Phone(d.CustomerPhone)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid customer_phone")
		}
		d.CustomerPhone = phone
	}
	if d.CustomerEmail != "" {
		email, ok := validate.Email(d.CustomerEmail)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid customer_email")
		}
		d.CustomerEmail = email
	}
	d.OrderType = validate.OrderType(d.OrderType)

	o, err := h.Orders.Place(d)
	if err != nil {
		return apiError(c, "order.create", err)
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": o.ID, "total": o.TotalAmount.String()})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	f := repos.Filter{
		Status:    c.Query("status"),
		OrderType: c.Query("order_type"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	}
	if f.Status != "" {
		if _, err := domain.ParseOrderStatus(f.Status); err != nil {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	orders, err := h.Orders.List(f)
	if err != nil {
		return apiError(c, "order.list", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return apiError(c, "order.get", err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.Orders.UpdateStatus(c.Params("id"), body.Status)
	if err != nil {
		return apiError(c, "order.status", err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": o.ID, "status": string(o.Status)})
	return c.JSON(o)
}

func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var body struct {
		domain.OrderDraft
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.Orders.UpdateFields(c.Params("id"), body.OrderDraft, body.Status)
	if err != nil {
		return apiError(c, "order.update", err)
	}
	applog.Audit(c, "order.update", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Delete(id); err != nil {
		return apiError(c, "order.delete", err)
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Orders.Stats()
	if err != nil {
		return apiError(c, "order.stats", err)
	}
	return c.JSON(stats)
}
