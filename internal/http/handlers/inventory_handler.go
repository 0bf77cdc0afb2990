package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/services"
)

// InventoryHandler exposes the stock ledger: staff read and record movements,
// admins manage the item catalogue.
type InventoryHandler struct {
	Inv  *services.InventoryService
	Repo *repos.InventoryRepo
}

type inventoryItemBody struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	MinimumStock    decimal.Decimal `json:"minimum_stock"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	SupplierName    string          `json:"supplier_name"`
	SupplierContact string          `json:"supplier_contact"`
}

type movementBody struct {
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.Inv.List(strings.TrimSpace(c.Query("category")), c.Query("low_stock") == "true")
	if err != nil {
		return apiError(c, "inventory.list", err)
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	return c.JSON(items)
}

func (h *InventoryHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Repo.Categories()
	if err != nil {
		return apiError(c, "inventory.categories", err)
	}
	return c.JSON(cats)
}

// LowStock lists items whose current stock has fallen below minimum.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.Inv.LowStock()
	if err != nil {
		return apiError(c, "inventory.low", err)
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	return c.JSON(items)
}

func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	it, err := h.Inv.Get(c.Params("id"))
	if err != nil {
		return apiError(c, "inventory.get", err)
	}
	return c.JSON(it)
}

func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var body inventoryItemBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(body.Name) == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(body.Unit) == "" {
		return jsonError(c, fiber.StatusBadRequest, "unit is required")
	}
	if body.CurrentStock.IsNegative() || body.MinimumStock.IsNegative() {
		return jsonError(c, fiber.StatusBadRequest, "stock levels cannot be negative")
	}

	it := domain.InventoryItem{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(body.Name),
		Description:     body.Description,
		Category:        strings.TrimSpace(body.Category),
		Unit:            strings.TrimSpace(body.Unit),
		CurrentStock:    body.CurrentStock,
		MinimumStock:    body.MinimumStock,
		UnitCost:        body.UnitCost,
		SupplierName:    body.SupplierName,
		SupplierContact: body.SupplierContact,
	}
	if err := h.Repo.Create(it); err != nil {
		return apiError(c, "inventory.create", err)
	}
	applog.Audit(c, "inventory.create", map[string]any{"item": it.ID, "name": it.Name})
	created, err := h.Inv.Get(it.ID)
	if err != nil {
		return apiError(c, "inventory.create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	it, err := h.Inv.Get(c.Params("id"))
	if err != nil {
		return apiError(c, "inventory.update", err)
	}

	var body inventoryItemBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if body.Name != "" {
		it.Name = strings.TrimSpace(body.Name)
	}
	if body.Description != "" {
		it.Description = body.Description
	}
	if body.Category != "" {
		it.Category = strings.TrimSpace(body.Category)
	}
	if body.Unit != "" {
		it.Unit = strings.TrimSpace(body.Unit)
	}
	if !body.MinimumStock.IsZero() {
		if body.MinimumStock.IsNegative() {
			return jsonError(c, fiber.StatusBadRequest, "minimum_stock cannot be negative")
		}
		it.MinimumStock = body.MinimumStock
	}
	if !body.UnitCost.IsZero() {
		it.UnitCost = body.UnitCost
	}
	if body.SupplierName != "" {
		it.SupplierName = body.SupplierName
	}
	if body.SupplierContact != "" {
		it.SupplierContact = body.SupplierContact
	}

	if err := h.Repo.Update(it); err != nil {
		return apiError(c, "inventory.update", err)
	}
	applog.Audit(c, "inventory.update", map[string]any{"item": it.ID})
	updated, err := h.Inv.Get(it.ID)
	if err != nil {
		return apiError(c, "inventory.update", err)
	}
	return c.JSON(updated)
}

func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Inv.Get(id); err != nil {
		return apiError(c, "inventory.delete", err)
	}
	if err := h.Repo.Delete(id); err != nil {
		return apiError(c, "inventory.delete", err)
	}
	applog.Audit(c, "inventory.delete", map[string]any{"item": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// RecordMovement appends one ledger entry and returns the movement together
// with the item's post-movement state.
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var body movementBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	performedBy := ""
	if u := currentUser(c); u != nil {
		performedBy = u.Username
	}
	res, err := h.Inv.RecordMovement(c.Params("id"), body.MovementType, body.Quantity, body.Reason, performedBy)
	if err != nil {
		return apiError(c, "inventory.movement", err)
	}
	applog.Audit(c, "inventory.movement", map[string]any{
		"item":     res.UpdatedItem.ID,
		"type":     string(res.Movement.MovementType),
		"quantity": res.Movement.Quantity.String(),
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	moves, err := h.Inv.Movements(c.Params("id"))
	if err != nil {
		return apiError(c, "inventory.movements", err)
	}
	if moves == nil {
		moves = []domain.StockMovement{}
	}
	return c.JSON(moves)
}

// UsageReport returns recent consumption, newest first.
func (h *InventoryHandler) UsageReport(c *fiber.Ctx) error {
	moves, err := h.Inv.UsageReport()
	if err != nil {
		return apiError(c, "inventory.usage", err)
	}
	if moves == nil {
		moves = []domain.StockMovement{}
	}
	return c.JSON(moves)
}
