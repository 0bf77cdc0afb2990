package handlers

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/validate"
)

// MenuHandler serves the public menu plus chef/admin menu management.
type MenuHandler struct {
	Menu *repos.MenuRepo
}

type menuItemBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

func (h *MenuHandler) List(c *fiber.Ctx) error {
	availableOnly := c.Query("available") != "false"
	items, err := h.Menu.List(strings.TrimSpace(c.Query("category")), availableOnly)
	if err != nil {
		return apiError(c, "menu.list", err)
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return c.JSON(items)
}

func (h *MenuHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Menu.Categories()
	if err != nil {
		return apiError(c, "menu.categories", err)
	}
	return c.JSON(cats)
}

func (h *MenuHandler) Get(c *fiber.Ctx) error {
	m, err := h.Menu.Get(c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return apiError(c, "menu.get", err)
	}
	return c.JSON(m)
}

func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var body menuItemBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	name, ok := validate.Name(body.Name)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	if !body.Price.IsPositive() {
		return jsonError(c, fiber.StatusBadRequest, "price must be a positive number")
	}
	if strings.TrimSpace(body.Category) == "" {
		return jsonError(c, fiber.StatusBadRequest, "category is required")
	}

	m := domain.MenuItem{
		ID:          uuid.NewString(),
		Name:        name,
		Description: body.Description,
		Price:       body.Price,
		Category:    strings.TrimSpace(body.Category),
		ImageURL:    body.ImageURL,
		IsAvailable: body.IsAvailable == nil || *body.IsAvailable,
	}
	if u := currentUser(c); u != nil {
		m.CreatedBy = u.ID
	}
	if err := h.Menu.Create(m); err != nil {
		return apiError(c, "menu.create", err)
	}
	applog.Audit(c, "menu.create", map[string]any{"item": m.ID, "name": m.Name})
	created, err := h.Menu.Get(m.ID)
	if err != nil {
		return apiError(c, "menu.create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *MenuHandler) Update(c *fiber.Ctx) error {
	m, err := h.Menu.Get(c.Params("id"))
	if errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		return apiError(c, "menu.update", err)
	}

	var body menuItemBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if body.Name != "" {
		name, ok := validate.Name(body.Name)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid name")
		}
		m.Name = name
	}
	if body.Description != "" {
		m.Description = body.Description
	}
	if !body.Price.IsZero() {
		if !body.Price.IsPositive() {
			return jsonError(c, fiber.StatusBadRequest, "price must be a positive number")
		}
		m.Price = body.Price
	}
	if body.Category != "" {
		m.Category = strings.TrimSpace(body.Category)
	}
	if body.ImageURL != "" {
		m.ImageURL = body.ImageURL
	}
	if body.IsAvailable != nil {
		m.IsAvailable = *body.IsAvailable
	}

	if err := h.Menu.Update(m); err != nil {
		return apiError(c, "menu.update", err)
	}
	applog.Audit(c, "menu.update", map[string]any{"item": m.ID})
	updated, err := h.Menu.Get(m.ID)
	if err != nil {
		return apiError(c, "menu.update", err)
	}
	return c.JSON(updated)
}

// ToggleAvailability flips a menu item on or off the storefront.
func (h *MenuHandler) ToggleAvailability(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Menu.Get(id); errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	} else if err != nil {
		return apiError(c, "menu.toggle", err)
	}
	avail, err := h.Menu.ToggleAvailability(id)
	if err != nil {
		return apiError(c, "menu.toggle", err)
	}
	applog.Audit(c, "menu.toggle", map[string]any{"item": id, "is_available": avail})
	return c.JSON(fiber.Map{"id": id, "is_available": avail})
}

func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Menu.Get(id); errors.Is(err, sql.ErrNoRows) {
		return jsonError(c, fiber.StatusNotFound, "not found")
	} else if err != nil {
		return apiError(c, "menu.delete", err)
	}
	if err := h.Menu.Delete(id); err != nil {
		return apiError(c, "menu.delete", err)
	}
	applog.Audit(c, "menu.delete", map[string]any{"item": id})
	return c.SendStatus(fiber.StatusNoContent)
}
