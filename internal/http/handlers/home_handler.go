package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/services"
)

// HomeHandler serves the public storefront pages.
type HomeHandler struct {
	Menu           *repos.MenuRepo
	Events         *repos.EventRepo
	Orders         *services.OrderService
	RestaurantName string
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	items, err := h.Menu.List(category, true)
	if err != nil {
		applog.Error(c, "home.menu", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the menu"})
	}
	cats, err := h.Menu.Categories()
	if err != nil {
		applog.Error(c, "home.categories", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the menu"})
	}
	events, err := h.Events.List(true, true)
	if err != nil {
		applog.Error(c, "home.events", err, nil)
		events = nil
	}
	return render(c, "home", fiber.Map{
		"RestaurantName": h.RestaurantName,
		"Items":          items,
		"Categories":     cats,
		"Category":       category,
		"Events":         events,
	})
}

// OrderConfirmation shows the post-checkout summary page.
func (h *HomeHandler) OrderConfirmation(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err == services.ErrNotFound {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if err != nil {
		applog.Error(c, "order.confirmation", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your order"})
	}
	return render(c, "order", fiber.Map{"Order": o})
}
