package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"tavola/internal/board"
	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/services"
)

// DashboardHandler serves the back-office HTML pages. The orders page builds
// a board over the loaded orders so a failed status change never leaves a
// stale status on screen.
type DashboardHandler struct {
	Orders    *services.OrderService
	OrderRepo *repos.OrderRepo
	Inv       *services.InventoryService
}

func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.Orders.Stats()
	if err != nil {
		applog.Error(c, "dashboard.stats", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the dashboard"})
	}
	low, err := h.Inv.LowStock()
	if err != nil {
		applog.Error(c, "dashboard.lowstock", err, nil)
		low = nil
	}
	return render(c, "dashboard", fiber.Map{"Stats": stats, "LowStock": low})
}

func (h *DashboardHandler) ordersBoard(c *fiber.Ctx) (*board.Board, error) {
	orders, err := h.Orders.List(repos.Filter{})
	if err != nil {
		return nil, err
	}
	b := board.New(h.OrderRepo, orders)
	if err := b.SetFilter(strings.TrimSpace(c.Query("status"))); err != nil {
		return nil, err
	}
	return b, nil
}

func (h *DashboardHandler) OrdersPage(c *fiber.Ctx) error {
	b, err := h.ordersBoard(c)
	if err != nil {
		applog.Error(c, "dashboard.orders", err, nil)
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": err.Error()})
	}
	return render(c, "dashboard_orders", fiber.Map{
		"Orders": b.Visible(),
		"Filter": b.Filter(),
	})
}

// UpdateOrderStatus handles the order-card status buttons.
func (h *DashboardHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	b, err := h.ordersBoard(c)
	if err != nil {
		applog.Error(c, "dashboard.status", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}

	orderID := c.Params("id")
	status := c.FormValue("status")
	if err := b.RequestTransition(orderID, status); err != nil {
		if errors.Is(err, board.ErrUnknownOrder) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
		}
		applog.Security(c, "dashboard.status.rejected", map[string]any{"order_id": orderID, "status": status})
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": err.Error()})
	}
	applog.Audit(c, "dashboard.status", map[string]any{"order_id": orderID, "status": status})

	back := "/dashboard/orders"
	if f := b.Filter(); f != "" {
		back += "?status=" + f
	}
	return c.Redirect(back)
}

func (h *DashboardHandler) InventoryPage(c *fiber.Ctx) error {
	items, err := h.Inv.List(strings.TrimSpace(c.Query("category")), c.Query("low") == "true")
	if err != nil {
		applog.Error(c, "dashboard.inventory", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	return render(c, "dashboard_inventory", fiber.Map{"Items": items})
}

// RecordMovement handles the stock-movement form on the inventory page.
func (h *DashboardHandler) RecordMovement(c *fiber.Ctx) error {
	qty, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("quantity")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("quantity must be a positive number")
	}
	performedBy := ""
	if u := currentUser(c); u != nil {
		performedBy = u.Username
	}
	res, err := h.Inv.RecordMovement(c.Params("id"), c.FormValue("movement_type"), qty, c.FormValue("reason"), performedBy)
	if err != nil {
		if re, ok := services.Rejected(err); ok {
			return c.Status(fiber.StatusBadRequest).SendString(re.Reason)
		}
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
		}
		applog.Error(c, "dashboard.movement", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not record the movement")
	}
	applog.Audit(c, "dashboard.movement", map[string]any{
		"item": res.UpdatedItem.ID,
		"type": string(res.Movement.MovementType),
	})
	return c.Redirect("/dashboard/inventory")
}
