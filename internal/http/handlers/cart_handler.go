package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tavola/internal/cart"
	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/services"
	"tavola/internal/validate"
)

// CartHandler serves the storefront cart pages and the checkout form.
type CartHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.FormValue("item_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing item_id")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(sid, itemID, qty); err != nil {
		if errors.Is(err, cart.ErrInvalidItem) {
			applog.Security(c, "cart.add.invalid", map[string]any{"item": itemID})
			return c.Status(fiber.StatusBadRequest).SendString("This item is not available")
		}
		applog.Error(c, "cart.add", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not add to cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) ChangeQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.FormValue("item_id"))
	delta, okDelta := validate.Delta(c.FormValue("delta"))
	if !ok || !okDelta {
		return c.Status(fiber.StatusBadRequest).SendString("missing item_id or delta")
	}
	if err := h.Cart.ChangeQuantity(sid, itemID, delta); err != nil {
		applog.Error(c, "cart.change", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.FormValue("item_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing item_id")
	}
	if err := h.Cart.Remove(sid, itemID); err != nil {
		applog.Error(c, "cart.remove", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) CheckoutForm(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

// PlaceOrder submits the cart. The cart survives every failure here; only a
// confirmed placement clears it.
func (h *CartHandler) PlaceOrder(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("customer_name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "customer_name"})
		return c.Status(fiber.StatusBadRequest).SendString("enter your name")
	}
	phone, ok := validate.Phone(c.FormValue("customer_phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "customer_phone"})
		return c.Status(fiber.StatusBadRequest).SendString("enter a valid phone number")
	}

	draft := domain.OrderDraft{
		CustomerName:        name,
		CustomerPhone:       phone,
		OrderType:           validate.OrderType(c.FormValue("order_type")),
		SpecialInstructions: c.FormValue("special_instructions"),
	}

	conf, err := h.Checkout.Submit(sid, draft)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).SendString("Your cart is empty")
		case errors.Is(err, services.ErrSubmitInProgress):
			return c.Status(fiber.StatusConflict).SendString("Your order is already being placed")
		default:
			if re, ok := services.Rejected(err); ok {
				applog.Security(c, "checkout.rejected", map[string]any{"reason": re.Reason})
				return c.Status(fiber.StatusBadRequest).SendString(re.Reason)
			}
			applog.Error(c, "checkout.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not place your order, please try again")
		}
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": conf.OrderID,
		"total":    conf.TotalAmount.String(),
	})
	return c.Redirect("/order/" + conf.OrderID)
}
