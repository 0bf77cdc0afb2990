package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "tavola/internal/log"
	"tavola/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		data["CSRFToken"] = cookTok
	}
	return c.Render(tmpl, data)
}

// ensureSID returns the session id cookie, minting one on first contact.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// apiError maps a service error onto the API contract: rejected input keeps
// its reason, unknown ids 404, anything else logs and returns a generic 500.
func apiError(c *fiber.Ctx, action string, err error) error {
	if re, ok := services.Rejected(err); ok {
		applog.Security(c, action, map[string]any{"reason": re.Reason})
		return jsonError(c, fiber.StatusBadRequest, re.Reason)
	}
	if err == services.ErrNotFound {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	applog.Error(c, action, err, nil)
	return jsonError(c, fiber.StatusInternalServerError, "internal error, please retry")
}
