package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tavola/internal/log"
	"tavola/internal/services"
)

// AuthHandler serves the HTML login flow for back-office staff.
type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if u := sessionUser(c, h.Auth); u != nil {
		return c.Redirect("/dashboard")
	}
	return render(c, "login", fiber.Map{})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username := c.FormValue("username")
	password := c.FormValue("password")

	u, err := h.Auth.Login(sid, username, password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Error": "Invalid username or password",
		})
	}
	applog.Audit(c, "auth.login", map[string]any{"user": u.Username})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	return c.Redirect("/")
}
