package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/services"
)

// RequireUser gates API routes behind any logged-in staff account.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin gates API routes behind the admin role.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"user": u.Username})
			return jsonError(c, fiber.StatusForbidden, "admin access required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireChefOrAdmin gates menu mutations.
func RequireChefOrAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return jsonError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if u.Role != domain.RoleAdmin && u.Role != domain.RoleChef {
			applog.Security(c, "access.denied.menu", map[string]any{"user": u.Username})
			return jsonError(c, fiber.StatusForbidden, "chef or admin access required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireStaffPage protects back-office HTML pages; anonymous visitors are
// sent to the login form instead of getting a JSON error.
func RequireStaffPage(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// currentUser reads the user attached by an auth middleware, if any.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func sessionUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return u
	}
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(sid)
	if err != nil || u == nil {
		return nil
	}
	return u
}
