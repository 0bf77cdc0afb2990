package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"tavola/internal/domain"
	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/services"
	"tavola/internal/validate"
)

// UserHandler covers the JSON auth endpoints and admin user management.
type UserHandler struct {
	Auth  *services.AuthService
	Users *repos.UserRepo
}

type credentialsBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

func validRole(r string) bool {
	return r == domain.RoleAdmin || r == domain.RoleChef || r == domain.RoleStaff
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	username, ok := validate.Username(body.Username)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "username must be 3-30 characters (letters, digits, . _ -)")
	}
	email, ok := validate.Email(body.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	if !validate.Password(body.Password) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-64 characters with upper, lower and digit")
	}
	if body.Role != "" && !validRole(body.Role) {
		return jsonError(c, fiber.StatusBadRequest, "invalid role")
	}

	u, err := h.Auth.Register(username, email, body.Password, body.Role)
	if err != nil {
		return apiError(c, "auth.register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user": u.Username, "role": u.Role})
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, body.Username, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": body.Username})
		return jsonError(c, fiber.StatusUnauthorized, "invalid username or password")
	}
	applog.Audit(c, "auth.login", map[string]any{"user": u.Username})
	return c.JSON(u)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			return apiError(c, "auth.logout", err)
		}
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return c.JSON(u)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return apiError(c, "user.list", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.Users.ByID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	return c.JSON(u)
}

// Update lets an admin change role, active flag, email or password.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	u, err := h.Users.ByID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}

	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if body.Email != "" {
		email, ok := validate.Email(body.Email)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid email")
		}
		u.Email = email
	}
	if body.Role != "" {
		if !validRole(body.Role) {
			return jsonError(c, fiber.StatusBadRequest, "invalid role")
		}
		u.Role = body.Role
	}
	if body.IsActive != nil {
		u.IsActive = *body.IsActive
	}
	if body.Password != "" {
		if !validate.Password(body.Password) {
			return jsonError(c, fiber.StatusBadRequest, "password must be 8-64 characters with upper, lower and digit")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 12)
		if err != nil {
			return apiError(c, "user.update", err)
		}
		u.Hash = string(hash)
	}

	if err := h.Users.Update(*u); err != nil {
		return apiError(c, "user.update", err)
	}
	applog.Audit(c, "user.update", map[string]any{"user": u.Username})
	return c.JSON(u)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	target, err := h.Users.ByID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not found")
	}
	if me := currentUser(c); me != nil && me.ID == target.ID {
		return jsonError(c, fiber.StatusBadRequest, "cannot delete your own account")
	}
	if err := h.Users.Delete(target.ID); err != nil {
		return apiError(c, "user.delete", err)
	}
	applog.Audit(c, "user.delete", map[string]any{"user": target.Username})
	return c.SendStatus(fiber.StatusNoContent)
}
