package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tavola/internal/config"
	"tavola/internal/http/handlers"
	"tavola/internal/repos"
	"tavola/internal/services"
)

func init() {
	// main sets this too; tests decode money as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// newAPIApp wires the JSON API the way main does, minus throttling and CSRF,
// over a seeded in-memory database.
func newAPIApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	deps := handlers.NewDeps(db, config.Config{RestaurantName: "Tavola"}, authSvc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", deps.UserHandler.Register)
	auth.Post("/login", deps.UserHandler.Login)
	auth.Post("/logout", deps.UserHandler.Logout)
	auth.Get("/me", handlers.RequireUser(authSvc), deps.UserHandler.Me)

	menu := api.Group("/menu")
	menu.Get("/", deps.MenuHandler.List)
	menu.Get("/categories", deps.MenuHandler.Categories)
	menu.Post("/", handlers.RequireChefOrAdmin(authSvc), deps.MenuHandler.Create)
	menu.Get("/:id", deps.MenuHandler.Get)
	menu.Put("/:id", handlers.RequireChefOrAdmin(authSvc), deps.MenuHandler.Update)
	menu.Patch("/:id/availability", handlers.RequireChefOrAdmin(authSvc), deps.MenuHandler.ToggleAvailability)
	menu.Delete("/:id", handlers.RequireChefOrAdmin(authSvc), deps.MenuHandler.Delete)

	events := api.Group("/events")
	events.Get("/", deps.EventHandler.List)
	events.Post("/", handlers.RequireAdmin(authSvc), deps.EventHandler.Create)
	events.Get("/:id", deps.EventHandler.Get)
	events.Put("/:id", handlers.RequireAdmin(authSvc), deps.EventHandler.Update)
	events.Patch("/:id/active", handlers.RequireAdmin(authSvc), deps.EventHandler.ToggleActive)
	events.Delete("/:id", handlers.RequireAdmin(authSvc), deps.EventHandler.Delete)

	orders := api.Group("/orders")
	orders.Post("/", deps.OrderHandler.Create)
	orders.Get("/", handlers.RequireUser(authSvc), deps.OrderHandler.List)
	orders.Get("/stats", handlers.RequireAdmin(authSvc), deps.OrderHandler.Stats)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Patch("/:id/status", handlers.RequireUser(authSvc), deps.OrderHandler.UpdateStatus)
	orders.Put("/:id", handlers.RequireAdmin(authSvc), deps.OrderHandler.Update)
	orders.Delete("/:id", handlers.RequireAdmin(authSvc), deps.OrderHandler.Delete)

	inv := api.Group("/inventory", handlers.RequireUser(authSvc))
	inv.Get("/", deps.InventoryHandler.List)
	inv.Get("/categories", deps.InventoryHandler.Categories)
	inv.Get("/low-stock", deps.InventoryHandler.LowStock)
	inv.Get("/reports/usage", handlers.RequireAdmin(authSvc), deps.InventoryHandler.UsageReport)
	inv.Post("/", handlers.RequireAdmin(authSvc), deps.InventoryHandler.Create)
	inv.Get("/:id", deps.InventoryHandler.Get)
	inv.Put("/:id", handlers.RequireAdmin(authSvc), deps.InventoryHandler.Update)
	inv.Delete("/:id", handlers.RequireAdmin(authSvc), deps.InventoryHandler.Delete)
	inv.Get("/:id/movements", deps.InventoryHandler.Movements)
	inv.Post("/:id/stock-movement", deps.InventoryHandler.RecordMovement)

	users := api.Group("/users", handlers.RequireAdmin(authSvc))
	users.Get("/", deps.UserHandler.List)
	users.Get("/:id", deps.UserHandler.Get)
	users.Put("/:id", deps.UserHandler.Update)
	users.Delete("/:id", deps.UserHandler.Delete)

	return app, db
}

func jsonReq(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

// loginAs signs in a seeded account and returns the session cookie value.
func loginAs(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	req := jsonReq(t, "POST", "/api/auth/login", map[string]string{
		"username": username,
		"password": "Passw0rd!",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s: status %d", username, resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	t.Fatal("no sid cookie on login")
	return ""
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}
