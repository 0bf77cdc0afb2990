package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"tavola/internal/config"
	"tavola/internal/http/handlers"
	applog "tavola/internal/log"
	"tavola/internal/repos"
	"tavola/internal/services"
)

func main() {
	// API responses carry money and stock as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error, please retry"})
			}
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	// Forms carry a CSRF token; the JSON API authenticates by session and is
	// exempt.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Storefront pages
	app.Get("/", deps.HomeHandler.Home)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.ChangeQuantity)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.CartHandler.CheckoutForm)
	app.Post("/checkout", deps.CartHandler.PlaceOrder)
	app.Get("/order/:id", deps.HomeHandler.OrderConfirmation)

	// Auth pages (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Error": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Back office
	dash := app.Group("/dashboard", handlers.RequireStaffPage(authSvc))
	dash.Get("/", deps.DashboardHandler.Overview)
	dash.Get("/orders", deps.DashboardHandler.OrdersPage)
	dash.Post("/orders/:id/status", deps.DashboardHandler.UpdateOrderStatus)
	dash.Get("/inventory", deps.DashboardHandler.InventoryPage)
	dash.Post("/inventory/:id/movement", deps.DashboardHandler.RecordMovement)

	// ---------- JSON API ----------
	api := app.Group("/api", cors.New())

	auth := api.Group("/auth")
	auth.Post("/register", deps.UserHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), deps.UserHandler.Login)
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

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
