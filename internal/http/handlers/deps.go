package handlers

import (
	"github.com/jmoiron/sqlx"

	"tavola/internal/cart"
	"tavola/internal/config"
	"tavola/internal/repos"
	"tavola/internal/services"
)

type Deps struct {
	HomeHandler      *HomeHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	MenuHandler      *MenuHandler
	EventHandler     *EventHandler
	InventoryHandler *InventoryHandler
	UserHandler      *UserHandler
	DashboardHandler *DashboardHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	menuRepo := repos.NewMenuRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	eventRepo := repos.NewEventRepo(db)

	carts := cart.NewStore()
	cartSvc := services.NewCartService(carts, menuRepo)
	orderSvc := services.NewOrderService(menuRepo, orderRepo)
	checkoutSvc := services.NewCheckoutService(carts, orderSvc)
	invSvc := services.NewInventoryService(invRepo)

	return &Deps{
		HomeHandler:      &HomeHandler{Menu: menuRepo, Events: eventRepo, Orders: orderSvc, RestaurantName: cfg.RestaurantName},
		CartHandler:      &CartHandler{Cart: cartSvc, Checkout: checkoutSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		MenuHandler:      &MenuHandler{Menu: menuRepo},
		EventHandler:     &EventHandler{Events: eventRepo},
		InventoryHandler: &InventoryHandler{Inv: invSvc, Repo: invRepo},
		UserHandler:      &UserHandler{Auth: auth, Users: auth.Users},
		DashboardHandler: &DashboardHandler{Orders: orderSvc, OrderRepo: orderRepo, Inv: invSvc},
	}
}
