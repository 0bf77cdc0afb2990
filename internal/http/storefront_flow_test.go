package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	html "github.com/gofiber/template/html/v2"

	"tavola/internal/config"
	"tavola/internal/http/handlers"
	"tavola/internal/repos"
	"tavola/internal/services"
)

func newStorefrontApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, config.Config{RestaurantName: "Tavola"}, authSvc)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/", deps.HomeHandler.Home)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.ChangeQuantity)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.CartHandler.CheckoutForm)
	app.Post("/checkout", deps.CartHandler.PlaceOrder)
	app.Get("/order/:id", deps.HomeHandler.OrderConfirmation)

	return app
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, csrfTok, sid string) *http.Response {
	t.Helper()
	form.Set("csrf", csrfTok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCartToCheckoutFlow(t *testing.T) {
	app := newStorefrontApp(t)

	// first visit mints the csrf and session cookies
	first, err := app.Test(httptest.NewRequest("GET", "/cart", nil))
	if err != nil {
		t.Fatal(err)
	}
	csrfTok := cookieValue(first, "csrf_")
	sid := cookieValue(first, "sid")
	if csrfTok == "" || sid == "" {
		t.Fatal("missing csrf or session cookie")
	}

	// add two pizzas
	resp := postForm(t, app, "/cart", url.Values{"item_id": {"margherita"}, "qty": {"2"}}, csrfTok, sid)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add to cart: %d, want 302", resp.StatusCode)
	}

	// unavailable items never reach the cart
	resp = postForm(t, app, "/cart", url.Values{"item_id": {"seasonal-risotto"}, "qty": {"1"}}, csrfTok, sid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unavailable add: %d, want 400", resp.StatusCode)
	}

	// checkout places the order and redirects to the confirmation page
	resp = postForm(t, app, "/checkout", url.Values{
		"customer_name": {"Pia"},
		"order_type":    {"takeaway"},
	}, csrfTok, sid)
	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("checkout: %d (%s), want 302", resp.StatusCode, body)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/order/") {
		t.Fatalf("unexpected redirect: %s", loc)
	}

	reqConf := httptest.NewRequest("GET", loc, nil)
	reqConf.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	confResp, err := app.Test(reqConf)
	if err != nil {
		t.Fatal(err)
	}
	if confResp.StatusCode != http.StatusOK {
		t.Fatalf("confirmation page: %d", confResp.StatusCode)
	}
	page, _ := io.ReadAll(confResp.Body)
	if !strings.Contains(string(page), "Pia") || !strings.Contains(string(page), "pending") {
		t.Fatal("confirmation page missing order details")
	}

	// the cart was cleared on acknowledgment: a second checkout is empty
	resp = postForm(t, app, "/checkout", url.Values{"customer_name": {"Pia"}}, csrfTok, sid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("checkout with cleared cart: %d, want 400", resp.StatusCode)
	}
}

func TestCheckoutRequiresCustomerName(t *testing.T) {
	app := newStorefrontApp(t)

	first, err := app.Test(httptest.NewRequest("GET", "/cart", nil))
	if err != nil {
		t.Fatal(err)
	}
	csrfTok := cookieValue(first, "csrf_")
	sid := cookieValue(first, "sid")

	postForm(t, app, "/cart", url.Values{"item_id": {"tiramisu"}, "qty": {"1"}}, csrfTok, sid)

	resp := postForm(t, app, "/checkout", url.Values{"customer_name": {"  "}}, csrfTok, sid)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank name: %d, want 400", resp.StatusCode)
	}

	// cart is untouched by the rejected submit; retry succeeds
	resp = postForm(t, app, "/checkout", url.Values{"customer_name": {"Rui"}}, csrfTok, sid)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("retry after validation failure: %d, want 302", resp.StatusCode)
	}
}
