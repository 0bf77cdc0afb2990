package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"tavola/internal/config"
	"tavola/internal/http/handlers"
	"tavola/internal/repos"
	"tavola/internal/services"
)

func TestLoginLogoutMe(t *testing.T) {
	app, _ := newAPIApp(t)

	// bad password
	resp, err := app.Test(jsonReq(t, "POST", "/api/auth/login", map[string]string{
		"username": "staff", "password": "wrong",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad creds: %d, want 401", resp.StatusCode)
	}

	sid := loginAs(t, app, "staff")
	resp, err = app.Test(withSID(jsonReq(t, "GET", "/api/auth/me", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: %d", resp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decodeBody(t, resp, &me)
	if me.Username != "staff" || me.Role != "staff" {
		t.Fatalf("unexpected identity: %+v", me)
	}

	// logout invalidates the session
	if _, err := app.Test(withSID(jsonReq(t, "POST", "/api/auth/logout", nil), sid)); err != nil {
		t.Fatal(err)
	}
	resp, err = app.Test(withSID(jsonReq(t, "GET", "/api/auth/me", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d, want 401", resp.StatusCode)
	}
}

func TestRegistrationClosesAtAdminQuota(t *testing.T) {
	app, db := newAPIApp(t)

	// with one seeded admin, registration is open
	resp, err := app.Test(jsonReq(t, "POST", "/api/auth/register", map[string]string{
		"username": "newstaff", "email": "newstaff@tavola.test", "password": "Sup3rSafe!",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d, want 201", resp.StatusCode)
	}
	var u struct {
		Role string `json:"role"`
	}
	decodeBody(t, resp, &u)
	if u.Role != "staff" {
		t.Fatalf("default role = %s, want staff", u.Role)
	}

	// duplicate username
	resp, err = app.Test(jsonReq(t, "POST", "/api/auth/register", map[string]string{
		"username": "newstaff", "email": "other@tavola.test", "password": "Sup3rSafe!",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate username: %d, want 400", resp.StatusCode)
	}

	// second admin fills the quota; registration then closes
	resp, err = app.Test(jsonReq(t, "POST", "/api/auth/register", map[string]string{
		"username": "admin2", "email": "admin2@tavola.test", "password": "Sup3rSafe!", "role": "admin",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("second admin: %d, want 201", resp.StatusCode)
	}
	resp, err = app.Test(jsonReq(t, "POST", "/api/auth/register", map[string]string{
		"username": "latecomer", "email": "late@tavola.test", "password": "Sup3rSafe!",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("registration after quota: %d, want 400", resp.StatusCode)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE role='admin'`); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("admin count = %d, want 2", n)
	}
}

func TestLoginThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, config.Config{}, authSvc)

	app := fiber.New()
	app.Post("/api/auth/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), deps.UserHandler.Login)

	bad := map[string]string{"username": "staff", "password": "wrong"}
	for i := 0; i < 2; i++ {
		resp, err := app.Test(jsonReq(t, "POST", "/api/auth/login", bad))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: %d, want 401", i+1, resp.StatusCode)
		}
	}
	resp, err := app.Test(jsonReq(t, "POST", "/api/auth/login", bad))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third attempt: %d, want 429", resp.StatusCode)
	}
}

func TestWeakPasswordsRejected(t *testing.T) {
	app, _ := newAPIApp(t)
	for _, pw := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		resp, err := app.Test(jsonReq(t, "POST", "/api/auth/register", map[string]string{
			"username": "pwcheck", "email": "pw@tavola.test", "password": pw,
		}))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("password %q accepted (%d)", pw, resp.StatusCode)
		}
	}
}
