package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tavola/internal/domain"
	"tavola/internal/repos"
	"tavola/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func orderSvc(t *testing.T) (*services.OrderService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	return services.NewOrderService(repos.NewMenuRepo(db), repos.NewOrderRepo(db)), db
}

func TestPlaceComputesTotalsAndStartsPending(t *testing.T) {
	svc, _ := orderSvc(t)

	o, err := svc.Place(domain.OrderDraft{
		CustomerName: "Anna",
		OrderType:    "takeaway",
		Lines: []domain.DraftLine{
			{MenuItemID: "margherita", Quantity: 2}, // 12.50 each
			{MenuItemID: "bruschetta", Quantity: 1}, // 5.50
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("new order status = %s, want pending", o.Status)
	}
	want := decimal.RequireFromString("30.50")
	if !o.TotalAmount.Equal(want) {
		t.Fatalf("total = %s, want %s", o.TotalAmount, want)
	}
	if len(o.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(o.Items))
	}
	for _, it := range o.Items {
		if !it.Total.Equal(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))) {
			t.Fatalf("line total %s does not match price*qty for %s", it.Total, it.Name)
		}
	}
}

func TestPlaceSumsDuplicateLines(t *testing.T) {
	svc, _ := orderSvc(t)

	o, err := svc.Place(domain.OrderDraft{
		CustomerName: "Aldo",
		Lines: []domain.DraftLine{
			{MenuItemID: "margherita", Quantity: 1},
			{MenuItemID: "tiramisu", Quantity: 1},
			{MenuItemID: "margherita", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Items) != 2 {
		t.Fatalf("duplicate lines must merge, got %d items", len(o.Items))
	}
	for _, it := range o.Items {
		if it.MenuItemID == "margherita" && it.Quantity != 3 {
			t.Fatalf("margherita quantity = %d, want 3", it.Quantity)
		}
	}
	// 12.50*3 + 6.00
	if !o.TotalAmount.Equal(decimal.RequireFromString("43.50")) {
		t.Fatalf("total = %s, want 43.50", o.TotalAmount)
	}
}

func TestPlaceRejectsUnavailableItem(t *testing.T) {
	svc, _ := orderSvc(t)

	// seasonal-risotto is seeded unavailable
	_, err := svc.Place(domain.OrderDraft{
		CustomerName: "Bea",
		Lines:        []domain.DraftLine{{MenuItemID: "seasonal-risotto", Quantity: 1}},
	})
	re, ok := services.Rejected(err)
	if !ok {
		t.Fatalf("want rejection, got %v", err)
	}
	if re.Reason != "menu item seasonal-risotto is not available" {
		t.Fatalf("unexpected reason: %s", re.Reason)
	}

	_, err = svc.Place(domain.OrderDraft{
		CustomerName: "Bea",
		Lines:        []domain.DraftLine{{MenuItemID: "no-such-dish", Quantity: 1}},
	})
	if _, ok := services.Rejected(err); !ok {
		t.Fatalf("unknown item should reject, got %v", err)
	}
}

func TestPlaceRejectsEmptyDraft(t *testing.T) {
	svc, _ := orderSvc(t)
	_, err := svc.Place(domain.OrderDraft{CustomerName: "Carlo"})
	if _, ok := services.Rejected(err); !ok {
		t.Fatalf("want rejection for empty draft, got %v", err)
	}
}

func TestUpdateStatusEnumMembershipOnly(t *testing.T) {
	svc, _ := orderSvc(t)
	o, err := svc.Place(domain.OrderDraft{
		CustomerName: "Dora",
		Lines:        []domain.DraftLine{{MenuItemID: "tiramisu", Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// any member of the enum is reachable from any other
	for _, st := range []string{"completed", "pending", "cancelled", "preparing"} {
		got, err := svc.UpdateStatus(o.ID, st)
		if err != nil {
			t.Fatalf("update to %s: %v", st, err)
		}
		if string(got.Status) != st {
			t.Fatalf("status = %s, want %s", got.Status, st)
		}
	}

	if _, err := svc.UpdateStatus(o.ID, "PENDING"); err == nil {
		t.Fatal("case-sensitive enum: PENDING should be rejected")
	}
	if _, err := svc.UpdateStatus(o.ID, "delivered"); err == nil {
		t.Fatal("delivered is not a valid status")
	}
	if _, err := svc.UpdateStatus("missing-order", "ready"); err != services.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStatsCountsAndRevenue(t *testing.T) {
	svc, _ := orderSvc(t)

	a, err := svc.Place(domain.OrderDraft{
		CustomerName: "Elio",
		Lines:        []domain.DraftLine{{MenuItemID: "margherita", Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Place(domain.OrderDraft{
		CustomerName: "Fia",
		Lines:        []domain.DraftLine{{MenuItemID: "diavola", Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(a.ID, "completed"); err != nil {
		t.Fatal(err)
	}
	_ = b

	stats, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalOrders != 2 || stats.PendingOrders != 1 || stats.CompletedOrders != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	// revenue counts completed orders only
	if !stats.TotalRevenue.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("revenue = %s, want 12.50", stats.TotalRevenue)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := orderSvc(t)
	a, _ := svc.Place(domain.OrderDraft{
		CustomerName: "Gino",
		Lines:        []domain.DraftLine{{MenuItemID: "margherita", Quantity: 1}},
	})
	svc.Place(domain.OrderDraft{
		CustomerName: "Hana",
		Lines:        []domain.DraftLine{{MenuItemID: "bruschetta", Quantity: 1}},
	})
	if _, err := svc.UpdateStatus(a.ID, "ready"); err != nil {
		t.Fatal(err)
	}

	ready, err := svc.List(repos.Filter{Status: "ready"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ready) != 1 || ready[0].ID != a.ID {
		t.Fatalf("ready filter returned %d orders", len(ready))
	}
	all, err := svc.List(repos.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list = %d orders, want 2", len(all))
	}
}
