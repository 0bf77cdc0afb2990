package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tavola/internal/cart"
	"tavola/internal/domain"
	"tavola/internal/services"
)

// fakePlacer counts placement calls and can be told to fail.
type fakePlacer struct {
	mu      sync.Mutex
	calls   int
	fail    error
	lastD   domain.OrderDraft
	release chan struct{} // when set, Place blocks until closed
}

func (f *fakePlacer) Place(d domain.OrderDraft) (domain.Order, error) {
	f.mu.Lock()
	f.calls++
	f.lastD = d
	release := f.release
	fail := f.fail
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	if fail != nil {
		return domain.Order{}, fail
	}
	return domain.Order{
		ID:           uuid.NewString(),
		CustomerName: d.CustomerName,
		OrderType:    d.OrderType,
		Status:       domain.StatusPending,
	}, nil
}

func (f *fakePlacer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func decimalFrom(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func addLine(t *testing.T, carts *cart.Store, sid, itemID string, qty int) {
	t.Helper()
	err := carts.Do(sid, func(c *cart.Cart) error {
		c.Add(itemID, itemID, decimalFrom(t, "10.00"), qty)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func cartLines(t *testing.T, carts *cart.Store, sid string) []cart.Line {
	t.Helper()
	var lines []cart.Line
	_ = carts.Do(sid, func(c *cart.Cart) error {
		lines = c.Lines()
		return nil
	})
	return lines
}

func TestSubmitEmptyCartNeverCallsPlacer(t *testing.T) {
	carts := cart.NewStore()
	placer := &fakePlacer{}
	svc := services.NewCheckoutService(carts, placer)

	_, err := svc.Submit("sid-1", domain.OrderDraft{CustomerName: "Ida"})
	if !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
	if placer.callCount() != 0 {
		t.Fatalf("placer called %d times for an empty cart", placer.callCount())
	}
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	carts := cart.NewStore()
	placer := &fakePlacer{fail: errors.New("store unavailable")}
	svc := services.NewCheckoutService(carts, placer)

	addLine(t, carts, "sid-2", "margherita", 2)

	_, err := svc.Submit("sid-2", domain.OrderDraft{CustomerName: "Jon"})
	if err == nil {
		t.Fatal("want placement failure")
	}
	lines := cartLines(t, carts, "sid-2")
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("cart changed after failed submit: %+v", lines)
	}
}

func TestSubmitSuccessClearsCartAfterAck(t *testing.T) {
	carts := cart.NewStore()
	placer := &fakePlacer{}
	svc := services.NewCheckoutService(carts, placer)

	addLine(t, carts, "sid-3", "margherita", 1)
	addLine(t, carts, "sid-3", "tiramisu", 3)

	conf, err := svc.Submit("sid-3", domain.OrderDraft{CustomerName: "Kira", OrderType: "delivery"})
	if err != nil {
		t.Fatal(err)
	}
	if conf.OrderID == "" || conf.Status != domain.StatusPending {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if got := len(placer.lastD.Lines); got != 2 {
		t.Fatalf("draft carried %d lines, want 2", got)
	}
	if lines := cartLines(t, carts, "sid-3"); len(lines) != 0 {
		t.Fatalf("cart not cleared after ack: %+v", lines)
	}
}

func TestSubmitRejectsConcurrentDoubleSubmit(t *testing.T) {
	carts := cart.NewStore()
	placer := &fakePlacer{release: make(chan struct{})}
	svc := services.NewCheckoutService(carts, placer)

	addLine(t, carts, "sid-4", "margherita", 1)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit("sid-4", domain.OrderDraft{CustomerName: "Lia"})
		firstDone <- err
	}()

	// Wait until the first submit is inside Place, then try again.
	for placer.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	_, err := svc.Submit("sid-4", domain.OrderDraft{CustomerName: "Lia"})
	if !errors.Is(err, services.ErrSubmitInProgress) {
		t.Fatalf("want ErrSubmitInProgress, got %v", err)
	}

	close(placer.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if placer.callCount() != 1 {
		t.Fatalf("placer called %d times, want 1", placer.callCount())
	}
}
