package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cafe-telegram/models"
)

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusNew, OrderStatusPreparing, true},
		{OrderStatusNew, OrderStatusServed, false},
		{OrderStatusNew, OrderStatusPaid, false},
		{OrderStatusPreparing, OrderStatusServed, true},
		{OrderStatusPreparing, OrderStatusNew, false},
		{OrderStatusPreparing, OrderStatusPaid, false},
		{OrderStatusServed, OrderStatusPaid, true},
		{OrderStatusServed, OrderStatusPreparing, false},
		{OrderStatusPaid, OrderStatusNew, false},
		{OrderStatusPaid, OrderStatusPreparing, false},
		{OrderStatusVoid, OrderStatusNew, false},
		{OrderStatusNew, OrderStatusVoid, false},
		{"", OrderStatusNew, false},
		{OrderStatusNew, "", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		status string
		next   string
		ok     bool
	}{
		{OrderStatusNew, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusServed, true},
		{OrderStatusServed, OrderStatusPaid, true},
		{OrderStatusPaid, "", false},
		{OrderStatusVoid, "", false},
		{"BOGUS", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		next, ok := NextStatus(tt.status)
		if next != tt.next || ok != tt.ok {
			t.Errorf("NextStatus(%q) = (%q, %v), want (%q, %v)", tt.status, next, ok, tt.next, tt.ok)
		}
	}
}

func TestActionLabelTerminalStatuses(t *testing.T) {
	if got := ActionLabel(OrderStatusPaid); got != "" {
		t.Errorf("PAID should offer no action, got %q", got)
	}
	if got := ActionLabel(OrderStatusVoid); got != "" {
		t.Errorf("VOID should offer no action, got %q", got)
	}
	for _, s := range []string{OrderStatusNew, OrderStatusPreparing, OrderStatusServed} {
		if ActionLabel(s) == "" {
			t.Errorf("%s should offer an action", s)
		}
	}
}

type stubSubmitter struct {
	conf *models.OrderConfirmation
	err  error
}

func (s *stubSubmitter) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	return s.conf, s.err
}

func testOrderRequest() models.OrderRequest {
	return models.OrderRequest{
		TableNumber: "The Campfire — T4",
		Items: []models.OrderLine{
			{ID: "A", Name: "Hot Americano", Price: 100, Qty: 2},
			{ID: "B", Name: "Strawberry Soda", Price: 50, Qty: 1},
		},
		PaymentMethod: PaymentPending,
	}
}

func TestSubmitOrderTransportFailureFallsBack(t *testing.T) {
	remote := &stubSubmitter{err: errors.New("connection refused")}
	conf := SubmitOrder(context.Background(), remote, testOrderRequest())

	if !conf.Success {
		t.Error("fallback confirmation must report success")
	}
	if conf.OrderID == "" {
		t.Error("fallback confirmation must carry a synthesized order id")
	}
	if !strings.HasPrefix(conf.OrderID, "YANI-") {
		t.Errorf("synthesized id %q should carry the local prefix", conf.OrderID)
	}
	if conf.Total != 250 {
		t.Errorf("fallback total = %d, want 250", conf.Total)
	}
}

func TestSubmitOrderServerRejectionFallsBack(t *testing.T) {
	remote := &stubSubmitter{conf: &models.OrderConfirmation{Success: false}}
	conf := SubmitOrder(context.Background(), remote, testOrderRequest())
	if !conf.Success || conf.OrderID == "" {
		t.Errorf("rejected submission should degrade to a local confirmation, got %+v", conf)
	}
}

func TestSubmitOrderNoRemote(t *testing.T) {
	conf := SubmitOrder(context.Background(), nil, testOrderRequest())
	if !conf.Success || conf.OrderID == "" || conf.Total != 250 {
		t.Errorf("demo-mode submission should succeed locally, got %+v", conf)
	}
}

func TestSubmitOrderPassesThroughServerConfirmation(t *testing.T) {
	remote := &stubSubmitter{conf: &models.OrderConfirmation{Success: true, OrderID: "ORD-42", Total: 300}}
	conf := SubmitOrder(context.Background(), remote, testOrderRequest())
	if conf.OrderID != "ORD-42" || conf.Total != 300 {
		t.Errorf("server confirmation was not passed through: %+v", conf)
	}
}

func TestLocalOrderIDShape(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	id := LocalOrderID(now)
	if !strings.HasPrefix(id, "YANI-") {
		t.Fatalf("id %q missing prefix", id)
	}
	digits := strings.TrimPrefix(id, "YANI-")
	if len(digits) != 8 {
		t.Errorf("id suffix %q should be 8 digits", digits)
	}
}

func TestLocalOrderIDUniqueWithinSession(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id := LocalOrderID(now) // same millisecond on purpose
		if seen[id] {
			t.Fatalf("duplicate local order id %q", id)
		}
		seen[id] = true
	}
}

func TestOrderTotal(t *testing.T) {
	if got := OrderTotal(testOrderRequest().Items); got != 250 {
		t.Errorf("OrderTotal = %d, want 250", got)
	}
	if got := OrderTotal(nil); got != 0 {
		t.Errorf("OrderTotal(nil) = %d, want 0", got)
	}
}

func TestDestination(t *testing.T) {
	tests := []struct {
		zone, table, want string
	}{
		{"The Campfire", "T4", "The Campfire — T4"},
		{"", "T4", "T4"},
		{"The Nest", "", "The Nest"},
		{"  The Gallery ", " 7 ", "The Gallery — 7"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := Destination(tt.zone, tt.table); got != tt.want {
			t.Errorf("Destination(%q, %q) = %q, want %q", tt.zone, tt.table, got, tt.want)
		}
	}
}
