package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cafe-telegram/models"
)

type stubQueueAPI struct {
	mu        sync.Mutex
	orders    []models.QueueOrder
	fetches   int
	updates   []string
	updateErr error
}

func (s *stubQueueAPI) FetchOrders(ctx context.Context, status string) ([]models.QueueOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	out := make([]models.QueueOrder, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *stubQueueAPI) UpdateStatus(ctx context.Context, orderID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, orderID+":"+status)
	// Mimic the server applying the transition.
	if s.updateErr == nil {
		for i := range s.orders {
			if s.orders[i].OrderID == orderID {
				s.orders[i].Status = status
			}
		}
	}
	return s.updateErr
}

func (s *stubQueueAPI) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func TestVisibleOrdersHidesVoidAndCaps(t *testing.T) {
	var orders []models.QueueOrder
	for i := 0; i < 25; i++ {
		status := OrderStatusNew
		if i%5 == 0 {
			status = OrderStatusVoid
		}
		orders = append(orders, models.QueueOrder{OrderID: fmt.Sprintf("O%02d", i), Status: status})
	}

	visible := VisibleOrders(orders)
	if len(visible) != VisibleQueueLimit {
		t.Fatalf("expected %d visible orders, got %d", VisibleQueueLimit, len(visible))
	}
	for _, o := range visible {
		if o.Status == OrderStatusVoid {
			t.Errorf("VOID order %s leaked into the visible list", o.OrderID)
		}
	}
	// Server ordering preserved: first visible is the first non-VOID.
	if visible[0].OrderID != "O01" {
		t.Errorf("expected O01 first, got %s", visible[0].OrderID)
	}
}

func TestQueueRefreshStoresSnapshot(t *testing.T) {
	api := &stubQueueAPI{orders: []models.QueueOrder{
		{OrderID: "A", Status: OrderStatusNew},
		{OrderID: "B", Status: OrderStatusVoid},
		{OrderID: "C", Status: OrderStatusPreparing},
	}}
	q := NewQueue(api, time.Hour)
	q.Refresh(context.Background())

	got := q.Orders()
	if len(got) != 2 || got[0].OrderID != "A" || got[1].OrderID != "C" {
		t.Errorf("snapshot = %+v, want [A C]", got)
	}
}

func TestQueueAdvanceUpdatesThenRepolls(t *testing.T) {
	api := &stubQueueAPI{orders: []models.QueueOrder{
		{OrderID: "A", Status: OrderStatusPreparing},
	}}
	q := NewQueue(api, time.Hour)
	q.Refresh(context.Background())
	before := api.fetchCount()

	q.Advance(context.Background(), "A", OrderStatusPreparing)

	api.mu.Lock()
	updates := append([]string(nil), api.updates...)
	api.mu.Unlock()
	if len(updates) != 1 || updates[0] != "A:"+OrderStatusServed {
		t.Fatalf("expected one update A:SERVED, got %v", updates)
	}
	if api.fetchCount() != before+1 {
		t.Errorf("advance must force an immediate re-poll, fetches %d -> %d", before, api.fetchCount())
	}
	// The snapshot shows what the re-poll returned, not a local guess.
	got := q.Orders()
	if len(got) != 1 || got[0].Status != OrderStatusServed {
		t.Errorf("snapshot after advance = %+v, want A in SERVED", got)
	}
}

func TestQueueAdvanceTerminalStatusIsNoOp(t *testing.T) {
	api := &stubQueueAPI{orders: []models.QueueOrder{
		{OrderID: "A", Status: OrderStatusPaid},
	}}
	q := NewQueue(api, time.Hour)
	q.Advance(context.Background(), "A", OrderStatusPaid)

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.updates) != 0 {
		t.Errorf("PAID order must offer no transition, got updates %v", api.updates)
	}
}

func TestQueueAdvanceRepollsEvenWhenUpdateFails(t *testing.T) {
	api := &stubQueueAPI{
		orders:    []models.QueueOrder{{OrderID: "A", Status: OrderStatusNew}},
		updateErr: errors.New("rejected"),
	}
	q := NewQueue(api, time.Hour)
	before := api.fetchCount()

	q.Advance(context.Background(), "A", OrderStatusNew)

	if api.fetchCount() != before+1 {
		t.Error("failed update must still trigger the reconciling re-poll")
	}
	// Server did not apply the update; the snapshot must show it unchanged.
	got := q.Orders()
	if len(got) != 1 || got[0].Status != OrderStatusNew {
		t.Errorf("snapshot = %+v, want A unchanged in NEW", got)
	}
}

func TestQueueNilAPIKeepsEmptySnapshot(t *testing.T) {
	q := NewQueue(nil, time.Hour)
	q.Refresh(context.Background())
	if got := q.Orders(); len(got) != 0 {
		t.Errorf("demo-mode queue should stay empty, got %+v", got)
	}
}

type slowQueueAPI struct {
	stubQueueAPI
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowQueueAPI) FetchOrders(ctx context.Context, status string) ([]models.QueueOrder, error) {
	s.mu.Lock()
	s.fetches++
	first := s.fetches == 1
	s.mu.Unlock()
	if first {
		s.once.Do(func() { close(s.started) })
		<-s.release
	}
	return nil, nil
}

func TestQueueOverlappingRefreshesShareOneFetch(t *testing.T) {
	api := &slowQueueAPI{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	q := NewQueue(api, time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Refresh(context.Background())
	}()
	<-api.started

	// Second caller arrives while the first fetch is still in flight and
	// must join it instead of issuing another request.
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Refresh(context.Background())
	}()
	time.Sleep(200 * time.Millisecond)
	close(api.release)
	wg.Wait()

	if got := api.fetchCount(); got != 1 {
		t.Errorf("overlapping refreshes issued %d fetches, want 1", got)
	}
}

func TestQueueRunStopsOnCancel(t *testing.T) {
	api := &stubQueueAPI{}
	q := NewQueue(api, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	settled := api.fetchCount()
	time.Sleep(50 * time.Millisecond)
	if api.fetchCount() != settled {
		t.Error("poller kept fetching after cancellation")
	}
}

func TestQueueOnRefreshDeliversVisibleSnapshot(t *testing.T) {
	api := &stubQueueAPI{orders: []models.QueueOrder{
		{OrderID: "A", Status: OrderStatusNew},
		{OrderID: "B", Status: OrderStatusVoid},
	}}
	q := NewQueue(api, time.Hour)

	var got []models.QueueOrder
	q.OnRefresh(func(orders []models.QueueOrder) { got = orders })
	q.Refresh(context.Background())

	if len(got) != 1 || got[0].OrderID != "A" {
		t.Errorf("OnRefresh snapshot = %+v, want [A]", got)
	}
}
