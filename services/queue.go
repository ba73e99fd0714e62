package services

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cafe-telegram/models"
)

// QueueAPI is the slice of the remote client the staff queue needs.
type QueueAPI interface {
	FetchOrders(ctx context.Context, status string) ([]models.QueueOrder, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// VisibleQueueLimit caps how many orders the staff view shows.
const VisibleQueueLimit = 20

// DefaultPollInterval is the queue refresh cadence.
const DefaultPollInterval = 8 * time.Second

// Queue polls the remote order list and holds the staff-facing snapshot:
// server ordering preserved, VOID orders hidden, capped at VisibleQueueLimit.
// Status changes are never applied locally. After every update the queue
// re-polls and whatever the server answers is what staff see, so a rejected
// update simply shows up as an unchanged order that can be retried.
type Queue struct {
	api      QueueAPI // nil when running without a remote (demo mode)
	interval time.Duration

	group singleflight.Group

	mu     sync.RWMutex
	orders []models.QueueOrder

	onRefresh func([]models.QueueOrder)
}

func NewQueue(api QueueAPI, interval time.Duration) *Queue {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Queue{api: api, interval: interval}
}

// Interval returns the poll cadence.
func (q *Queue) Interval() time.Duration { return q.interval }

// OnRefresh registers the view callback, invoked with the visible snapshot
// after each successful poll. Set it before Run starts.
func (q *Queue) OnRefresh(fn func([]models.QueueOrder)) { q.onRefresh = fn }

// Run polls at the configured interval until ctx is cancelled; cancellation
// stops the ticker so no timer outlives the queue view.
func (q *Queue) Run(ctx context.Context) {
	q.Refresh(ctx)
	t := time.NewTicker(q.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			q.Refresh(ctx)
		}
	}
}

// Refresh fetches the order list once. Overlapping callers (a timer tick
// racing a forced re-poll) are collapsed into a single in-flight request;
// the late caller shares the result instead of starting another fetch.
func (q *Queue) Refresh(ctx context.Context) {
	_, err, _ := q.group.Do("poll", func() (interface{}, error) {
		var orders []models.QueueOrder
		if q.api != nil {
			fetched, err := q.api.FetchOrders(ctx, "")
			if err != nil {
				return nil, err
			}
			orders = fetched
		}
		visible := VisibleOrders(orders)
		q.mu.Lock()
		q.orders = visible
		q.mu.Unlock()
		if q.onRefresh != nil {
			q.onRefresh(visible)
		}
		return nil, nil
	})
	if err != nil {
		log.Printf("queue poll failed: %v", err)
	}
}

// VisibleOrders applies the staff view rules to a server order list: keep the
// server's ordering, drop VOID orders, cap the result at VisibleQueueLimit.
func VisibleOrders(orders []models.QueueOrder) []models.QueueOrder {
	visible := make([]models.QueueOrder, 0, len(orders))
	for _, o := range orders {
		if o.Status == OrderStatusVoid {
			continue
		}
		visible = append(visible, o)
		if len(visible) == VisibleQueueLimit {
			break
		}
	}
	return visible
}

// Orders returns a copy of the current visible snapshot.
func (q *Queue) Orders() []models.QueueOrder {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]models.QueueOrder, len(q.orders))
	copy(out, q.orders)
	return out
}

// Advance issues the single forward transition for an order in the given
// status, then forces an immediate re-poll regardless of how the update
// went. Terminal and unknown statuses are a no-op. The snapshot is never
// edited speculatively; the re-poll reconciles with server truth.
func (q *Queue) Advance(ctx context.Context, orderID, current string) {
	next, ok := NextStatus(current)
	if !ok {
		return
	}
	if q.api != nil {
		if err := q.api.UpdateStatus(ctx, orderID, next); err != nil {
			log.Printf("status update %s %s -> %s failed: %v", orderID, current, next, err)
		}
	}
	q.Refresh(ctx)
}
