package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"cafe-telegram/models"
)

// Order statuses as stored by the remote service. Orders move strictly
// forward: NEW -> PREPARING -> SERVED -> PAID. VOID is a terminal
// cancellation the server may apply from any state; this client never issues
// it and only hides such orders from the queue.
const (
	OrderStatusNew       = "NEW"
	OrderStatusPreparing = "PREPARING"
	OrderStatusServed    = "SERVED"
	OrderStatusPaid      = "PAID"
	OrderStatusVoid      = "VOID"
)

// PaymentPending is the placeholder payment marker attached at checkout;
// payment is settled at the counter, outside this system.
const PaymentPending = "PENDING"

const localOrderPrefix = "YANI-"

// ValidStatusTransition reports whether from -> to is one legal forward step
// along the main chain. Backward moves and skips are never valid.
func ValidStatusTransition(from, to string) bool {
	next, ok := NextStatus(from)
	return ok && to == next
}

// NextStatus returns the single forward step for a status. PAID and VOID are
// terminal for this client, as is anything unrecognized.
func NextStatus(status string) (string, bool) {
	switch status {
	case OrderStatusNew:
		return OrderStatusPreparing, true
	case OrderStatusPreparing:
		return OrderStatusServed, true
	case OrderStatusServed:
		return OrderStatusPaid, true
	}
	return "", false
}

// ActionLabel is the caption for the staff button that advances an order;
// empty when the order offers no action.
func ActionLabel(status string) string {
	switch status {
	case OrderStatusNew:
		return "▶ Prepare"
	case OrderStatusPreparing:
		return "✦ Served"
	case OrderStatusServed:
		return "💰 Paid"
	}
	return ""
}

// OrderSubmitter is the remote side of order submission.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error)
}

// SubmitOrder sends the order to the remote service. From the caller's point
// of view submission never fails: when no remote is configured, the transport
// errors, or the server rejects the order, a confirmation with a locally
// synthesized order id and a locally computed total is returned so the
// customer flow completes offline. The cart is left untouched; clearing it
// after the customer acknowledges the receipt is the caller's job.
func SubmitOrder(ctx context.Context, remote OrderSubmitter, req models.OrderRequest) *models.OrderConfirmation {
	if remote != nil {
		conf, err := remote.SubmitOrder(ctx, req)
		if err == nil && conf != nil && conf.Success && conf.OrderID != "" {
			return conf
		}
		if err != nil {
			log.Printf("order submit failed, issuing local confirmation: %v", err)
		}
	}
	return &models.OrderConfirmation{
		Success: true,
		OrderID: LocalOrderID(time.Now()),
		Total:   OrderTotal(req.Items),
	}
}

// OrderTotal recomputes an order total from its lines; used when the server
// did not supply one.
func OrderTotal(items []models.OrderLine) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Qty)
	}
	return total
}

var localIDMu sync.Mutex
var lastLocalID string

// LocalOrderID derives an order id from the timestamp, in the same shape the
// remote issues. A session-local guard bumps the id when two orders land on
// the same millisecond, so ids stay unique within the session.
func LocalOrderID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	id := localOrderPrefix + ms

	localIDMu.Lock()
	defer localIDMu.Unlock()
	if id == lastLocalID || strings.HasPrefix(lastLocalID, id+"-") {
		n := 1
		if i := strings.LastIndex(lastLocalID, "-"); i > len(localOrderPrefix) {
			if prev, err := strconv.Atoi(lastLocalID[i+1:]); err == nil {
				n = prev + 1
			}
		}
		id = id + "-" + strconv.Itoa(n)
	}
	lastLocalID = id
	return id
}

// Destination joins the optional seating zone and the table label into the
// single descriptor the kitchen sees. Either part may be empty.
func Destination(zone, table string) string {
	zone = strings.TrimSpace(zone)
	table = strings.TrimSpace(table)
	switch {
	case zone == "":
		return table
	case table == "":
		return zone
	}
	return zone + " — " + table
}
