package models

// OrderLine is a cart line snapshot sent with an order: the item id plus the
// name and price captured when the item was added.
type OrderLine struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

// OrderRequest is the order payload for the remote service.
type OrderRequest struct {
	TableNumber   string      `json:"tableNumber"` // destination: optional zone + table label
	Items         []OrderLine `json:"items"`
	PaymentMethod string      `json:"paymentMethod"`
}

// OrderConfirmation is the remote's answer to an order, or a locally
// synthesized stand-in when the remote could not be reached.
type OrderConfirmation struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Total   int64  `json:"total"`
}

// QueueOrder is an order row from the staff queue. It is a read-only
// projection: subtotal and the items summary come precomputed from the
// server and are never recalculated here.
type QueueOrder struct {
	OrderID      string `json:"orderId"`
	TableNumber  string `json:"tableNumber"`
	ItemsSummary string `json:"itemsSummary"`
	Subtotal     int64  `json:"subtotal"`
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
}
