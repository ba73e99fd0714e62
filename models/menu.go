package models

// MenuItem is one orderable item as served by the remote menu sheet.
// Items are immutable once loaded for a session.
type MenuItem struct {
	ID       string `json:"id"`
	Category string `json:"category"` // COFFEE, COLD BEVERAGE, SODA, PASTRY
	Name     string `json:"name"`
	Price    int64  `json:"price"` // whole pesos; price <= 0 means hidden
	IsHot    bool   `json:"isHot"`
	IsCold   bool   `json:"isCold"`
	Image    string `json:"image,omitempty"` // local path or external link
}

const (
	CategoryCoffee       = "COFFEE"
	CategoryColdBeverage = "COLD BEVERAGE"
	CategorySoda         = "SODA"
	CategoryPastry       = "PASTRY"
)
