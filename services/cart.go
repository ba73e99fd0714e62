package services

import "cafe-telegram/models"

// CartLine is one cart entry: a snapshot of the item's name and price taken
// when it was first added, plus a positive quantity.
type CartLine struct {
	ID    string
	Name  string
	Price int64
	Qty   int
}

// Cart holds the lines of one ordering session, keyed by item id. At most one
// line exists per id and no line ever has Qty <= 0; a quantity that drops to
// zero removes the line. Insertion order is kept so receipts read in the
// order the customer built them. Carts live in memory only.
type Cart struct {
	lines map[string]*CartLine
	order []string
}

func NewCart() *Cart {
	return &Cart{lines: make(map[string]*CartLine)}
}

// Add puts one unit of item in the cart, bumping the quantity when a line for
// the id already exists. There is no upper bound and no stock check.
func (c *Cart) Add(item models.MenuItem) {
	if line, ok := c.lines[item.ID]; ok {
		line.Qty++
		return
	}
	c.lines[item.ID] = &CartLine{ID: item.ID, Name: item.Name, Price: item.Price, Qty: 1}
	c.order = append(c.order, item.ID)
}

// Increment bumps an existing line by one. Absent ids are a no-op: the UI
// only offers the button for lines already in the cart.
func (c *Cart) Increment(id string) {
	if line, ok := c.lines[id]; ok {
		line.Qty++
	}
}

// Decrement lowers a line by one and removes it when the quantity reaches
// zero. Absent ids are a no-op.
func (c *Cart) Decrement(id string) {
	line, ok := c.lines[id]
	if !ok {
		return
	}
	line.Qty--
	if line.Qty <= 0 {
		c.remove(id)
	}
}

func (c *Cart) remove(id string) {
	delete(c.lines, id)
	for i, lid := range c.order {
		if lid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = make(map[string]*CartLine)
	c.order = nil
}

// Total recomputes the cart total from the current lines on every call.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Price * int64(line.Qty)
	}
	return total
}

// Count recomputes the badge count (sum of quantities) on every call.
func (c *Cart) Count() int {
	var count int
	for _, line := range c.lines {
		count += line.Qty
	}
	return count
}

// Qty reports the quantity for one item id, zero when absent.
func (c *Cart) Qty(id string) int {
	if line, ok := c.lines[id]; ok {
		return line.Qty
	}
	return 0
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		if line, ok := c.lines[id]; ok {
			out = append(out, *line)
		}
	}
	return out
}
