package domain

import "github.com/google/uuid"

// CartItem is a snapshot of a product at add time. Name and price are
// frozen when the item first enters the cart; later product edits do
// not leak into an open cart session.
type CartItem struct {
	ProductID  uuid.UUID `json:"productId"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Qty        int       `json:"qty"`
	Dimensions string    `json:"dimensions,omitempty"`
	Guests     int       `json:"guests,omitempty"`
	Image      string    `json:"image,omitempty"`
}

// Cart keeps at most one item per product id.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add merges by product id: an existing line gains quantity 1 and the
// stored snapshot wins over the incoming one; a new line starts at
// quantity 1.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Qty++
			return
		}
	}
	item.Qty = 1
	c.Items = append(c.Items, item)
}

// UpdateQty sets the quantity directly. Zero or negative removes the
// line. Unknown ids are ignored.
func (c *Cart) UpdateQty(productID uuid.UUID, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Qty = qty
			return
		}
	}
}

// Remove drops the matching line; no-op when absent.
func (c *Cart) Remove(productID uuid.UUID) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	c.Items = out
}

// Clear empties the cart. Called after a successful checkout; the
// order write and this clear are two separate steps.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalPrice recomputes the sum of price times quantity on every call.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Price * int64(it.Qty)
	}
	return total
}

// TotalCount recomputes the summed quantity on every call.
func (c *Cart) TotalCount() int {
	count := 0
	for _, it := range c.Items {
		count += it.Qty
	}
	return count
}
