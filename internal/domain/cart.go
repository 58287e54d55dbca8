package domain

// LineItem is one product-and-quantity pair in a cart. Title and Price are
// captured from the product at add time.
type LineItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Snapshot is the complete cart state at one instant. It is the unit of
// persistence and of cross-view broadcast.
type Snapshot []LineItem

func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Total is the derived sum of price * quantity. It is never stored.
func (s Snapshot) Total() float64 {
	var total float64
	for _, it := range s {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count is the number of units across all line items.
func (s Snapshot) Count() int {
	var n int
	for _, it := range s {
		n += it.Quantity
	}
	return n
}

// Find returns the index of the line item for id, or -1.
func (s Snapshot) Find(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}
