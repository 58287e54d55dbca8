package domain

import "fmt"

// Product is one catalog entry. Products are immutable once loaded; the
// cart keeps its own copy of Title and Price so a line item survives the
// product disappearing from a later catalog snapshot.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Cooperative string   `json:"cooperative,omitempty"`
	Images      []string `json:"images,omitempty"`
	// Image is the legacy single-image field, still emitted by older feeds.
	Image       string   `json:"image,omitempty"`
}

func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product without id")
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price %v", p.ID, p.Price)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %s: negative stock %d", p.ID, p.Stock)
	}
	return nil
}

// PrimaryImage returns the first entry of Images, falling back to the
// legacy Image field when Images is empty.
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Image
}
