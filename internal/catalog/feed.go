package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fjod/go_storefront/internal/domain"
)

// Feed produces one catalog snapshot. Implementations: a static seed for
// local use, an HTTP feed for a hosted product list.
type Feed interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
}

type StaticFeed struct {
	products []domain.Product
}

func NewStaticFeed(products []domain.Product) *StaticFeed {
	return &StaticFeed{products: products}
}

func (f *StaticFeed) Fetch(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

// SeedFeed returns the built-in demo catalog.
func SeedFeed() *StaticFeed {
	return NewStaticFeed([]domain.Product{
		{ID: "1", Title: "Organic Coffee Beans", Description: "Premium organic coffee beans from local farmers", Price: 14.99, Stock: 50, Cooperative: "Mountain Coffee Co-op", Image: "assets/coffee-beans.png"},
		{ID: "2", Title: "Handwoven Basket", Description: "Traditional handwoven basket made from sustainable materials", Price: 29.99, Stock: 15, Cooperative: "Artisan Crafts Coalition", Image: "assets/basket.jpg"},
		{ID: "3", Title: "Organic Honey", Description: "Pure, raw honey from local beekeepers", Price: 9.99, Stock: 30, Cooperative: "Beekeepers United", Image: "assets/honey.jpg"},
		{ID: "4", Title: "Handmade Soap", Description: "Natural handmade soap with essential oils", Price: 6.99, Stock: 40, Cooperative: "Natural Care Co-op", Image: "assets/soap.jpg"},
		{ID: "5", Title: "Farm Fresh Vegetables Box", Description: "Weekly selection of seasonal organic vegetables", Price: 24.99, Stock: 20, Cooperative: "Local Farmers Alliance", Image: "assets/vegetable-box.jpg"},
		{ID: "6", Title: "Artisan Cheese", Description: "Locally produced artisan cheese selection", Price: 19.99, Stock: 25, Cooperative: "Dairy Farmers Co-op", Image: "assets/cheese.jpg"},
	})
}

// HTTPFeed fetches the catalog as a JSON array of products.
type HTTPFeed struct {
	client *http.Client
	url    string
}

func NewHTTPFeed(client *http.Client, url string) *HTTPFeed {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFeed{client: client, url: url}
}

func (f *HTTPFeed) Fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode feed body: %w", err)
	}
	return products, nil
}
