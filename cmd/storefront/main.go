package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/notify"
	"github.com/fjod/go_storefront/internal/storage"
	"github.com/fjod/go_storefront/pkg/logger"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Runs two views of the storefront against one durable store and walks
// through the catalog/cart/checkout flow, mirroring what two open browser
// tabs would do.
func main() {
	slogger := logger.New(logger.Options{
		Service: "storefront",
		Level:   getEnv("LOG_LEVEL", "info"),
	})

	dbPath := getEnv("STOREFRONT_DB", "./storefront.db")
	catalogURL := os.Getenv("CATALOG_URL")
	orderAPIURL := os.Getenv("ORDER_API_URL")
	redisAddr := os.Getenv("REDIS_ADDR")

	ctx := context.Background()

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()
	log.Printf("Durable store ready at %s", dbPath)

	// Views in one process sync over the local bus; set REDIS_ADDR to let
	// separate processes share cart state.
	var bus notify.Bus = notify.NewLocalBus()
	if redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		bus = notify.NewRedisBus(redisClient, slogger)
		log.Printf("Cross-view sync over redis at %s", redisAddr)
	}

	var feed catalog.Feed = catalog.SeedFeed()
	if catalogURL != "" {
		feed = catalog.NewHTTPFeed(&http.Client{Timeout: 10 * time.Second}, catalogURL)
	}

	products := catalog.NewStore(feed)
	if err := products.Load(ctx); err != nil {
		// Non-fatal: the storefront stays usable with an empty catalog.
		log.Printf("Catalog unavailable, continuing with empty list: %v", err)
	}
	log.Printf("Catalog %s with %d products", products.State(), len(products.List()))

	lookup := func(id string) (cart.ItemMeta, bool) {
		p, err := products.FindByID(id)
		if err != nil {
			return cart.ItemMeta{}, false
		}
		return cart.ItemMeta{Title: p.Title, Price: p.Price}, true
	}

	viewA, err := cart.New(ctx, store, bus, cart.Options{Lookup: lookup, Logger: slogger})
	if err != nil {
		log.Fatalf("Failed to open view A: %v", err)
	}
	defer viewA.Close()

	viewB, err := cart.New(ctx, store, bus, cart.Options{Lookup: lookup, Logger: slogger})
	if err != nil {
		log.Fatalf("Failed to open view B: %v", err)
	}
	defer viewB.Close()

	for _, p := range catalog.Filter(products.List(), "organic", nil) {
		if _, err := viewA.Add(ctx, p.ID, cart.ItemMeta{Title: p.Title, Price: p.Price}, 1); err != nil {
			log.Printf("Failed to add %s: %v", p.ID, err)
		}
	}
	log.Printf("View A: %d units, total %.2f", viewA.Count(), viewA.Total())
	log.Printf("View B sees %d units after sync, total %.2f", viewB.Count(), viewB.Total())

	if orderAPIURL == "" {
		log.Println("ORDER_API_URL not set, skipping checkout")
		return
	}

	gateway := checkout.NewGateway(&http.Client{Timeout: 15 * time.Second}, orderAPIURL)
	result, err := gateway.SubmitOrder(ctx, viewA.Items(), checkout.DefaultPaymentMethod)
	if err != nil {
		var orderErr *checkout.OrderError
		if errors.As(err, &orderErr) {
			// Cart stays intact; the user retries when they choose to.
			log.Printf("Order creation failed, cart preserved: %v", orderErr)
			return
		}
		log.Printf("Checkout not attempted: %v", err)
		return
	}

	log.Printf("Order accepted, redirect to %s (fallback=%v)", result.RedirectURL, result.Fallback)
	viewA.Clear(ctx)
	log.Printf("Cart cleared after confirmed order; view B now holds %d units", viewB.Count())
}
