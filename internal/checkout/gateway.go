// Package checkout turns a cart snapshot into an order-creation request
// against the external order service and interprets the response.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/fjod/go_storefront/internal/domain"
)

const (
	ordersPath           = "/api/v1/orders"
	DefaultPaymentMethod = "paypack"

	// FallbackCheckoutURL is where the caller navigates when the order
	// service accepts the order but supplies no payment redirect.
	FallbackCheckoutURL = "/checkout"
)

var ErrEmptyCart = errors.New("cannot submit an order for an empty cart")

// OrderError is any failure to create an order: transport errors,
// non-success statuses and unreadable bodies. The caller must keep the
// cart and surface a manual retry; the gateway never retries on its own
// because a duplicate submission against a slow order server can
// double-charge.
type OrderError struct {
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *OrderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("order creation failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderError) Unwrap() error { return e.Err }

// Result tells the caller where to navigate next. Fallback is set when
// the order service returned no payment URL.
type Result struct {
	RedirectURL string
	Fallback    bool
}

type orderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type orderRequest struct {
	Items         []orderItem `json:"items"`
	PaymentMethod string      `json:"paymentMethod"`
}

type orderResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

type Gateway struct {
	client  *http.Client
	baseURL string
}

func NewGateway(client *http.Client, baseURL string) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{client: client, baseURL: baseURL}
}

// SubmitOrder sends the line items to the order service. Only a confirmed
// success comes back as a Result; everything else is an *OrderError and
// the caller's cart stays as it was.
func (g *Gateway) SubmitOrder(ctx context.Context, items domain.Snapshot, paymentMethod string) (Result, error) {
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	reqBody := orderRequest{
		Items:         make([]orderItem, 0, len(items)),
		PaymentMethod: paymentMethod,
	}
	for _, it := range items {
		reqBody.Items = append(reqBody.Items, orderItem{ProductID: it.ID, Quantity: it.Quantity})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, &OrderError{Err: fmt.Errorf("marshal order request failed: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+ordersPath, bytes.NewReader(payload))
	if err != nil {
		return Result{}, &OrderError{Err: fmt.Errorf("build order request failed: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	// One key per submission attempt; a retry is a new user decision and
	// a new submission, not a replay.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, &OrderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &OrderError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("order endpoint returned status %d", resp.StatusCode),
		}
	}

	var body orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, &OrderError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode order response failed: %w", err),
		}
	}

	if body.PaymentURL == "" {
		return Result{RedirectURL: FallbackCheckoutURL, Fallback: true}, nil
	}
	return Result{RedirectURL: body.PaymentURL}, nil
}
