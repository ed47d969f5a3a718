package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// deliveryRequest is the payload posted to the delivery collaborator.
type deliveryRequest struct {
	BuyerID string `json:"buyer_id"`
	ItemID  string `json:"item_id"`
}

// deliveryResponse carries back the handles of ephemeral messages the
// collaborator produced, so settlement can schedule their cleanup.
type deliveryResponse struct {
	Handles []string `json:"handles"`
}

// WebhookDeliverer fulfills paid orders by posting a delivery request to
// a configured endpoint (the chat/file collaborator).
type WebhookDeliverer struct {
	url    string
	client *http.Client
}

// NewWebhookDeliverer creates a WebhookDeliverer with the given endpoint
// and per-request timeout.
func NewWebhookDeliverer(url string, timeout time.Duration) *WebhookDeliverer {
	return &WebhookDeliverer{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Deliver posts the delivery request and returns any message handles the
// collaborator reports.
func (d *WebhookDeliverer) Deliver(ctx context.Context, buyerID, itemID string) ([]string, error) {
	body, err := json.Marshal(deliveryRequest{BuyerID: buyerID, ItemID: itemID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("delivery endpoint returned status %d", resp.StatusCode)
	}

	var out deliveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		// Delivery succeeded even if the handle payload is unreadable.
		return nil, nil
	}
	return out.Handles, nil
}

// LogDeliverer is the default Deliverer when no delivery endpoint is
// configured: it logs the order and reports success with one synthetic
// handle.
type LogDeliverer struct {
	logger *slog.Logger
}

// NewLogDeliverer creates a LogDeliverer.
func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Deliver logs the fulfilled order.
func (d *LogDeliverer) Deliver(ctx context.Context, buyerID, itemID string) ([]string, error) {
	d.logger.Info("delivering order",
		slog.String("buyer_id", buyerID),
		slog.String("item_id", itemID),
	)
	return []string{"log:" + uuid.NewString()}, nil
}
