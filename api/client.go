package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cafe-telegram/models"
)

// Client talks to the remote menu/order service: one endpoint where the
// request shape is selected by an "action" discriminator. The endpoint is
// open; no authentication is sent. Callers own all fallback behavior, the
// client just reports errors.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchMenu loads the menu list (GET ?action=menu). A response without a menu
// field decodes to a nil slice; the catalog provider treats that as a failed
// load.
func (c *Client) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	var resp struct {
		Menu []models.MenuItem `json:"menu"`
	}
	q := url.Values{"action": {"menu"}}
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Menu, nil
}

// SubmitOrder posts an order and returns the server confirmation.
func (c *Client) SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error) {
	body := struct {
		Action string `json:"action"`
		models.OrderRequest
	}{Action: "order", OrderRequest: req}

	var conf models.OrderConfirmation
	if err := c.post(ctx, body, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// FetchOrders loads the staff queue (GET ?action=orders), optionally filtered
// by status on the server side.
func (c *Client) FetchOrders(ctx context.Context, status string) ([]models.QueueOrder, error) {
	q := url.Values{"action": {"orders"}}
	if status != "" {
		q.Set("status", status)
	}
	var resp struct {
		Orders []models.QueueOrder `json:"orders"`
	}
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// UpdateStatus posts a status transition for one order. A reply with
// success=false is surfaced as an error; the queue reconciles by re-polling
// either way.
func (c *Client) UpdateStatus(ctx context.Context, orderID, status string) error {
	body := struct {
		Action  string `json:"action"`
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}{Action: "updateStatus", OrderID: orderID, Status: status}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("update rejected for order %s", orderID)
	}
	return nil
}

func (c *Client) get(ctx context.Context, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
