// Package client is the session-side data layer: it talks to the REST API,
// holds the authoritative in-memory transaction list for the session, and
// derives the chart aggregations from it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
)

// Notifier surfaces transient, user-visible failure notifications.
// The default logs nowhere; UIs plug their toast layer in here.
type Notifier func(message string)

// Client mutates local state only after a successful server response, so a
// failed request leaves the session exactly where it was.
type Client struct {
	baseURL string
	http    *http.Client
	notify  Notifier

	mu           sync.Mutex
	transactions []core.Transaction
	categories   []string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 10s per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithNotifier installs the failure notification hook.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notify = n }
}

// WithCategories seeds the local category list from a parent-level load,
// suppressing the lazy fetch.
func WithCategories(cats []string) Option {
	return func(c *Client) { c.categories = append([]string(nil), cats...) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		notify:  func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the full transaction list and replaces local state wholesale.
func (c *Client) Load(ctx context.Context) error {
	var txs []core.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &txs); err != nil {
		c.notify("Failed to load transactions")
		return err
	}

	c.mu.Lock()
	c.transactions = txs
	c.mu.Unlock()
	return nil
}

// Transactions returns a snapshot of the session's list.
func (c *Client) Transactions() []core.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

type transactionPayload struct {
	Amount      *core.Money `json:"amount,omitempty"`
	Date        string      `json:"date,omitempty"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
}

// Create posts a new transaction and prepends the created record locally.
func (c *Client) Create(ctx context.Context, amount core.Money, date time.Time, description, category string) (core.Transaction, error) {
	payload := transactionPayload{
		Amount:      &amount,
		Date:        date.Format(time.RFC3339),
		Description: description,
		Category:    category,
	}

	var created core.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", payload, &created); err != nil {
		c.notify("Failed to save transaction")
		return core.Transaction{}, err
	}

	c.mu.Lock()
	c.transactions = append([]core.Transaction{created}, c.transactions...)
	c.mu.Unlock()
	return created, nil
}

// Patch carries the optional fields of an update; nil leaves a field as is.
type Patch struct {
	Amount      *core.Money
	Date        *time.Time
	Description *string
	Category    *string
}

// Update sends a partial update and replaces the matching local record.
func (c *Client) Update(ctx context.Context, id string, patch Patch) (core.Transaction, error) {
	payload := map[string]any{}
	if patch.Amount != nil {
		payload["amount"] = *patch.Amount
	}
	if patch.Date != nil {
		payload["date"] = patch.Date.Format(time.RFC3339)
	}
	if patch.Description != nil {
		payload["description"] = *patch.Description
	}
	if patch.Category != nil {
		payload["category"] = *patch.Category
	}

	var updated core.Transaction
	if err := c.do(ctx, http.MethodPut, "/api/transactions/"+id, payload, &updated); err != nil {
		c.notify("Failed to update transaction")
		return core.Transaction{}, err
	}

	c.mu.Lock()
	for i := range c.transactions {
		if c.transactions[i].ID == id {
			c.transactions[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Delete removes the transaction remotely, then filters it out locally.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/transactions/"+id, nil, nil); err != nil {
		c.notify("Failed to delete transaction")
		return err
	}

	c.mu.Lock()
	kept := c.transactions[:0]
	for _, t := range c.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.transactions = kept
	c.mu.Unlock()
	return nil
}

// Categories returns the local category list, fetching it lazily on first
// use when no parent supplied one.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	cached := c.categories
	c.mu.Unlock()
	if cached != nil {
		return append([]string(nil), cached...), nil
	}

	var cats []string
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &cats); err != nil {
		c.notify("Failed to load categories")
		return nil, err
	}

	c.mu.Lock()
	c.categories = cats
	c.mu.Unlock()
	return append([]string(nil), cats...), nil
}

// AddCategory submits a new category and adopts the server-returned list
// only after success, so a rejected add never diverges local state.
func (c *Client) AddCategory(ctx context.Context, name string) ([]string, error) {
	payload := map[string]string{"category": name}

	var updated []string
	if err := c.do(ctx, http.MethodPost, "/api/categories", payload, &updated); err != nil {
		c.notify("Failed to add category")
		return nil, err
	}

	c.mu.Lock()
	c.categories = updated
	c.mu.Unlock()
	return append([]string(nil), updated...), nil
}

// MonthlyTotals recomputes the per-month aggregation from the snapshot.
func (c *Client) MonthlyTotals() []core.MonthTotal {
	return core.MonthlyTotals(c.Transactions())
}

// CategoryBreakdown recomputes the per-category aggregation from the snapshot.
func (c *Client) CategoryBreakdown() []core.CategoryShare {
	return core.CategoryBreakdown(c.Transactions())
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
