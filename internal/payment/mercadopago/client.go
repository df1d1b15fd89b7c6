// Package mercadopago implements payment.Provider against the Mercado
// Pago REST API. Only the two endpoints this service touches are
// covered: preference creation and payment lookup.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/materialespayan/storefront-backend/internal/order"
	"github.com/materialespayan/storefront-backend/internal/payment"
)

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds a client for the API at baseURL (the production host
// in deployments, an httptest server in tests). httpClient may carry an
// instrumented transport; it must not be nil.
func NewClient(baseURL, accessToken string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// CreateSession opens a checkout preference and returns its id and
// hosted redirect URL.
func (c *Client) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: encode preference: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mercadopago: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError("create preference", resp)
	}

	var session payment.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("mercadopago: decode preference response: %w", err)
	}
	if session.InitPoint == "" {
		return nil, fmt.Errorf("mercadopago: preference response missing init_point")
	}
	return &session, nil
}

// GetPayment fetches the authoritative state of a payment by id.
func (c *Client) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payments/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: get payment %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError("get payment "+id, resp)
	}

	// The payments API returns the id as a JSON number; decode loosely
	// and normalise to the string form used everywhere else.
	var raw struct {
		ID       json.Number    `json:"id"`
		Status   string         `json:"status"`
		Metadata order.Metadata `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("mercadopago: decode payment %s: %w", id, err)
	}

	return &payment.Payment{
		ID:       raw.ID.String(),
		Status:   raw.Status,
		Metadata: raw.Metadata,
	}, nil
}

// apiError drains a short prefix of the body so upstream failures are
// diagnosable from logs without dumping entire responses.
func apiError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("mercadopago: %s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(snippet))
}
