// Package notify sends text messages to customers and the store owner
// through a WhatsApp Cloud-style messaging API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrMissingCredentials is returned when the messaging token or sender
// id is absent. Checked at construction so deployments fail fast.
var ErrMissingCredentials = errors.New("notify: whatsapp token and phone id are required")

// Sender is the port the webhook worker and the manual test endpoint
// depend on.
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// WhatsAppClient implements Sender against the messaging provider's
// /{phoneID}/messages endpoint with a bearer credential.
type WhatsAppClient struct {
	baseURL    string
	token      string
	phoneID    string
	httpClient *http.Client
}

func NewWhatsAppClient(baseURL, token, phoneID string, httpClient *http.Client) (*WhatsAppClient, error) {
	if token == "" || phoneID == "" {
		return nil, ErrMissingCredentials
	}
	return &WhatsAppClient{
		baseURL:    baseURL,
		token:      token,
		phoneID:    phoneID,
		httpClient: httpClient,
	}, nil
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

type whatsAppText struct {
	Body string `json:"body"`
}

// Send normalizes the destination number and delivers one text message.
func (c *WhatsAppClient) Send(ctx context.Context, to, text string) error {
	normalized := NormalizePhone(to)
	if normalized == "" {
		return fmt.Errorf("notify: empty destination number %q", to)
	}

	body, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               normalized,
		Type:             "text",
		Text:             whatsAppText{Body: text},
	})
	if err != nil {
		return fmt.Errorf("notify: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+c.phoneID+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send to %s: %w", normalized, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: send to %s: status %d: %s",
			normalized, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
