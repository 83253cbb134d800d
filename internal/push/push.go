// Package push registers device push tokens and talks to the Expo push
// gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ywebstudio/newslist/internal/docstore"
)

// tokenStore is the slice of the document store the registrar needs.
type tokenStore interface {
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
}

type Client struct {
	gatewayURL string
	client     *http.Client
}

type Message struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type gatewayResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"data"`
}

// NewClient creates a push client for the given gateway URL.
func NewClient(gatewayURL string) *Client {
	return &Client{
		gatewayURL: gatewayURL,
		client:     &http.Client{},
	}
}

// RegisterToken stores the device push token on the user's profile
// document. Called once after a successful login or registration;
// failures are reported but non-fatal to the session.
func (c *Client) RegisterToken(ctx context.Context, store tokenStore, userID, token string) error {
	if token == "" {
		return fmt.Errorf("empty push token")
	}
	err := store.UpdateDocument(ctx, docstore.CollectionUsers, userID, map[string]any{
		"pushToken": token,
	})
	if err != nil {
		return fmt.Errorf("storing push token: %w", err)
	}
	return nil
}

// Send posts a notification to the push gateway.
func (c *Client) Send(ctx context.Context, msg Message) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.gatewayURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway error (status %d): %s", resp.StatusCode, string(body))
	}

	var result gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if result.Data.Status != "" && result.Data.Status != "ok" {
		return fmt.Errorf("push gateway rejected notification: %s", result.Data.Message)
	}

	return nil
}
