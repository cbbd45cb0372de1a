package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the SMS vendor's HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewClient constructs a vendor client.
func NewClient(baseURL, apiKey, sender string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		sender:  sender,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendRequest struct {
	Mobile       string `json:"mobile"`
	ResponseType string `json:"response_type"`
	SenderName   string `json:"sender_name"`
	ServiceID    int    `json:"service_id"`
	Message      string `json:"message"`
}

type sendResponse struct {
	StatusCode string `json:"status_code"`
	StatusDesc string `json:"status_desc"`
	MessageID  string `json:"message_id"`
}

// Send submits one message. A non-2xx response or a decode failure is a
// transport error; vendor-level rejection comes back in the Result.
func (c *Client) Send(ctx context.Context, to, message string) (Result, error) {
	payload := sendRequest{
		// the vendor wants the number without the plus sign
		Mobile:       strings.TrimPrefix(to, "+"),
		ResponseType: "json",
		SenderName:   c.sender,
		Message:      message,
	}
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return Result{}, fmt.Errorf("sms: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sms/sendsms", body)
	if err != nil {
		return Result{}, fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("h_api_key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("sms: send: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Result{}, fmt.Errorf("sms: gateway returned status %d", resp.StatusCode)
	}

	var decoded []sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("sms: decode response: %w", err)
	}
	if len(decoded) == 0 {
		return Result{}, fmt.Errorf("sms: empty gateway response")
	}
	first := decoded[0]
	return Result{
		StatusCode:  first.StatusCode,
		Description: first.StatusDesc,
		MessageID:   first.MessageID,
	}, nil
}
