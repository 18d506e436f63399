package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// WhatsAppClient posts messages to a WhatsApp gateway API.
type WhatsAppClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type whatsAppMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func NewWhatsAppClient(apiURL, apiKey string, timeout time.Duration, logger *slog.Logger) *WhatsAppClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppClient{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *WhatsAppClient) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(whatsAppMessage{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("whatsapp gateway accepted message", "status", resp.StatusCode)
	return nil
}
