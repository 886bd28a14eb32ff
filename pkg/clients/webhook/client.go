package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Client posts published reports to an HTTP endpoint.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client for the configured URL.
func NewClient(cfg config.WebhookConfig) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "stockbook").
		SetTimeout(15 * time.Second)

	return &Client{httpClient: restyClient, url: cfg.URL}
}

// payload is the JSON body posted for each report.
type payload struct {
	Event  string        `json:"event"`
	Report models.Report `json:"report"`
}

// apiError is the error body receivers may answer with.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Publish posts report to the webhook.
func (c *Client) Publish(ctx context.Context, report models.Report) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload{Event: "report.published", Report: report}).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post report webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
