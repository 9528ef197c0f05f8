package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/filmhaus/payment-service/internal/application"
	"github.com/filmhaus/payment-service/internal/config"
)

// Client talks to the processor's form-encoded REST API. All calls are bounded
// by the configured connection timeout; exceeding it counts as a failed call.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.StripeConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type refundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *Client) CreateIntent(ctx context.Context, req application.CreateIntentRequest, idempotencyKey string) (*application.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", req.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	var resp intentResponse
	if err := c.post(ctx, "/v1/payment_intents", form, idempotencyKey, &resp); err != nil {
		return nil, err
	}

	return &application.Intent{
		ID:           resp.ID,
		ClientSecret: resp.ClientSecret,
		Status:       resp.Status,
	}, nil
}

func (c *Client) CreateRefund(ctx context.Context, paymentIntentID string) (*application.Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)

	// An intent is refunded at most once, so the intent id makes a stable
	// idempotency key. Retried requests after a lost response deduplicate
	// processor-side instead of refunding twice.
	var resp refundResponse
	if err := c.post(ctx, "/v1/refunds", form, "refund-"+paymentIntentID, &resp); err != nil {
		return nil, err
	}

	return &application.Refund{
		ID:     resp.ID,
		Status: resp.Status,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, idempotencyKey string, out any) error {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var errResp processorErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("processor returned status %d: %s", resp.StatusCode, string(body))
		}
		return &ProcessorError{
			Type:       errResp.Error.Type,
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding json response: %w", err)
	}

	return nil
}

var _ application.ProcessorClient = (*Client)(nil)
