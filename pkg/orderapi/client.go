package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/formaworks/uniform-cart-service/internal/models"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a submission attempt end to end.
const DefaultTimeout = 15 * time.Second

// Client posts assembled orders to the backend order-intake endpoint. One
// attempt per call; retrying is the caller's decision.
type Client interface {
	SubmitOrder(ctx context.Context, payload *models.OrderPayload) (*models.OrderConfirmation, error)
}

type httpClient struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &httpClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// ack is the optional body of a 2xx response. An empty body is a valid
// acknowledgment too.
type ack struct {
	OrderNumber string `json:"order_number"`
}

// SubmitOrder implements Client.
func (c *httpClient) SubmitOrder(ctx context.Context, payload *models.OrderPayload) (*models.OrderConfirmation, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("order intake returned status %d", resp.StatusCode)
	}

	var a ack

	// Any 2xx counts as accepted, even with an empty or unreadable body.
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &a)
	}

	if a.OrderNumber == "" {
		a.OrderNumber = uuid.NewString()
	}

	return &models.OrderConfirmation{
		OrderNumber: a.OrderNumber,
		SubmittedAt: time.Now(),
	}, nil
}
