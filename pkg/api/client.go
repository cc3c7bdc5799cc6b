package api

// ORDER API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pocat/internal/configurator"
)

// ErrRejected is returned when the order backend refuses an order. Requests
// that fail this way are not retried.
var ErrRejected = errors.New("order rejected by backend")

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	maxElapsed time.Duration
}

type OrderRequest struct {
	Binding        string  `json:"binding"`
	Format         string  `json:"format"`
	Paper          string  `json:"paper"`
	PrintMode      string  `json:"print_mode"`
	PageCount      int     `json:"page_count"`
	Copies         int     `json:"copies"`
	Cover          string  `json:"cover"`
	CoverNote      string  `json:"cover_note,omitempty"`
	CoverColor     string  `json:"cover_color,omitempty"`
	Shipping       string  `json:"shipping"`
	SpineText      string  `json:"spine_text,omitempty"`
	EmbossingColor string  `json:"embossing_color,omitempty"`
	BookCorners    bool    `json:"book_corners"`
	CornerColor    string  `json:"corner_color,omitempty"`
	XXL            bool    `json:"xxl"`
	CustomLogo     bool    `json:"custom_logo"`
	Total          float64 `json:"total"`
}

type orderResponse struct {
	OrderNumber string `json:"order_number"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryWindow bounds how long transient failures are retried.
func WithRetryWindow(d time.Duration) Option {
	return func(c *Client) { c.maxElapsed = d }
}

func NewClient(baseURL, token string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     logger,
		maxElapsed: time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOrderRequest flattens an order for the backend. Extras that do not
// apply to the binding are left out.
func NewOrderRequest(order configurator.Order) OrderRequest {
	cfg := order.Configuration
	req := OrderRequest{
		Binding:    cfg.BindingID,
		Format:     string(cfg.Format),
		Paper:      cfg.PaperID,
		PrintMode:  cfg.PrintModeID,
		PageCount:  cfg.PageCount,
		Copies:     cfg.Copies,
		Cover:      cfg.CoverID,
		CoverNote:  cfg.CoverNote,
		CoverColor: cfg.CoverColor,
		Shipping:   cfg.ShippingID,
		XXL:        order.Price.XXLUpgrade,
		CustomLogo: order.Attachments.CustomLogo,
		Total:      order.Price.Total,
	}
	if cfg.IsHardcover() {
		if cfg.SpineEmbossing {
			req.SpineText = cfg.SpineText
			req.EmbossingColor = cfg.EmbossingColor
		}
		if cfg.BookCorners {
			req.BookCorners = true
			req.CornerColor = cfg.CornerColor
		}
	}
	return req
}

// SubmitOrder posts the order and returns the backend's order number. All
// attempts share one idempotency key.
func (c *Client) SubmitOrder(ctx context.Context, order configurator.Order) (string, error) {
	body, err := json.Marshal(NewOrderRequest(order))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	idempotencyKey := uuid.NewString()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = c.maxElapsed

	var number string
	err = backoff.RetryNotify(
		func() error {
			var err error
			number, err = c.createOrder(ctx, body, idempotencyKey)
			return err
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			c.logger.Warn("Order API request failed, retrying...",
				zap.Error(err),
				zap.String("idempotency_key", idempotencyKey),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return "", err
	}

	c.logger.Info("Order submitted",
		zap.String("order_number", number),
		zap.String("binding", order.Configuration.BindingID),
		zap.Float64("total", order.Price.Total))
	return number, nil
}

func (c *Client) createOrder(ctx context.Context, body []byte, idempotencyKey string) (string, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/api/orders", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(msg)))
	}

	var result orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if result.OrderNumber == "" {
		return "", backoff.Permanent(errors.New("decode response: empty order number"))
	}
	return result.OrderNumber, nil
}
