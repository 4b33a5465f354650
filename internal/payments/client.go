// Package payments is a thin client for the subscription payments provider.
// The provider owns the billing state; this client creates checkout sessions
// and decodes webhook events, nothing more.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"trade-journal/config"
)

// CheckoutSession is the provider's hosted-checkout handle.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Event is a decoded webhook notification.
type Event struct {
	Type           string     `json:"type"`
	SubscriptionID string     `json:"subscription_id"`
	Plan           string     `json:"plan"`
	Status         string     `json:"status"`
	PeriodEnd      *time.Time `json:"period_end"`
	UserID         uint       `json:"user_id"`
}

const (
	EventCheckoutCompleted   = "checkout.completed"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// Provider creates checkout sessions. Satisfied by Client and test fakes.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, userID uint, plan string, percentOff int) (*CheckoutSession, error)
}

type Client struct {
	client *resty.Client
	cfg    config.Payments
	logger *zap.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a new payments client.
func NewClient(cfg config.Payments, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)
	return &Client{client: client, cfg: cfg, logger: logger}
}

// CreateCheckoutSession asks the provider for a hosted checkout URL for the
// given plan, with an optional percentage discount already applied.
func (c *Client) CreateCheckoutSession(ctx context.Context, userID uint, plan string, percentOff int) (*CheckoutSession, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("payments api key not configured")
	}

	var session CheckoutSession
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_reference_id": fmt.Sprintf("%d", userID),
			"plan":                plan,
			"percent_off":         fmt.Sprintf("%d", percentOff),
			"success_url":         c.cfg.SuccessURL,
			"cancel_url":          c.cfg.CancelURL,
		}).
		SetResult(&session).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payments http %d", resp.StatusCode())
	}
	if session.URL == "" {
		return nil, errors.New("payments provider returned no checkout url")
	}

	c.logger.Info("checkout session created",
		zap.Uint("userID", userID),
		zap.String("plan", plan))
	return &session, nil
}

// VerifySignature checks the webhook payload against the shared secret.
func (c *Client) VerifySignature(payload []byte, signature string) bool {
	if c.cfg.WebhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvent decodes a verified webhook payload.
func (c *Client) ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}
	if event.Type == "" {
		return nil, errors.New("webhook event missing type")
	}
	return &event, nil
}
