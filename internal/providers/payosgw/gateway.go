package payosgw

import (
	"errors"
	"fmt"

	payos "github.com/payOSHQ/payos-lib-golang"
)

type Config struct {
	ClientID    string // e.g. P-xxxxx
	APIKey      string
	ChecksumKey string // secret used to sign webhooks
	ReturnURL   string // e.g. https://yourapp.com/payment-success
	CancelURL   string // e.g. https://yourapp.com/payment-cancelled
}

// Gateway narrows the payOS SDK to the two calls the payment flow needs, so
// reconciliation tests can substitute a fake verifier instead of computing
// real checksums.
type Gateway interface {
	CreatePaymentLink(req payos.CheckoutRequestType) (*payos.CheckoutResponseDataType, error)
	VerifyWebhook(body payos.WebhookType) (*payos.WebhookDataType, error)
}

type gateway struct {
	cfg Config
}

func NewGateway(cfg Config) (Gateway, error) {
	if cfg.ClientID == "" || cfg.APIKey == "" || cfg.ChecksumKey == "" {
		return nil, errors.New("missing payOS credentials")
	}

	if err := payos.Key(cfg.ClientID, cfg.APIKey, cfg.ChecksumKey); err != nil {
		return nil, fmt.Errorf("payos client init: %w", err)
	}

	return &gateway{cfg: cfg}, nil
}

func (g *gateway) CreatePaymentLink(req payos.CheckoutRequestType) (*payos.CheckoutResponseDataType, error) {
	return payos.CreatePaymentLink(req)
}

func (g *gateway) VerifyWebhook(body payos.WebhookType) (*payos.WebhookDataType, error) {
	return payos.VerifyPaymentWebhookData(body)
}
