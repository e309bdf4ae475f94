package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// Declined signals the gateway synchronously rejected a card payment. The
// reason is surfaced to the buyer verbatim.
type Declined struct {
	Reason string
}

func (e Declined) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}

// Intent is the request for creating a payment at the gateway.
type Intent struct {
	Reference   string
	AmountCents int64
	Method      model.PaymentMethod
	Details     model.MethodDetails
	Customer    model.CustomerSnapshot
}

// IntentResult is the gateway's synchronous answer. Card payments may come
// back accepted, in fraud review, or declined; pix and boleto always come
// back pending with out-of-band instructions.
type IntentResult struct {
	GatewayRef    string
	Status        model.PaymentStatus
	CardBrand     string
	CardLast4     string
	PixCode       string
	BoletoLine    string
	BoletoDueDate *time.Time
}

// Client exposes operations against the payment gateway.
type Client interface {
	CreateIntent(ctx context.Context, intent Intent) (*IntentResult, error)
}

// HTTPClient implements Client via the gateway's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type intentRequest struct {
	Reference    string `json:"reference"`
	AmountCents  int64  `json:"amount_cents"`
	Method       string `json:"method"`
	CustomerName string `json:"customer_name"`
	CustomerTax  string `json:"customer_tax_id,omitempty"`

	CardNumber   string `json:"card_number,omitempty"`
	CardHolder   string `json:"card_holder,omitempty"`
	CardExpMonth int    `json:"card_exp_month,omitempty"`
	CardExpYear  int    `json:"card_exp_year,omitempty"`
	CardCVV      string `json:"card_cvv,omitempty"`
	Installments int    `json:"installments,omitempty"`
}

type intentResponse struct {
	GatewayRef    string     `json:"gateway_ref"`
	Status        string     `json:"status"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	CardBrand     string     `json:"card_brand,omitempty"`
	CardLast4     string     `json:"card_last4,omitempty"`
	PixCode       string     `json:"pix_code,omitempty"`
	BoletoLine    string     `json:"boleto_line,omitempty"`
	BoletoDueDate *time.Time `json:"boleto_due_date,omitempty"`
}

// NewHTTPClient creates HTTP gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// CreateIntent registers the payment with the gateway and returns its
// synchronous verdict.
func (c *HTTPClient) CreateIntent(ctx context.Context, intent Intent) (*IntentResult, error) {
	reqBody := intentRequest{
		Reference:    intent.Reference,
		AmountCents:  intent.AmountCents,
		Method:       string(intent.Method),
		CustomerName: intent.Customer.Name,
		CustomerTax:  intent.Customer.TaxID,
	}
	if card := intent.Details.Card; card != nil {
		reqBody.CardNumber = card.Number
		reqBody.CardHolder = card.HolderName
		reqBody.CardExpMonth = card.ExpiryMonth
		reqBody.CardExpYear = card.ExpiryYear
		reqBody.CardCVV = card.CVV
		reqBody.Installments = card.Installments
	}
	if pix := intent.Details.Pix; pix != nil && pix.PayerTaxID != "" {
		reqBody.CustomerTax = pix.PayerTaxID
	}
	if boleto := intent.Details.Boleto; boleto != nil && boleto.PayerTaxID != "" {
		reqBody.CustomerTax = boleto.PayerTaxID
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/intents")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusUnprocessableEntity:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data intentResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return c.toResult(data)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}
}

func (c *HTTPClient) toResult(data intentResponse) (*IntentResult, error) {
	switch data.Status {
	case "declined":
		reason := data.DeclineReason
		if reason == "" {
			reason = "rejected by issuer"
		}
		return nil, Declined{Reason: reason}
	case "pending", "processing":
		return &IntentResult{
			GatewayRef:    data.GatewayRef,
			Status:        model.PaymentStatus(data.Status),
			CardBrand:     data.CardBrand,
			CardLast4:     data.CardLast4,
			PixCode:       data.PixCode,
			BoletoLine:    data.BoletoLine,
			BoletoDueDate: data.BoletoDueDate,
		}, nil
	default:
		return nil, errors.New("gateway returned unknown intent status: " + data.Status)
	}
}
