package dto

import "time"

// CustomerRequest is the buyer identity submitted at checkout.
type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	TaxID string `json:"tax_id,omitempty"`
}

// CheckoutItemRequest is one cart line. Prices are resolved server-side.
type CheckoutItemRequest struct {
	CourseID string `json:"course_id"`
	Quantity int    `json:"quantity"`
}

// CardRequest carries card data through to the gateway. It is never persisted.
type CardRequest struct {
	Number       string `json:"number"`
	HolderName   string `json:"holder_name"`
	ExpiryMonth  int    `json:"expiry_month"`
	ExpiryYear   int    `json:"expiry_year"`
	CVV          string `json:"cvv"`
	Installments int    `json:"installments,omitempty"`
}

// PixRequest carries pix-specific checkout input.
type PixRequest struct {
	PayerTaxID string `json:"payer_tax_id,omitempty"`
}

// BoletoRequest carries boleto-specific checkout input.
type BoletoRequest struct {
	PayerTaxID string `json:"payer_tax_id,omitempty"`
}

// CheckoutRequest describes the checkout payload.
type CheckoutRequest struct {
	Customer      CustomerRequest       `json:"customer"`
	Items         []CheckoutItemRequest `json:"items"`
	PaymentMethod string                `json:"payment_method"`
	Card          *CardRequest          `json:"card,omitempty"`
	Pix           *PixRequest           `json:"pix,omitempty"`
	Boleto        *BoletoRequest        `json:"boleto,omitempty"`
}

// PaymentInstructionsResponse tells the buyer how to complete the payment.
type PaymentInstructionsResponse struct {
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	GatewayRef    string     `json:"gateway_ref,omitempty"`
	PixCode       string     `json:"pix_code,omitempty"`
	BoletoLine    string     `json:"boleto_line,omitempty"`
	BoletoDueDate *time.Time `json:"boleto_due_date,omitempty"`
}

// CheckoutResponse is the order snapshot plus payment instructions. The
// payment is never reported settled here; confirmation arrives via webhook.
type CheckoutResponse struct {
	Order   OrderResponse               `json:"order"`
	Payment PaymentInstructionsResponse `json:"payment"`
}
