package model

import "time"

// PaymentMethod enumerates supported payment rails.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodPix        PaymentMethod = "pix"
	MethodBoleto     PaymentMethod = "boleto"
)

// PaymentStatus describes the money-movement lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// legalPredecessors encodes the payment state graph. A status may only be
// entered from the listed prior states; anything else is rejected.
var legalPredecessors = map[PaymentStatus][]PaymentStatus{
	PaymentStatusProcessing: {PaymentStatusPending},
	PaymentStatusPaid:       {PaymentStatusPending, PaymentStatusProcessing},
	PaymentStatusCancelled:  {PaymentStatusPending, PaymentStatusProcessing},
	PaymentStatusRefunded:   {PaymentStatusPaid},
}

// LegalPredecessors returns the statuses from which a transition into the
// given status is allowed. Empty slice means the status is never entered via
// an event (e.g. pending is only an initial state).
func LegalPredecessors(to PaymentStatus) []PaymentStatus {
	return legalPredecessors[to]
}

// CanTransition reports whether moving from one payment status to another
// follows the state graph.
func CanTransition(from, to PaymentStatus) bool {
	for _, allowed := range legalPredecessors[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

// Payment is the money-movement record attached to exactly one order. Its
// status is authoritative over the order's payment state.
type Payment struct {
	ID           int64
	OrderID      int64
	OrderNumber  string
	Method       PaymentMethod
	Status       PaymentStatus
	AmountCents  int64
	PaidAt       *time.Time
	CardBrand    *string
	CardLast4    *string
	Installments *int
	GatewayRef   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CardDetails is the card-specific checkout payload. The PAN never survives
// checkout: only brand and last four digits are persisted.
type CardDetails struct {
	Number       string
	HolderName   string
	ExpiryMonth  int
	ExpiryYear   int
	CVV          string
	Installments int
}

// PixDetails carries pix-specific checkout input.
type PixDetails struct {
	PayerTaxID string
}

// BoletoDetails carries boleto-specific checkout input.
type BoletoDetails struct {
	PayerTaxID string
}

// MethodDetails is a tagged variant: exactly one field matching the chosen
// payment method must be set.
type MethodDetails struct {
	Card   *CardDetails
	Pix    *PixDetails
	Boleto *BoletoDetails
}

// PaymentInstructions tells the buyer how to complete an out-of-band payment.
// Card payments carry no instructions beyond the pending status itself.
type PaymentInstructions struct {
	Method        PaymentMethod
	Status        PaymentStatus
	GatewayRef    string
	PixCode       string
	BoletoLine    string
	BoletoDueDate *time.Time
}

// WebhookEvent is the asynchronous confirmation delivered by the gateway.
// EventID is the idempotency key: replays carry the same value.
type WebhookEvent struct {
	EventID     string
	OrderNumber string
	Status      PaymentStatus
	Reason      string
	PaidAt      *time.Time
}
