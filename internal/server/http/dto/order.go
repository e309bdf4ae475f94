package dto

import "time"

// OrderItemResponse is one purchased course with its frozen price.
type OrderItemResponse struct {
	CourseID       string `json:"course_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	ValidityDays   *int   `json:"validity_days,omitempty"`
}

// OrderResponse describes one order for listings and the checkout answer.
type OrderResponse struct {
	Number        string              `json:"number"`
	Status        string              `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PaymentResponse describes the payment attached to an order.
type PaymentResponse struct {
	Method       string     `json:"method"`
	Status       string     `json:"status"`
	AmountCents  int64      `json:"amount_cents"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CardBrand    *string    `json:"card_brand,omitempty"`
	CardLast4    *string    `json:"card_last4,omitempty"`
	Installments *int       `json:"installments,omitempty"`
}

// OrderDetailResponse is the polling view of one order.
type OrderDetailResponse struct {
	OrderResponse
	Payment PaymentResponse `json:"payment"`
}
