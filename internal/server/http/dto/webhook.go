package dto

import "time"

// WebhookRequest is the gateway's asynchronous payment confirmation.
type WebhookRequest struct {
	EventID     string     `json:"event_id"`
	OrderNumber string     `json:"order_number"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
