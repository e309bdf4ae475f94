package model

import "time"

// OrderStatus describes the purchase lifecycle.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// CustomerSnapshot freezes the buyer identity at checkout time. It is a copy,
// not a reference, so later profile edits never rewrite purchase history.
type CustomerSnapshot struct {
	Name  string
	Email string
	Phone string
	TaxID string
}

// Order is an immutable record of a purchase intent with frozen prices.
type Order struct {
	ID            int64
	Number        string
	StudentEmail  string
	Customer      CustomerSnapshot
	Items         []OrderItem
	TotalCents    int64
	Status        OrderStatus
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem freezes the unit price and access validity of one purchased
// course. ProvisionedAt doubles as the idempotency ledger for enrollment
// provisioning: nil means the item still owes the student an enrollment.
type OrderItem struct {
	ID             int64
	OrderID        int64
	CourseID       string
	Quantity       int
	UnitPriceCents int64
	ValidityDays   *int
	ProvisionedAt  *time.Time
}

// ProvisionJob carries everything the enrollment manager needs to provision
// one paid order item.
type ProvisionJob struct {
	ItemID       int64
	OrderNumber  string
	StudentEmail string
	CourseID     string
	ValidityDays *int
}
