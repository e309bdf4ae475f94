package repository

import (
	"context"
	"time"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// PaymentRepository describes persistence operations with payments and the
// gateway event ledger.
type PaymentRepository interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Payment, error)

	// ApplyEvent stores a gateway event keyed by its unique identifier and,
	// when the event is fresh, applies the conditional status write in the
	// same transaction: the update only lands when the current status is one
	// of the allowed predecessors. fresh=false means the event id was seen
	// before (replay) and nothing was written. applied=false with fresh=true
	// means no predecessor matched; the event row still commits so a
	// redelivery of the same rejected event stays a replay. On error nothing
	// commits, so the gateway's retry arrives as a fresh event.
	ApplyEvent(ctx context.Context, paymentID int64, event model.WebhookEvent, from []model.PaymentStatus, paidAt *time.Time) (fresh, applied bool, err error)
}
