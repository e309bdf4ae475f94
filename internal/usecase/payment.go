package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/domain/repository"
)

// PaymentUseCase applies asynchronous gateway confirmations to payments and
// fans out the consequences of a settled payment.
type PaymentUseCase struct {
	payments    repository.PaymentRepository
	orders      repository.OrderRepository
	enrollments repository.EnrollmentRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, orders repository.OrderRepository, enrollments repository.EnrollmentRepository, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{
		payments:    payments,
		orders:      orders,
		enrollments: enrollments,
		logger:      logger,
		now:         time.Now,
	}
}

// orderStatusFor maps a payment status onto the order lifecycle.
var orderStatusFor = map[model.PaymentStatus]model.OrderStatus{
	model.PaymentStatusProcessing: model.OrderStatusProcessing,
	model.PaymentStatusPaid:       model.OrderStatusPaid,
	model.PaymentStatusCancelled:  model.OrderStatusCancelled,
	model.PaymentStatusRefunded:   model.OrderStatusRefunded,
}

// HandleWebhook processes one gateway event. Replays of an already recorded
// event are acknowledged without touching state. A transition the state graph
// forbids returns ErrIllegalTransition and changes nothing. The event record
// and the status write commit together, so a transient failure leaves no
// event row behind and the gateway's retry is not mistaken for a replay.
// Entering paid stamps the settlement time, flips the order, and provisions
// every item; per-item provisioning failures are logged and left to the retry
// worker, the payment itself never rolls back.
func (u *PaymentUseCase) HandleWebhook(ctx context.Context, event model.WebhookEvent) error {
	payment, err := u.payments.GetByOrderNumber(ctx, event.OrderNumber)
	if err != nil {
		return fmt.Errorf("load payment for order %s: %w", event.OrderNumber, err)
	}

	from := model.LegalPredecessors(event.Status)
	if len(from) == 0 {
		return fmt.Errorf("%w: %s is not reachable via events", domainErrors.ErrIllegalTransition, event.Status)
	}

	var paidAt *time.Time
	if event.Status == model.PaymentStatusPaid {
		if event.PaidAt != nil {
			paidAt = event.PaidAt
		} else {
			now := u.now()
			paidAt = &now
		}
	}

	fresh, applied, err := u.payments.ApplyEvent(ctx, payment.ID, event, from, paidAt)
	if err != nil {
		return fmt.Errorf("apply gateway event %s: %w", event.EventID, err)
	}
	if !fresh {
		u.logger.Info("gateway event replayed, skipping",
			slog.String("event", event.EventID), slog.String("order", event.OrderNumber))
		return nil
	}
	if !applied {
		u.logger.Warn("illegal payment transition rejected",
			slog.String("order", event.OrderNumber),
			slog.String("from", string(payment.Status)),
			slog.String("to", string(event.Status)))
		return fmt.Errorf("%w: %s -> %s", domainErrors.ErrIllegalTransition, payment.Status, event.Status)
	}

	if status, ok := orderStatusFor[event.Status]; ok {
		if err := u.orders.UpdateStatus(ctx, payment.OrderID, status); err != nil {
			return fmt.Errorf("update order %s: %w", event.OrderNumber, err)
		}
	}

	if event.Status == model.PaymentStatusPaid {
		u.provisionOrder(ctx, event.OrderNumber)
	}
	return nil
}

// provisionOrder grants access for every item of a freshly paid order. Items
// that fail stay unprovisioned and are retried by the background worker.
func (u *PaymentUseCase) provisionOrder(ctx context.Context, orderNumber string) {
	order, err := u.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		u.logger.Error("failed to load paid order for provisioning",
			slog.String("order", orderNumber), slog.Any("error", err))
		return
	}
	for _, item := range order.Items {
		if item.ProvisionedAt != nil {
			continue
		}
		job := model.ProvisionJob{
			ItemID:       item.ID,
			OrderNumber:  order.Number,
			StudentEmail: order.StudentEmail,
			CourseID:     item.CourseID,
			ValidityDays: item.ValidityDays,
		}
		if _, _, err := u.enrollments.ProvisionItem(ctx, job); err != nil {
			u.logger.Error("failed to provision order item",
				slog.String("order", orderNumber),
				slog.String("course", item.CourseID),
				slog.Any("error", err))
		}
	}
}

// PaymentByOrderNumber returns the payment attached to an order.
func (u *PaymentUseCase) PaymentByOrderNumber(ctx context.Context, number string) (*model.Payment, error) {
	return u.payments.GetByOrderNumber(ctx, number)
}
