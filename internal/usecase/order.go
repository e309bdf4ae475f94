package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dsmirnov/coursegate/internal/adapter/catalog"
	"github.com/dsmirnov/coursegate/internal/adapter/gateway"
	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/domain/repository"
)

// CheckoutItem is one cart line as submitted by the buyer. Price and validity
// are never taken from the client; they are resolved from the catalog.
type CheckoutItem struct {
	CourseID string
	Quantity int
}

// OrderUseCase encapsulates the purchase lifecycle: building an order from a
// cart, registering the payment with the gateway, and the read paths behind
// the buyer's order pages.
type OrderUseCase struct {
	orders  repository.OrderRepository
	catalog catalog.Client
	gateway gateway.Client
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, cat catalog.Client, gw gateway.Client, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders:  orders,
		catalog: cat,
		gateway: gw,
		logger:  logger,
		now:     time.Now,
	}
}

// Checkout turns a cart into a persisted order with its initial payment.
// The order belongs to the authenticated student, not to whatever email the
// billing contact carries, so the buyer can always read back what they bought.
// Totals are computed server-side from catalog prices, and unit price plus
// access validity are frozen per item at this moment. The gateway intent is
// created before anything is persisted: a synchronous card decline leaves a
// cancelled order behind, a transport failure leaves nothing.
func (u *OrderUseCase) Checkout(ctx context.Context, studentEmail string, customer model.CustomerSnapshot, items []CheckoutItem, method model.PaymentMethod, details model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
	if !ValidateCustomer(customer.Name, customer.Email) {
		return nil, nil, domainErrors.ErrInvalidCustomerData
	}
	if len(items) == 0 {
		return nil, nil, domainErrors.ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, nil, domainErrors.ErrInvalidQuantity
		}
	}

	if method == model.MethodCreditCard || method == model.MethodDebitCard {
		card := details.Card
		if card == nil {
			return nil, nil, domainErrors.ErrInvalidCardDate
		}
		if !ValidateCardExpiry(card.ExpiryMonth, card.ExpiryYear, u.now()) {
			return nil, nil, domainErrors.ErrInvalidCardDate
		}
	}

	var (
		orderItems []model.OrderItem
		totalCents int64
	)
	for _, item := range items {
		course, err := u.catalog.Fetch(ctx, item.CourseID)
		if err != nil {
			if errors.Is(err, catalog.ErrCourseNotFound) {
				return nil, nil, domainErrors.ErrCourseUnavailable
			}
			return nil, nil, fmt.Errorf("resolve course %s: %w", item.CourseID, err)
		}
		if !course.Active {
			return nil, nil, domainErrors.ErrCourseUnavailable
		}
		// quantity multiplies both the charge and the granted access window,
		// so buying two of a 180-day course grants 360 days
		validity := course.ValidityDays
		if validity != nil && item.Quantity > 1 {
			days := *validity * item.Quantity
			validity = &days
		}
		orderItems = append(orderItems, model.OrderItem{
			CourseID:       course.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: course.PriceCents,
			ValidityDays:   validity,
		})
		totalCents += course.PriceCents * int64(item.Quantity)
	}

	number := "ORD-" + uuid.NewString()

	result, err := u.gateway.CreateIntent(ctx, gateway.Intent{
		Reference:   number,
		AmountCents: totalCents,
		Method:      method,
		Details:     details,
		Customer:    customer,
	})

	var declined gateway.Declined
	if errors.As(err, &declined) {
		u.persistDeclined(ctx, number, studentEmail, customer, orderItems, totalCents, method, declined.Reason)
		return nil, nil, fmt.Errorf("%w: %s", domainErrors.ErrCardDeclined, declined.Reason)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create gateway intent: %w", err)
	}

	order := &model.Order{
		Number:        number,
		StudentEmail:  studentEmail,
		Customer:      customer,
		Items:         orderItems,
		TotalCents:    totalCents,
		Status:        model.OrderStatusCreated,
		PaymentMethod: method,
	}
	payment := &model.Payment{
		OrderNumber: number,
		Method:      method,
		Status:      result.Status,
		AmountCents: totalCents,
		GatewayRef:  result.GatewayRef,
	}
	if result.CardBrand != "" {
		payment.CardBrand = &result.CardBrand
	}
	if result.CardLast4 != "" {
		payment.CardLast4 = &result.CardLast4
	}
	if card := details.Card; card != nil && card.Installments > 0 {
		installments := card.Installments
		payment.Installments = &installments
	}

	created, err := u.orders.Create(ctx, order, payment)
	if err != nil {
		return nil, nil, fmt.Errorf("persist order: %w", err)
	}

	instructions := &model.PaymentInstructions{
		Method:        method,
		Status:        result.Status,
		GatewayRef:    result.GatewayRef,
		PixCode:       result.PixCode,
		BoletoLine:    result.BoletoLine,
		BoletoDueDate: result.BoletoDueDate,
	}
	return created, instructions, nil
}

// persistDeclined leaves an auditable cancelled order behind a synchronous
// card decline. A persistence failure here is logged, not surfaced: the buyer
// already has their answer.
func (u *OrderUseCase) persistDeclined(ctx context.Context, number, studentEmail string, customer model.CustomerSnapshot, items []model.OrderItem, totalCents int64, method model.PaymentMethod, reason string) {
	order := &model.Order{
		Number:        number,
		StudentEmail:  studentEmail,
		Customer:      customer,
		Items:         items,
		TotalCents:    totalCents,
		Status:        model.OrderStatusCancelled,
		PaymentMethod: method,
	}
	payment := &model.Payment{
		OrderNumber: number,
		Method:      method,
		Status:      model.PaymentStatusCancelled,
		AmountCents: totalCents,
	}
	if _, err := u.orders.Create(ctx, order, payment); err != nil {
		u.logger.Error("failed to persist declined order",
			slog.String("order", number), slog.String("reason", reason), slog.Any("error", err))
	}
}

// OrdersByCustomer returns the student's orders, newest first.
func (u *OrderUseCase) OrdersByCustomer(ctx context.Context, studentEmail string) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, studentEmail)
}

// OrderByNumber returns one order with its items. The confirmation page polls
// this until the payment settles.
func (u *OrderUseCase) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return u.orders.GetByNumber(ctx, number)
}

// UnprovisionedItems returns paid order items still owing an enrollment.
func (u *OrderUseCase) UnprovisionedItems(ctx context.Context, limit int) ([]model.ProvisionJob, error) {
	return u.orders.SelectUnprovisioned(ctx, limit)
}
