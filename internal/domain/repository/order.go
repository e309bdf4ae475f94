package repository

import (
	"context"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Creation is
// atomic across order, items and the initial payment row: either the whole
// snapshot exists or nothing does.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, payment *model.Payment) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ListByCustomer(ctx context.Context, studentEmail string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	SelectUnprovisioned(ctx context.Context, limit int) ([]model.ProvisionJob, error)
}
