package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/server/http/dto"
)

// OrderHandler manages order read endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	email := CurrentStudentEmail(c)
	orders, err := h.facade.Orders(c.Request.Context(), email)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:number, the payment-confirmation polling path.
func (h *OrderHandler) Get(c *gin.Context) {
	email := CurrentStudentEmail(c)
	number := c.Param("number")

	order, err := h.facade.OrderByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	// another student's order is indistinguishable from a missing one
	if order.StudentEmail != email {
		c.Status(http.StatusNotFound)
		return
	}

	payment, err := h.facade.PaymentByOrder(c.Request.Context(), number)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.OrderDetailResponse{
		OrderResponse: toOrderResponse(*order),
		Payment: dto.PaymentResponse{
			Method:       string(payment.Method),
			Status:       string(payment.Status),
			AmountCents:  payment.AmountCents,
			PaidAt:       payment.PaidAt,
			CardBrand:    payment.CardBrand,
			CardLast4:    payment.CardLast4,
			Installments: payment.Installments,
		},
	})
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			CourseID:       item.CourseID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			ValidityDays:   item.ValidityDays,
		})
	}
	return dto.OrderResponse{
		Number:        order.Number,
		Status:        string(order.Status),
		TotalCents:    order.TotalCents,
		PaymentMethod: string(order.PaymentMethod),
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}
