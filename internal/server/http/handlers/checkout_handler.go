package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/server/http/dto"
	"github.com/dsmirnov/coursegate/internal/usecase"
)

// CheckoutHandler manages the purchase endpoint.
type CheckoutHandler struct {
	facade OrderFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade OrderFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

var knownMethods = map[string]model.PaymentMethod{
	"credit_card": model.MethodCreditCard,
	"debit_card":  model.MethodDebitCard,
	"pix":         model.MethodPix,
	"boleto":      model.MethodBoleto,
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	method, ok := knownMethods[req.PaymentMethod]
	if !ok {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	customer := model.CustomerSnapshot{
		Name:  req.Customer.Name,
		Email: req.Customer.Email,
		Phone: req.Customer.Phone,
		TaxID: req.Customer.TaxID,
	}
	items := make([]usecase.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CheckoutItem{CourseID: item.CourseID, Quantity: item.Quantity})
	}

	var details model.MethodDetails
	if req.Card != nil {
		details.Card = &model.CardDetails{
			Number:       req.Card.Number,
			HolderName:   req.Card.HolderName,
			ExpiryMonth:  req.Card.ExpiryMonth,
			ExpiryYear:   req.Card.ExpiryYear,
			CVV:          req.Card.CVV,
			Installments: req.Card.Installments,
		}
	}
	if req.Pix != nil {
		details.Pix = &model.PixDetails{PayerTaxID: req.Pix.PayerTaxID}
	}
	if req.Boleto != nil {
		details.Boleto = &model.BoletoDetails{PayerTaxID: req.Boleto.PayerTaxID}
	}

	order, instructions, err := h.facade.Checkout(c.Request.Context(), CurrentStudentEmail(c), customer, items, method, details)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCustomerData),
			errors.Is(err, domainErrors.ErrEmptyCart),
			errors.Is(err, domainErrors.ErrInvalidQuantity),
			errors.Is(err, domainErrors.ErrInvalidCardDate),
			errors.Is(err, domainErrors.ErrCourseUnavailable):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrCardDeclined):
			c.Status(http.StatusPaymentRequired)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.CheckoutResponse{
		Order: toOrderResponse(*order),
		Payment: dto.PaymentInstructionsResponse{
			Method:        string(instructions.Method),
			Status:        string(instructions.Status),
			GatewayRef:    instructions.GatewayRef,
			PixCode:       instructions.PixCode,
			BoletoLine:    instructions.BoletoLine,
			BoletoDueDate: instructions.BoletoDueDate,
		},
	})
}
