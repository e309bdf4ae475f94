package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/server/http/dto"
)

// SignatureHeader carries the gateway's HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Gateway-Signature"

// WebhookHandler receives asynchronous payment confirmations.
type WebhookHandler struct {
	facade WebhookFacade
	secret []byte
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade, secret string) *WebhookHandler {
	return &WebhookHandler{facade: facade, secret: []byte(secret)}
}

// Handle handles POST /api/gateway/webhook.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if !h.verifySignature(body, c.GetHeader(SignatureHeader)) {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.EventID == "" || req.OrderNumber == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	event := model.WebhookEvent{
		EventID:     req.EventID,
		OrderNumber: req.OrderNumber,
		Status:      model.PaymentStatus(req.Status),
		Reason:      req.Reason,
		PaidAt:      req.PaidAt,
	}

	if err := h.facade.HandleGatewayEvent(c.Request.Context(), event); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrIllegalTransition):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(bytes.TrimSpace(body))
	return hmac.Equal(provided, mac.Sum(nil))
}
