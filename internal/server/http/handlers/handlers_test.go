package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dsmirnov/coursegate/internal/domain/errors"
	"github.com/dsmirnov/coursegate/internal/domain/model"
	"github.com/dsmirnov/coursegate/internal/server/http/dto"
	"github.com/dsmirnov/coursegate/internal/server/http/middleware"
	testhelpers "github.com/dsmirnov/coursegate/internal/test"
	"github.com/dsmirnov/coursegate/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asStudent(email string) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.StudentEmailContextKey, email)
	}
}

func checkoutBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.CheckoutRequest{
		Customer:      dto.CustomerRequest{Name: "Maria Silva", Email: "billing@example.com"},
		Items:         []dto.CheckoutItemRequest{{CourseID: "go-101", Quantity: 1}},
		PaymentMethod: "pix",
		Pix:           &dto.PixRequest{PayerTaxID: "12345678900"},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return body
}

func TestCurrentStudentEmail(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentStudentEmail(c); got != "" {
		t.Fatalf("expected empty email when not set, got %q", got)
	}

	c.Set(middleware.StudentEmailContextKey, "maria@example.com")
	if got := CurrentStudentEmail(c); got != "maria@example.com" {
		t.Fatalf("expected maria@example.com, got %q", got)
	}
}

func TestCheckoutHandler(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{CheckoutFn: func(ctx context.Context, studentEmail string, customer model.CustomerSnapshot, items []usecase.CheckoutItem, method model.PaymentMethod, details model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
		// the order owner is the authenticated student, not the billing contact
		if studentEmail != "maria@example.com" {
			t.Fatalf("unexpected student passed to facade: %q", studentEmail)
		}
		if customer.Email != "billing@example.com" {
			t.Fatalf("unexpected customer passed to facade: %+v", customer)
		}
		if len(items) != 1 || items[0].CourseID != "go-101" {
			t.Fatalf("unexpected items passed to facade: %+v", items)
		}
		if method != model.MethodPix || details.Pix == nil {
			t.Fatalf("unexpected method details: %v %+v", method, details)
		}
		return &model.Order{Number: "ORD-7", Status: model.OrderStatusCreated, TotalCents: 10000},
			&model.PaymentInstructions{Method: method, Status: model.PaymentStatusPending, PixCode: "pix-code"}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/checkout", "/checkout", NewCheckoutHandler(facade).Checkout, asStudent("maria@example.com"), checkoutBody(t), map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.Code)
	}
	var decoded dto.CheckoutResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Order.Number != "ORD-7" || decoded.Payment.Status != "pending" {
		t.Fatalf("unexpected response: %+v", decoded)
	}
	if decoded.Payment.PixCode != "pix-code" {
		t.Fatalf("expected pix code in instructions, got %+v", decoded.Payment)
	}
}

func TestCheckoutHandlerFailures(t *testing.T) {
	declined := func(context.Context, string, model.CustomerSnapshot, []usecase.CheckoutItem, model.PaymentMethod, model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
		return nil, nil, domainErrors.ErrCardDeclined
	}
	failWith := func(err error) func(context.Context, string, model.CustomerSnapshot, []usecase.CheckoutItem, model.PaymentMethod, model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
		return func(context.Context, string, model.CustomerSnapshot, []usecase.CheckoutItem, model.PaymentMethod, model.MethodDetails) (*model.Order, *model.PaymentInstructions, error) {
			return nil, nil, err
		}
	}

	tests := []struct {
		name   string
		facade testhelpers.PlatformFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "unknown method", body: []byte(`{"payment_method":"cash","items":[{"course_id":"go-101","quantity":1}]}`), status: http.StatusUnprocessableEntity},
		{name: "empty cart", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: failWith(domainErrors.ErrEmptyCart)}, status: http.StatusUnprocessableEntity},
		{name: "bad quantity", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: failWith(domainErrors.ErrInvalidQuantity)}, status: http.StatusUnprocessableEntity},
		{name: "bad customer", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: failWith(domainErrors.ErrInvalidCustomerData)}, status: http.StatusUnprocessableEntity},
		{name: "expired card", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: failWith(domainErrors.ErrInvalidCardDate)}, status: http.StatusUnprocessableEntity},
		{name: "unavailable course", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: failWith(domainErrors.ErrCourseUnavailable)}, status: http.StatusUnprocessableEntity},
		{name: "declined", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: declined}, status: http.StatusPaymentRequired},
		{name: "internal", body: checkoutBody(t), facade: testhelpers.PlatformFacadeStub{CheckoutFn: failWith(errors.New("boom"))}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/checkout", "/checkout", NewCheckoutHandler(tt.facade).Checkout, asStudent("maria@example.com"), tt.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerList(t *testing.T) {
	orders := []model.Order{{Number: "ORD-1"}, {Number: "ORD-2"}}
	facade := testhelpers.PlatformFacadeStub{OrdersFn: func(ctx context.Context, email string) ([]model.Order, error) {
		if email != "maria@example.com" {
			t.Fatalf("unexpected student passed to facade: %q", email)
		}
		return orders, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(facade).List, asStudent("maria@example.com"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != len(orders) {
		t.Fatalf("expected %d orders, got %d", len(orders), len(decoded))
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{OrdersFn: func(context.Context, string) ([]model.Order, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(facade).List, asStudent("maria@example.com"), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	paidAt := time.Unix(1700000000, 0).UTC()
	facade := testhelpers.PlatformFacadeStub{
		OrderByNumberFn: func(ctx context.Context, number string) (*model.Order, error) {
			return &model.Order{Number: number, StudentEmail: "maria@example.com", Status: model.OrderStatusPaid}, nil
		},
		PaymentByOrderFn: func(ctx context.Context, number string) (*model.Payment, error) {
			return &model.Payment{OrderNumber: number, Method: model.MethodPix, Status: model.PaymentStatusPaid, AmountCents: 10000, PaidAt: &paidAt}, nil
		},
	}
	resp := performRequest(t, http.MethodGet, "/orders/:number", "/orders/ORD-7", NewOrderHandler(facade).Get, asStudent("maria@example.com"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.OrderDetailResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Number != "ORD-7" || decoded.Payment.Status != "paid" {
		t.Fatalf("unexpected response: %+v", decoded)
	}
	if decoded.Payment.PaidAt == nil || !decoded.Payment.PaidAt.Equal(paidAt) {
		t.Fatalf("unexpected paid_at: %v", decoded.Payment.PaidAt)
	}
}

func TestOrderHandlerGetFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.PlatformFacadeStub
		status int
	}{
		{name: "not found", facade: testhelpers.PlatformFacadeStub{OrderByNumberFn: func(context.Context, string) (*model.Order, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "foreign order hidden", facade: testhelpers.PlatformFacadeStub{OrderByNumberFn: func(ctx context.Context, number string) (*model.Order, error) {
			return &model.Order{Number: number, StudentEmail: "someone-else@example.com"}, nil
		}}, status: http.StatusNotFound},
		{name: "order lookup fails", facade: testhelpers.PlatformFacadeStub{OrderByNumberFn: func(context.Context, string) (*model.Order, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
		{name: "payment lookup fails", facade: testhelpers.PlatformFacadeStub{OrderByNumberFn: func(ctx context.Context, number string) (*model.Order, error) {
			return &model.Order{Number: number, StudentEmail: "maria@example.com"}, nil
		}, PaymentByOrderFn: func(context.Context, string) (*model.Payment, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/orders/:number", "/orders/ORD-7", NewOrderHandler(tt.facade).Get, asStudent("maria@example.com"), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func signWebhookBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(bytes.TrimSpace(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler(t *testing.T) {
	const secret = "webhook-secret"
	var received model.WebhookEvent
	facade := testhelpers.PlatformFacadeStub{WebhookFn: func(ctx context.Context, event model.WebhookEvent) error {
		received = event
		return nil
	}}
	body := []byte(`{"event_id":"evt-1","order_number":"ORD-7","status":"paid"}`)
	resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", NewWebhookHandler(facade, secret).Handle, nil, body, map[string]string{
		SignatureHeader: signWebhookBody(secret, body),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if received.EventID != "evt-1" || received.OrderNumber != "ORD-7" || received.Status != model.PaymentStatusPaid {
		t.Fatalf("unexpected event passed to facade: %+v", received)
	}
}

func TestWebhookHandlerFailures(t *testing.T) {
	const secret = "webhook-secret"
	valid := []byte(`{"event_id":"evt-1","order_number":"ORD-7","status":"paid"}`)

	tests := []struct {
		name      string
		facade    testhelpers.PlatformFacadeStub
		body      []byte
		signature string
		status    int
	}{
		{name: "missing signature", body: valid, signature: "", status: http.StatusBadRequest},
		{name: "not hex signature", body: valid, signature: "zzzz", status: http.StatusBadRequest},
		{name: "wrong signature", body: valid, signature: signWebhookBody("other-secret", valid), status: http.StatusBadRequest},
		{name: "bad json", body: []byte("not json"), signature: signWebhookBody(secret, []byte("not json")), status: http.StatusBadRequest},
		{name: "missing event id", body: []byte(`{"order_number":"ORD-7","status":"paid"}`), signature: signWebhookBody(secret, []byte(`{"order_number":"ORD-7","status":"paid"}`)), status: http.StatusBadRequest},
		{name: "illegal transition", body: valid, signature: signWebhookBody(secret, valid), facade: testhelpers.PlatformFacadeStub{WebhookFn: func(context.Context, model.WebhookEvent) error {
			return domainErrors.ErrIllegalTransition
		}}, status: http.StatusConflict},
		{name: "unknown order", body: valid, signature: signWebhookBody(secret, valid), facade: testhelpers.PlatformFacadeStub{WebhookFn: func(context.Context, model.WebhookEvent) error {
			return domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", body: valid, signature: signWebhookBody(secret, valid), facade: testhelpers.PlatformFacadeStub{WebhookFn: func(context.Context, model.WebhookEvent) error {
			return errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.signature != "" {
				headers[SignatureHeader] = tt.signature
			}
			resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", NewWebhookHandler(tt.facade, secret).Handle, nil, tt.body, headers)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestWebhookHandlerReplayIsAccepted(t *testing.T) {
	const secret = "webhook-secret"
	// a replayed event resolves to a silent no-op, the gateway still gets 200
	facade := testhelpers.PlatformFacadeStub{WebhookFn: func(context.Context, model.WebhookEvent) error {
		return nil
	}}
	body := []byte(`{"event_id":"evt-1","order_number":"ORD-7","status":"paid"}`)
	headers := map[string]string{SignatureHeader: signWebhookBody(secret, body)}
	handler := NewWebhookHandler(facade, secret)
	for i := 0; i < 2; i++ {
		resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", handler.Handle, nil, body, headers)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200 on delivery %d, got %d", i+1, resp.Code)
		}
	}
}

func TestEnrollmentHandlerList(t *testing.T) {
	expires := time.Unix(1800000000, 0).UTC()
	facade := testhelpers.PlatformFacadeStub{EnrollmentsFn: func(context.Context, string) ([]model.Enrollment, error) {
		return []model.Enrollment{
			{CourseID: "go-101", Status: model.EnrollmentStatusActive, ExpiresAt: &expires},
			{CourseID: "go-201", Status: model.EnrollmentStatusExpired},
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/enrollments", "/enrollments", NewEnrollmentHandler(facade).List, asStudent("maria@example.com"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.EnrollmentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Status != "expired" {
		t.Fatalf("unexpected response: %+v", decoded)
	}
}

func TestEnrollmentHandlerListEmpty(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{EnrollmentsFn: func(context.Context, string) ([]model.Enrollment, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/enrollments", "/enrollments", NewEnrollmentHandler(facade).List, asStudent("maria@example.com"), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestExamHandlerStart(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{StartExamFn: func(ctx context.Context, examID int64) (*model.ExamSession, error) {
		return &model.ExamSession{
			ExamID: examID,
			Title:  "Go basics",
			Questions: []model.Question{
				{ID: 10, Position: 1, Text: "q1", Options: []model.Option{{ID: 11, Position: 1, Text: "a"}}},
			},
		}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/exams/:id/start", "/exams/5/start", NewExamHandler(facade).Start, asStudent("maria@example.com"), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.ExamSessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ExamID != 5 || len(decoded.Questions) != 1 {
		t.Fatalf("unexpected response: %+v", decoded)
	}
}

func TestExamHandlerStartFailures(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		facade testhelpers.PlatformFacadeStub
		status int
	}{
		{name: "bad id", path: "/exams/abc/start", status: http.StatusNotFound},
		{name: "unknown exam", path: "/exams/5/start", facade: testhelpers.PlatformFacadeStub{StartExamFn: func(context.Context, int64) (*model.ExamSession, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", path: "/exams/5/start", facade: testhelpers.PlatformFacadeStub{StartExamFn: func(context.Context, int64) (*model.ExamSession, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/exams/:id/start", func(c *gin.Context) {
				asStudent("maria@example.com")(c)
				NewExamHandler(tt.facade).Start(c)
			})
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestExamHandlerSubmit(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{SubmitExamFn: func(ctx context.Context, email string, examID int64, answers map[int64]int64) (*model.ExamResult, error) {
		if email != "maria@example.com" || examID != 5 {
			t.Fatalf("unexpected submission: %q %d", email, examID)
		}
		if answers[10] != 11 {
			t.Fatalf("unexpected answers passed to facade: %+v", answers)
		}
		return &model.ExamResult{AttemptID: 1, Score: 100, CorrectAnswers: 1, TotalQuestions: 1, PassingScore: 70, Passed: true}, nil
	}}
	body := []byte(`{"answers":{"10":11}}`)
	router := gin.New()
	router.POST("/exams/:id/submit", func(c *gin.Context) {
		asStudent("maria@example.com")(c)
		NewExamHandler(facade).Submit(c)
	})
	req := httptest.NewRequest(http.MethodPost, "/exams/5/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var decoded dto.ExamResultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !decoded.Passed || decoded.Score != 100 {
		t.Fatalf("unexpected result: %+v", decoded)
	}
}

func TestExamHandlerSubmitFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		facade testhelpers.PlatformFacadeStub
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "unknown exam", body: []byte(`{"answers":{}}`), facade: testhelpers.PlatformFacadeStub{SubmitExamFn: func(context.Context, string, int64, map[int64]int64) (*model.ExamResult, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "malformed sheet", body: []byte(`{"answers":{"99":1}}`), facade: testhelpers.PlatformFacadeStub{SubmitExamFn: func(context.Context, string, int64, map[int64]int64) (*model.ExamResult, error) {
			return nil, domainErrors.ErrInvalidAnswerSheet
		}}, status: http.StatusUnprocessableEntity},
		{name: "internal", body: []byte(`{"answers":{}}`), facade: testhelpers.PlatformFacadeStub{SubmitExamFn: func(context.Context, string, int64, map[int64]int64) (*model.ExamResult, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/exams/:id/submit", func(c *gin.Context) {
				asStudent("maria@example.com")(c)
				NewExamHandler(tt.facade).Submit(c)
			})
			req := httptest.NewRequest(http.MethodPost, "/exams/5/submit", bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestExamHandlerAttempts(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{AttemptsFn: func(context.Context, string, int64) ([]model.ExamAttempt, error) {
		return []model.ExamAttempt{
			{Score: 50, CorrectAnswers: 1, TotalQuestions: 2, SubmittedAt: time.Unix(0, 0)},
			{Score: 100, CorrectAnswers: 2, TotalQuestions: 2, Passed: true, SubmittedAt: time.Unix(10, 0)},
		}, nil
	}}
	router := gin.New()
	router.GET("/exams/:id/attempts", func(c *gin.Context) {
		asStudent("maria@example.com")(c)
		NewExamHandler(facade).Attempts(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/exams/5/attempts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var decoded []dto.AttemptResponse
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 || !decoded[1].Passed {
		t.Fatalf("unexpected response: %+v", decoded)
	}
}

func TestExamHandlerAttemptsEmpty(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{AttemptsFn: func(context.Context, string, int64) ([]model.ExamAttempt, error) {
		return nil, nil
	}}
	router := gin.New()
	router.GET("/exams/:id/attempts", func(c *gin.Context) {
		asStudent("maria@example.com")(c)
		NewExamHandler(facade).Attempts(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/exams/5/attempts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
}

func TestExamHandlerLessonWatched(t *testing.T) {
	var marked int64
	facade := testhelpers.PlatformFacadeStub{LessonWatchedFn: func(ctx context.Context, email string, lessonID int64) error {
		marked = lessonID
		return nil
	}}
	router := gin.New()
	router.POST("/lessons/:id/watched", func(c *gin.Context) {
		asStudent("maria@example.com")(c)
		NewExamHandler(facade).LessonWatched(c)
	})
	req := httptest.NewRequest(http.MethodPost, "/lessons/42/watched", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if marked != 42 {
		t.Fatalf("expected lesson 42 to be marked, got %d", marked)
	}
}

func TestExamHandlerProgress(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{ProgressFn: func(ctx context.Context, email string, moduleID int64) (*model.ModuleProgress, error) {
		return &model.ModuleProgress{ModuleID: moduleID, RequiredLessons: 3, WatchedLessons: 3, ExamRequired: true, ExamPassed: true, Complete: true}, nil
	}}
	router := gin.New()
	router.GET("/modules/:id/progress", func(c *gin.Context) {
		asStudent("maria@example.com")(c)
		NewExamHandler(facade).Progress(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/modules/3/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var decoded dto.ModuleProgressResponse
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ModuleID != 3 || !decoded.Complete {
		t.Fatalf("unexpected response: %+v", decoded)
	}
}

func TestExamHandlerProgressUnknownModule(t *testing.T) {
	facade := testhelpers.PlatformFacadeStub{ProgressFn: func(context.Context, string, int64) (*model.ModuleProgress, error) {
		return nil, domainErrors.ErrNotFound
	}}
	router := gin.New()
	router.GET("/modules/:id/progress", func(c *gin.Context) {
		asStudent("maria@example.com")(c)
		NewExamHandler(facade).Progress(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/modules/3/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
