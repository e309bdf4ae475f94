package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrEmptyCart           = errors.New("cart has no items")
	ErrInvalidQuantity     = errors.New("item quantity must be positive")
	ErrCourseUnavailable   = errors.New("course is not available for purchase")
	ErrInvalidCustomerData = errors.New("customer data is incomplete")
	ErrInvalidCardDate     = errors.New("card expiry date is invalid")
	ErrCardDeclined        = errors.New("card was declined by the gateway")
	ErrIllegalTransition   = errors.New("illegal payment status transition")
	ErrDuplicateEvent      = errors.New("gateway event already processed")
	ErrInvalidAnswerSheet  = errors.New("answer sheet is malformed")
)
