package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	ProductID     string `json:"productId,omitempty"`
	Field         string `json:"field,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeEmptyCart               = "EMPTY_CART"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	ErrCodeInsufficientStock       = "INSUFFICIENT_STOCK"
	ErrCodeAuthenticationRequired  = "AUTHENTICATION_REQUIRED"
	ErrCodeCommitFailed            = "COMMIT_FAILED"
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeMissingField            = "MISSING_FIELD"
	ErrCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeInvalidStatus           = "INVALID_STATUS"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// DomainError is a business rule failure that callers can recover from.
// Two DomainErrors match under errors.Is when their codes are equal, so a
// product-specific instance still matches its sentinel.
type DomainError struct {
	Code      string
	Message   string
	ProductID string
	Field     string
	Err       error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity is out of range")
	ErrProductUnavailable      = NewDomainError(ErrCodeProductUnavailable, "Product is no longer available")
	ErrInsufficientStock       = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrAuthenticationRequired  = NewDomainError(ErrCodeAuthenticationRequired, "You must be signed in to check out")
	ErrCommitFailed            = NewDomainError(ErrCodeCommitFailed, "Error placing order. Please try again")
	ErrInvalidJSON             = NewDomainError(ErrCodeInvalidJSON, "Request body is not valid JSON")
	ErrMissingField            = NewDomainError(ErrCodeMissingField, "A required field is missing")
	ErrProductNotFound         = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidStatus           = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidStatusTransition = NewDomainError(ErrCodeInvalidStatusTransition, "Order cannot move to the requested status")
)

// NewInsufficientStockError reports that productID cannot cover the requested quantity.
func NewInsufficientStockError(productID, name string) *DomainError {
	if name == "" {
		name = productID
	}
	return &DomainError{
		Code:      ErrCodeInsufficientStock,
		Message:   fmt.Sprintf("Insufficient stock for %s", name),
		ProductID: productID,
	}
}

// NewProductUnavailableError reports that productID is inactive or deleted.
func NewProductUnavailableError(productID, name string) *DomainError {
	if name == "" {
		name = productID
	}
	return &DomainError{
		Code:      ErrCodeProductUnavailable,
		Message:   fmt.Sprintf("%s is no longer available", name),
		ProductID: productID,
	}
}

// NewMissingFieldError reports a missing required field.
func NewMissingFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
		Field:   field,
	}
}

// NewCommitFailedError wraps the storage failure that aborted a checkout commit.
func NewCommitFailedError(cause error) *DomainError {
	return &DomainError{
		Code:    ErrCodeCommitFailed,
		Message: ErrCommitFailed.Message,
		Err:     cause,
	}
}
