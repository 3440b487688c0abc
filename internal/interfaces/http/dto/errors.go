package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeReturnExceedsSold is used when a return asks for more than was sold
	ErrCodeReturnExceedsSold = "ERR_RETURN_EXCEEDS_SOLD"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeReturnExceedsSold: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// HTTP-facing codes. Domain codes not listed here fall through NormalizeErrorCode
// unchanged and resolve to 500 via GetHTTPStatus.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"BARCODE_EXISTS":       ErrCodeAlreadyExists,
	"INVOICE_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"RETURN_EXCEEDS_SOLD":  ErrCodeReturnExceedsSold,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_STATUS":       ErrCodeInvalidState,
	"INVALID_TRANSITION":   ErrCodeInvalidState,
	"ALREADY_ADJUSTED":     ErrCodeInvalidState,
	"EMPTY_RETURN":         ErrCodeBusinessRule,
	"DUPLICATE_ITEM":       ErrCodeBusinessRule,
	"DUPLICATE_PRODUCT":    ErrCodeBusinessRule,

	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_NAME":           ErrCodeValidation,
	"INVALID_BARCODE":        ErrCodeValidation,
	"INVALID_PRICE":          ErrCodeValidation,
	"INVALID_COST":           ErrCodeValidation,
	"INVALID_QUANTITY":       ErrCodeValidation,
	"INVALID_AMOUNT":         ErrCodeValidation,
	"INVALID_FEE":            ErrCodeValidation,
	"INVALID_REASON":         ErrCodeValidation,
	"INVALID_DIRECTION":      ErrCodeValidation,
	"INVALID_ACCOUNT":        ErrCodeValidation,
	"INVALID_ACCOUNT_TYPE":   ErrCodeValidation,
	"INVALID_VOUCHER_TYPE":   ErrCodeValidation,
	"INVALID_VOUCHER_NUMBER": ErrCodeValidation,
	"INVALID_RETURN_NUMBER":  ErrCodeValidation,
	"INVALID_INVOICE_NUMBER": ErrCodeValidation,
	"INVALID_CUSTOMER":       ErrCodeValidation,
	"INVALID_SUPPLIER":       ErrCodeValidation,
	"INVALID_PRODUCT":        ErrCodeValidation,
	"INVALID_PRODUCT_NAME":   ErrCodeValidation,
	"INVALID_SALE":           ErrCodeValidation,
	"INVALID_SALE_ITEM":      ErrCodeValidation,

	"BAD_REQUEST":    ErrCodeBadRequest,
	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
