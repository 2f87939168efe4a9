package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
// Resources that exist but belong to another family are reported the same way.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates that an expense would drive an account balance negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrInvalidTransaction indicates a structurally invalid transaction or an illegal state change.
var ErrInvalidTransaction = errors.New("invalid transaction")

// ErrUnauthorizedFamilyAccess indicates that the acting user has no membership in the family.
var ErrUnauthorizedFamilyAccess = errors.New("unauthorized family access")

// ErrForbidden indicates that the acting user is a member but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// Machine readable error kinds returned to API clients.
const (
	KindNotFound                 = "not_found"
	KindValidation               = "validation"
	KindDuplicate                = "duplicate"
	KindInsufficientBalance      = "insufficient_balance"
	KindInvalidTransaction       = "invalid_transaction"
	KindUnauthorizedFamilyAccess = "unauthorized_family_access"
	KindForbidden                = "forbidden"
	KindUnauthorized             = "unauthorized"
	KindConflict                 = "conflict"
	KindInternal                 = "internal"
)

// AppError is an error with an HTTP status code and a client safe message.
type AppError struct {
	Code    int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message. The kind is derived from err.
func NewAppError(code int, message string, err error) *AppError {
	kind := KindInternal
	if err != nil {
		kind = KindOf(err)
	}
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

// NewBadRequestError creates a validation AppError.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message, Err: ErrValidation}
}

// NewUnauthorizedError creates an unauthorized AppError.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: message, Err: ErrUnauthorized}
}

// NewInternalServerError creates an internal AppError.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: message, Err: ErrInternal}
}

// InsufficientBalanceError identifies the account an expense could not be drawn from.
type InsufficientBalanceError struct {
	AccountID string
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance in account %s: balance %s, required %s",
		e.AccountID, e.Balance.StringFixed(2), e.Amount.StringFixed(2))
}

// Is makes errors.Is(err, ErrInsufficientBalance) match.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// NewInsufficientBalanceError creates an InsufficientBalanceError.
func NewInsufficientBalanceError(accountID string, balance, amount decimal.Decimal) error {
	return &InsufficientBalanceError{AccountID: accountID, Balance: balance, Amount: amount}
}

// KindOf maps an error onto its machine readable kind.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrInvalidTransaction):
		return KindInvalidTransaction
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorizedFamilyAccess):
		return KindUnauthorizedFamilyAccess
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// StatusOf maps an error onto the HTTP status code used by the API layer.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 && appErr.Kind != KindInternal {
		return appErr.Code
	}
	switch KindOf(err) {
	case KindInsufficientBalance, KindInvalidTransaction:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorizedFamilyAccess, KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
