package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"not found", fmt.Errorf("%w: account x", apperrors.ErrNotFound), apperrors.KindNotFound, http.StatusNotFound},
		{"validation", fmt.Errorf("%w: amount", apperrors.ErrValidation), apperrors.KindValidation, http.StatusBadRequest},
		{"insufficient", apperrors.NewInsufficientBalanceError("acc", decimal.NewFromInt(100), decimal.RequireFromString("100.01")), apperrors.KindInsufficientBalance, http.StatusUnprocessableEntity},
		{"invalid txn", fmt.Errorf("%w: same account", apperrors.ErrInvalidTransaction), apperrors.KindInvalidTransaction, http.StatusUnprocessableEntity},
		{"family access", apperrors.ErrUnauthorizedFamilyAccess, apperrors.KindUnauthorizedFamilyAccess, http.StatusForbidden},
		{"forbidden", apperrors.ErrForbidden, apperrors.KindForbidden, http.StatusForbidden},
		{"duplicate", apperrors.ErrDuplicate, apperrors.KindDuplicate, http.StatusConflict},
		{"plain", errors.New("boom"), apperrors.KindInternal, http.StatusInternalServerError},
		{"app error wrapping not found", apperrors.NewAppError(500, "lookup failed", apperrors.ErrNotFound), apperrors.KindNotFound, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, apperrors.KindOf(tt.err))
			assert.Equal(t, tt.status, apperrors.StatusOf(tt.err))
		})
	}
}

func TestInsufficientBalanceErrorIdentifiesAccount(t *testing.T) {
	err := apperrors.NewInsufficientBalanceError("acc-1", decimal.NewFromInt(100), decimal.RequireFromString("100.01"))
	wrapped := fmt.Errorf("create transaction: %w", err)

	var ibe *apperrors.InsufficientBalanceError
	assert.True(t, errors.As(wrapped, &ibe))
	assert.Equal(t, "acc-1", ibe.AccountID)
	assert.True(t, errors.Is(wrapped, apperrors.ErrInsufficientBalance))
	assert.Contains(t, err.Error(), "100.00")
	assert.Contains(t, err.Error(), "100.01")
}
