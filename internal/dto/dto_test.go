package dto_test

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snakeCase = regexp.MustCompile(`^[a-z0-9_]+$`)

// jsonKeys marshals v and returns every object key at any depth.
func jsonKeys(t *testing.T, v any) map[string]bool {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var decoded any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	keys := map[string]bool{}
	var walk func(any)
	walk = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			for k, child := range n {
				keys[k] = true
				walk(child)
			}
		case []any:
			for _, child := range n {
				walk(child)
			}
		}
	}
	walk(decoded)
	return keys
}

func TestResponses_UseSnakeCaseKeys(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	target := "acc-2"
	txn := domain.Transaction{
		TransactionID:       "txn-1",
		Type:                domain.TransactionTypeTransfer,
		Amount:              decimal.RequireFromString("10.00"),
		Date:                day,
		Status:              domain.StatusPending,
		NeedsApproval:       true,
		TransferToAccountID: &target,
	}
	calc := domain.ZakatCalculation{
		CalculationID:   "calc-1",
		HijriYear:       1446,
		CalculationDate: day,
		Assets:          domain.AssetSnapshot{LoansReceivable: decimal.RequireFromString("500.00")},
	}
	usage := domain.BudgetUsage{Budget: domain.Budget{BudgetID: "budget-1"}}
	bill := domain.Bill{
		BillID:       "bill-1",
		Amount:       decimal.RequireFromString("100.00"),
		DueDate:      day,
		SplitMembers: []string{"a", "b"},
	}
	goal := domain.SavingsGoal{
		GoalID:       "goal-1",
		TargetAmount: decimal.RequireFromString("1000.00"),
		StartDate:    day,
		IsActive:     true,
	}

	tests := []struct {
		name     string
		response any
		required []string
	}{
		{"transaction", dto.ToTransactionResponse(&txn), []string{"transfer_to_account_id", "needs_approval", "transaction_id"}},
		{"zakat calculation", dto.ToZakatCalculationResponse(&calc), []string{"loans_receivable", "cash_in_hand", "zakat_remaining"}},
		{"budget usage", dto.ToBudgetUsageResponse(&usage), []string{"percent_used", "should_alert"}},
		{"bill", dto.ToBillResponse(&bill), []string{"split_amounts", "due_date", "reminder_days"}},
		{"savings goal", dto.NewSavingsGoalResponse(&goal, day), []string{"progress_percentage", "remaining_amount", "is_completed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := jsonKeys(t, tt.response)
			for k := range keys {
				assert.Regexp(t, snakeCase, k, "key %q is not snake_case", k)
			}
			for _, k := range tt.required {
				assert.True(t, keys[k], "missing key %q", k)
			}
		})
	}
}

func TestZakatCalculationResponse_NoLegacyLoanKey(t *testing.T) {
	calc := domain.ZakatCalculation{CalculationDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)}

	keys := jsonKeys(t, dto.ToZakatCalculationResponse(&calc))

	assert.True(t, keys["loans_receivable"])
	assert.False(t, keys["loans_given"])
	assert.False(t, keys["LoansGiven"])
}
