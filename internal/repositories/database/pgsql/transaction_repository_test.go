package pgsql

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTx captures the statements sent through Exec. Every other pgx.Tx method is
// left to the embedded nil interface.
type recordingTx struct {
	pgx.Tx
	sql  []string
	args [][]any
}

func (t *recordingTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.sql = append(t.sql, sql)
	t.args = append(t.args, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

var setAssignment = regexp.MustCompile(`(\w+) = \$(\d+)`)

// assignments maps each "column = $n" of a statement to the argument bound to it.
func assignments(t *testing.T, sql string, args []any) map[string]any {
	t.Helper()
	out := make(map[string]any)
	for _, m := range setAssignment.FindAllStringSubmatch(sql, -1) {
		n, err := strconv.Atoi(m[2])
		require.NoError(t, err)
		require.LessOrEqual(t, n, len(args), "placeholder $%d has no argument", n)
		out[m[1]] = args[n-1]
	}
	return out
}

func TestUpdateTransactionInTx_WritesEveryMutableColumn(t *testing.T) {
	repo := &PgxTransactionRepository{}
	tx := &recordingTx{}
	freq := domain.FrequencyMonthly
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	dest := "acc-savings"
	approver := "user-approver"
	approvedAt := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	txn := domain.Transaction{
		TransactionID:       "txn-1",
		FamilyID:            "fam-1",
		AccountID:           "acc-cash",
		CategoryID:          "cat-rent",
		Type:                domain.TransactionTypeExpense,
		Amount:              decimal.RequireFromString("125.50"),
		Date:                time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Description:         "rent",
		Notes:               "june",
		Status:              domain.StatusApproved,
		NeedsApproval:       true,
		ApprovedBy:          &approver,
		ApprovedAt:          &approvedAt,
		TransferToAccountID: &dest,
		IsRecurring:         true,
		RecurringFrequency:  &freq,
		RecurringEndDate:    &end,
		AuditFields: domain.AuditFields{
			LastUpdatedAt: approvedAt,
			LastUpdatedBy: approver,
		},
	}

	require.NoError(t, repo.UpdateTransactionInTx(context.Background(), tx, txn))
	require.Len(t, tx.sql, 1)

	set := assignments(t, tx.sql[0], tx.args[0])
	expected := map[string]any{
		"account_id":             "acc-cash",
		"category_id":            "cat-rent",
		"type":                   "expense",
		"date":                   txn.Date,
		"description":            "rent",
		"notes":                  "june",
		"status":                 "approved",
		"needs_approval":         true,
		"approved_by":            &approver,
		"approved_at":            &approvedAt,
		"transfer_to_account_id": &dest,
		"is_recurring":           true,
		"recurring_end_date":     &end,
		"last_updated_at":        approvedAt,
		"last_updated_by":        approver,
		"transaction_id":         "txn-1",
	}
	for column, want := range expected {
		got, ok := set[column]
		if assert.True(t, ok, "column %s is not written", column) {
			assert.EqualValues(t, want, got, "column %s", column)
		}
	}
	if assert.Contains(t, set, "amount") {
		assert.True(t, txn.Amount.Equal(set["amount"].(decimal.Decimal)))
	}
	if assert.Contains(t, set, "recurring_frequency") {
		assert.Equal(t, "monthly", *set["recurring_frequency"].(*string))
	}
}

func TestUpdateTransactionInTx_TypeChangeIsPersisted(t *testing.T) {
	repo := &PgxTransactionRepository{}
	tx := &recordingTx{}
	txn := domain.Transaction{
		TransactionID: "txn-2",
		AccountID:     "acc-cash",
		CategoryID:    "cat-misc",
		Type:          domain.TransactionTypeIncome,
		Amount:        decimal.NewFromInt(100),
		Status:        domain.StatusApproved,
	}

	require.NoError(t, repo.UpdateTransactionInTx(context.Background(), tx, txn))

	set := assignments(t, tx.sql[0], tx.args[0])
	assert.Equal(t, "income", set["type"])
}
