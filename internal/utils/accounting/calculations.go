package accounting

import (
	"fmt"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Direction selects whether a transaction's balance effect is applied or reverted.
type Direction int

const (
	Apply Direction = iota
	Revert
)

// BalanceChanges returns the signed balance delta per account for txn in the given direction.
// This is the single place that decides how income, expense and transfer move money.
//
//	income:   account +amount
//	expense:  account -amount
//	transfer: source -amount, destination +amount
//
// Revert returns the exact negation of Apply.
func BalanceChanges(txn domain.Transaction, dir Direction) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, 2)
	amount := txn.Amount

	switch txn.Type {
	case domain.TransactionTypeIncome:
		changes[txn.AccountID] = amount
	case domain.TransactionTypeExpense:
		changes[txn.AccountID] = amount.Neg()
	case domain.TransactionTypeTransfer:
		if txn.TransferToAccountID == nil || *txn.TransferToAccountID == "" {
			return nil, fmt.Errorf("transfer %s has no destination account", txn.TransactionID)
		}
		if *txn.TransferToAccountID == txn.AccountID {
			return nil, fmt.Errorf("transfer %s has the same source and destination", txn.TransactionID)
		}
		changes[txn.AccountID] = amount.Neg()
		changes[*txn.TransferToAccountID] = amount
	default:
		return nil, fmt.Errorf("unknown transaction type '%s' for transaction %s", txn.Type, txn.TransactionID)
	}

	if dir == Revert {
		for id, delta := range changes {
			changes[id] = delta.Neg()
		}
	}
	return changes, nil
}

// MergeChanges adds every delta of src into dst and drops accounts whose net change is zero.
func MergeChanges(dst map[string]decimal.Decimal, src map[string]decimal.Decimal) {
	for id, delta := range src {
		sum := dst[id].Add(delta)
		if sum.IsZero() {
			delete(dst, id)
			continue
		}
		dst[id] = sum
	}
}
