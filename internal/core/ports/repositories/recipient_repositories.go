package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RecipientRepositoryFacade defines persistence operations for zakat recipients.
type RecipientRepositoryFacade interface {
	SaveRecipient(ctx context.Context, recipient domain.ZakatRecipient) error
	FindRecipientByID(ctx context.Context, recipientID string) (*domain.ZakatRecipient, error)
	ListRecipients(ctx context.Context, familyID string, category *domain.RecipientCategory) ([]domain.ZakatRecipient, error)
	UpdateRecipient(ctx context.Context, recipient domain.ZakatRecipient) error
	DeleteRecipient(ctx context.Context, recipientID string) error

	// IncrementTotalReceivedInTx adds amount to the recipient's running total.
	IncrementTotalReceivedInTx(ctx context.Context, tx pgx.Tx, recipientID string, amount decimal.Decimal, now time.Time) error
}
