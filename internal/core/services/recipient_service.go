package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/hifzmaal_backend/internal/apperrors"
	"github.com/SscSPs/hifzmaal_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/hifzmaal_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hifzmaal_backend/internal/core/ports/services"
	"github.com/SscSPs/hifzmaal_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type recipientService struct {
	BaseService
	recipientRepo portsrepo.RecipientRepositoryFacade
}

// NewRecipientService creates the zakat recipient service.
func NewRecipientService(recipientRepo portsrepo.RecipientRepositoryFacade, options ...ServiceOption) portssvc.RecipientSvc {
	return &recipientService{BaseService: newBase(options), recipientRepo: recipientRepo}
}

var _ portssvc.RecipientSvc = (*recipientService)(nil)

func (s *recipientService) CreateRecipient(ctx context.Context, familyID string, req dto.CreateRecipientRequest, userID string) (*domain.ZakatRecipient, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	if !domain.IsValidRecipientCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown recipient category %q", apperrors.ErrValidation, req.Category)
	}
	recipient := domain.ZakatRecipient{
		RecipientID:   uuid.NewString(),
		FamilyID:      familyID,
		Name:          req.Name,
		Category:      req.Category,
		Phone:         req.Phone,
		Address:       req.Address,
		Notes:         req.Notes,
		IsActive:      true,
		TotalReceived: decimal.Zero,
		AuditFields:   auditFields(userID, s.Now()),
	}
	if err := s.recipientRepo.SaveRecipient(ctx, recipient); err != nil {
		s.LogError(ctx, err, "Failed to save zakat recipient", slog.String("family_id", familyID))
		return nil, err
	}
	return &recipient, nil
}

func (s *recipientService) GetRecipient(ctx context.Context, familyID, recipientID, userID string) (*domain.ZakatRecipient, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	return findFamilyRecipient(ctx, s.recipientRepo, familyID, recipientID)
}

func (s *recipientService) ListRecipients(ctx context.Context, familyID string, category *domain.RecipientCategory, userID string) ([]domain.ZakatRecipient, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionView); err != nil {
		return nil, err
	}
	recipients, err := s.recipientRepo.ListRecipients(ctx, familyID, category)
	if err != nil {
		s.LogError(ctx, err, "Failed to list zakat recipients", slog.String("family_id", familyID))
		return nil, err
	}
	return recipients, nil
}

func (s *recipientService) UpdateRecipient(ctx context.Context, familyID, recipientID string, req dto.UpdateRecipientRequest, userID string) (*domain.ZakatRecipient, error) {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return nil, err
	}
	recipient, err := findFamilyRecipient(ctx, s.recipientRepo, familyID, recipientID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		recipient.Name = *req.Name
	}
	if req.Category != nil {
		if !domain.IsValidRecipientCategory(*req.Category) {
			return nil, fmt.Errorf("%w: unknown recipient category %q", apperrors.ErrValidation, *req.Category)
		}
		recipient.Category = *req.Category
	}
	if req.Phone != nil {
		recipient.Phone = *req.Phone
	}
	if req.Address != nil {
		recipient.Address = *req.Address
	}
	if req.Notes != nil {
		recipient.Notes = *req.Notes
	}
	if req.IsActive != nil {
		recipient.IsActive = *req.IsActive
	}
	recipient.LastUpdatedAt = s.Now()
	recipient.LastUpdatedBy = userID

	if err := s.recipientRepo.UpdateRecipient(ctx, *recipient); err != nil {
		s.LogError(ctx, err, "Failed to update zakat recipient", slog.String("recipient_id", recipientID))
		return nil, err
	}
	return recipient, nil
}

// DeleteRecipient removes a recipient. Recorded payments keep the recipient's name.
func (s *recipientService) DeleteRecipient(ctx context.Context, familyID, recipientID, userID string) error {
	if _, err := s.Authorize(ctx, userID, familyID, domain.PermissionEdit); err != nil {
		return err
	}
	if _, err := findFamilyRecipient(ctx, s.recipientRepo, familyID, recipientID); err != nil {
		return err
	}
	if err := s.recipientRepo.DeleteRecipient(ctx, recipientID); err != nil {
		s.LogError(ctx, err, "Failed to delete zakat recipient", slog.String("recipient_id", recipientID))
		return err
	}
	return nil
}

func findFamilyRecipient(ctx context.Context, repo portsrepo.RecipientRepositoryFacade, familyID, recipientID string) (*domain.ZakatRecipient, error) {
	recipient, err := repo.FindRecipientByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient.FamilyID != familyID {
		return nil, fmt.Errorf("%w: zakat recipient %s", apperrors.ErrNotFound, recipientID)
	}
	return recipient, nil
}
