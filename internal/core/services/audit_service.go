package services

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/pkg/pagination"
)

// AuditService reads the audit and activity logs
type AuditService struct {
	store *repositories.Store
}

// NewAuditService creates a new audit service
func NewAuditService(store *repositories.Store) *AuditService {
	return &AuditService{store: store}
}

// ListAudit returns a page of audit rows, newest first
func (s *AuditService) ListAudit(ctx context.Context, filter repositories.AuditFilter, params *pagination.Params) ([]*models.AuditLog, int64, error) {
	return s.store.Audit.ListAudit(ctx, filter, params.Offset, params.Limit)
}

// ListActivity returns a page of session events, newest first
func (s *AuditService) ListActivity(ctx context.Context, filter repositories.AuditFilter, params *pagination.Params) ([]*models.ActivityLog, int64, error) {
	return s.store.Audit.ListActivity(ctx, filter, params.Offset, params.Limit)
}
